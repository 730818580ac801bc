// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		cfg := parseConfig()

		if cfg.Address != "" {
			t.Errorf("expected empty address, got %s", cfg.Address)
		}
		if cfg.Port != 8000 {
			t.Errorf("expected port 8000, got %d", cfg.Port)
		}
		if cfg.RateLimit != 100 || cfg.RateLimitBurst != 200 {
			t.Errorf("expected rate limit 100/200, got %v/%d", cfg.RateLimit, cfg.RateLimitBurst)
		}
		if cfg.APIKey != "" || cfg.AuthToken != "" {
			t.Error("expected auth to be off by default")
		}
		if cfg.ReadTimeout != 10*time.Second {
			t.Errorf("expected read timeout 10s, got %v", cfg.ReadTimeout)
		}
		if cfg.WriteTimeout <= 15*time.Minute {
			t.Errorf("write timeout %v must outlast the create handler", cfg.WriteTimeout)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Errorf("expected shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
		}
	})

	tests := []struct {
		name     string
		port     string
		wantPort int
	}{
		{"custom port", "9090", 9090},
		{"zero port", "0", 0},
		{"invalid port", "invalid", 8000},
		{"out of range port", "70000", 8000},
		{"negative port", "-1", 8000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			if got := parseConfig().Port; got != tt.wantPort {
				t.Errorf("PORT=%q: got %d, want %d", tt.port, got, tt.wantPort)
			}
		})
	}

	t.Run("shutdown timeout from environment", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "5")
		if got := parseConfig().ShutdownTimeout; got != 5*time.Second {
			t.Errorf("expected 5s, got %v", got)
		}
	})
}
