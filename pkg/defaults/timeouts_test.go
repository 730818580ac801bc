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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Handler timeouts
		{"ReadHandlerTimeout", ReadHandlerTimeout, 5 * time.Second, 60 * time.Second},
		{"CreateHandlerTimeout", CreateHandlerTimeout, 1 * time.Minute, 30 * time.Minute},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, 60 * time.Second},

		// K8s timeouts
		{"K8sJobCreationTimeout", K8sJobCreationTimeout, 10 * time.Second, 60 * time.Second},
		{"K8sAPITimeout", K8sAPITimeout, 10 * time.Second, 60 * time.Second},
		{"K8sPrepareTimeout", K8sPrepareTimeout, 10 * time.Second, 5 * time.Minute},
		{"K8sServicePollInterval", K8sServicePollInterval, 100 * time.Millisecond, 10 * time.Second},
		{"K8sServiceReadyTimeout", K8sServiceReadyTimeout, 1 * time.Minute, 30 * time.Minute},

		// HTTP client timeouts
		{"HTTPClientTimeout", HTTPClientTimeout, 10 * time.Second, 60 * time.Second},
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},

		// OCI timeouts
		{"OCIPullTimeout", OCIPullTimeout, 1 * time.Minute, 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestCreateTimeoutsNest(t *testing.T) {
	// The handler must outlive the readiness wait so the wait can report
	// its own timeout, and the server must outlive the handler.
	if CreateHandlerTimeout <= K8sServiceReadyTimeout {
		t.Errorf("CreateHandlerTimeout (%v) should exceed K8sServiceReadyTimeout (%v)",
			CreateHandlerTimeout, K8sServiceReadyTimeout)
	}
	if ServerWriteTimeout <= CreateHandlerTimeout {
		t.Errorf("ServerWriteTimeout (%v) should exceed CreateHandlerTimeout (%v)",
			ServerWriteTimeout, CreateHandlerTimeout)
	}
	if CLIClientTimeout <= CreateHandlerTimeout {
		t.Errorf("CLIClientTimeout (%v) should exceed CreateHandlerTimeout (%v)",
			CLIClientTimeout, CreateHandlerTimeout)
	}
}

func TestServerTimeoutRelationships(t *testing.T) {
	// Read timeout should be shorter than write timeout
	if ServerReadTimeout > ServerWriteTimeout {
		t.Errorf("ServerReadTimeout (%v) should not exceed ServerWriteTimeout (%v)",
			ServerReadTimeout, ServerWriteTimeout)
	}
	if ServerReadHeaderTimeout > ServerReadTimeout {
		t.Errorf("ServerReadHeaderTimeout (%v) should not exceed ServerReadTimeout (%v)",
			ServerReadHeaderTimeout, ServerReadTimeout)
	}
}

func TestHTTPClientTimeoutRelationships(t *testing.T) {
	// Connect timeout should be less than total timeout
	if HTTPConnectTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPConnectTimeout, HTTPClientTimeout)
	}

	// TLS handshake timeout should be less than total timeout
	if HTTPTLSHandshakeTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPTLSHandshakeTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPTLSHandshakeTimeout, HTTPClientTimeout)
	}
}

func TestJobDeadlineWithinReadyTimeout(t *testing.T) {
	if K8sJobActiveDeadline > K8sServiceReadyTimeout {
		t.Errorf("K8sJobActiveDeadline (%v) should not exceed K8sServiceReadyTimeout (%v)",
			K8sJobActiveDeadline, K8sServiceReadyTimeout)
	}
}
