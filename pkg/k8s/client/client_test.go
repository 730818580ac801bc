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

package client

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const kubeconfigYAML = `apiVersion: v1
kind: Config
clusters:
- name: test
  cluster:
    server: https://127.0.0.1:6443
contexts:
- name: test
  context:
    cluster: test
    user: test
current-context: test
users:
- name: test
  user:
    token: abc
`

func TestResolveKubeconfig(t *testing.T) {
	t.Run("explicit wins", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/from/env")
		if got := resolveKubeconfig("/explicit"); got != "/explicit" {
			t.Errorf("resolveKubeconfig() = %q, want /explicit", got)
		}
	})

	t.Run("env var", func(t *testing.T) {
		t.Setenv("KUBECONFIG", "/from/env")
		if got := resolveKubeconfig(""); got != "/from/env" {
			t.Errorf("resolveKubeconfig() = %q, want /from/env", got)
		}
	})

	t.Run("home config", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("KUBECONFIG", "")
		p := filepath.Join(home, ".kube", "config")
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(kubeconfigYAML), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := resolveKubeconfig(""); got != p {
			t.Errorf("resolveKubeconfig() = %q, want %q", got, p)
		}
	})

	t.Run("nothing found means in-cluster", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("KUBECONFIG", "")
		if got := resolveKubeconfig(""); got != "" {
			t.Errorf("resolveKubeconfig() = %q, want empty", got)
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("invalid path", func(t *testing.T) {
		_, _, err := New(Options{Kubeconfig: "/nonexistent/path/to/kubeconfig"})
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "failed to build kube config") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("valid kubeconfig applies options", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config")
		if err := os.WriteFile(p, []byte(kubeconfigYAML), 0o600); err != nil {
			t.Fatal(err)
		}

		cs, cfg, err := New(Options{Kubeconfig: p, UserAgent: "tsunami-testbed/test", QPS: 50, Burst: 100})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if cs == nil {
			t.Fatal("expected clientset")
		}
		if cfg.Host != "https://127.0.0.1:6443" {
			t.Errorf("Host = %q", cfg.Host)
		}
		if cfg.UserAgent != "tsunami-testbed/test" {
			t.Errorf("UserAgent = %q", cfg.UserAgent)
		}
		if cfg.QPS != 50 || cfg.Burst != 100 {
			t.Errorf("QPS/Burst = %v/%v", cfg.QPS, cfg.Burst)
		}
	})
}
