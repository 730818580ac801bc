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
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"
)

// Interface is an alias for kubernetes.Interface so callers can accept
// fake.NewClientset() in tests.
type Interface = kubernetes.Interface

// Options configures client construction.
type Options struct {
	// Kubeconfig is an explicit kubeconfig path. Empty means discover.
	Kubeconfig string
	// UserAgent identifies the testbed to the API server.
	UserAgent string
	// QPS and Burst override the client-side rate limit when positive.
	QPS   float32
	Burst int
}

// New creates a Kubernetes client.
//
// Configuration is discovered in order from:
//   - opts.Kubeconfig
//   - KUBECONFIG environment variable
//   - ~/.kube/config (if it exists)
//   - In-cluster service account (when running as a Pod)
//
// The client is returned to the caller rather than cached; components
// receive it at construction time.
func New(opts Options) (*kubernetes.Clientset, *rest.Config, error) {
	config, err := restConfig(resolveKubeconfig(opts.Kubeconfig))
	if err != nil {
		return nil, nil, err
	}
	if opts.UserAgent != "" {
		config.UserAgent = opts.UserAgent
	}
	if opts.QPS > 0 {
		config.QPS = opts.QPS
	}
	if opts.Burst > 0 {
		config.Burst = opts.Burst
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return client, config, nil
}

// resolveKubeconfig returns the kubeconfig path to use, or "" for in-cluster.
func resolveKubeconfig(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home := filepath.Join(homedir.HomeDir(), ".kube", "config")
	if _, err := os.Stat(home); err == nil {
		return home
	}
	return ""
}

func restConfig(kubeconfig string) (*rest.Config, error) {
	// Use InClusterConfig directly when no kubeconfig is available
	// This avoids the warning: "Neither --kubeconfig nor --master was specified"
	if kubeconfig == "" {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
		return config, nil
	}
	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
	}
	return config, nil
}
