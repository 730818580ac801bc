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

// Package defaults provides centralized configuration constants for the testbed.
//
// This package defines timeout values, poll intervals, and other configuration
// defaults used across the codebase. Centralizing these values ensures consistency
// and makes tuning easier.
//
// # Timeout Categories
//
// Timeouts are organized by component:
//
//   - Handler timeouts: For HTTP request processing
//   - Server timeouts: For HTTP server configuration
//   - Kubernetes timeouts: For K8s API operations and the readiness wait
//   - HTTP client timeouts: For outbound HTTP requests
//   - OCI timeouts: For bundle pull and push
//   - CLI timeouts: For command-line operations
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/NVIDIA/tsunami-testbed/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.K8sAPITimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
// CreateDeployment blocks until the deployed Service is visible, so its
// timeouts nest: readiness wait < create handler < server write < CLI client.
package defaults
