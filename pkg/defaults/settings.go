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

// Cluster placement.
const (
	// Namespace is the single namespace the testbed deploys into.
	Namespace = "default"

	// DeployerServiceAccount is the identity deployer jobs run as.
	DeployerServiceAccount = "tsunami-testbed-deployer"
)

// Server settings.
const (
	// ServerPort is the port the RPC server listens on.
	ServerPort = 8000

	// ServerAddress is the address the CLI client dials by default.
	ServerAddress = "http://localhost:8000"

	// ServerRateLimit is the sustained request rate per second.
	ServerRateLimit = 100

	// ServerRateLimitBurst is the burst size above the sustained rate.
	ServerRateLimitBurst = 200

	// ServerQueueSize is how many CreateDeployment requests may wait behind
	// the one in progress before callers are turned away.
	ServerQueueSize = 64
)
