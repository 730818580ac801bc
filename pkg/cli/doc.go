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

// Package cli implements the testbed command-line interface.
//
// # Commands
//
// serve - Run the RPC server:
//
//	testbed serve --deployer_image ghcr.io/nvidia/tsunami-testbed:latest --port 8000
//
// Accepts createDeployment, listApplications and getApplication calls. Each
// deployment runs as a Job executing the deploy command below, and the call
// returns once the application's Service can be seen.
//
// deploy - Deploy an application directly:
//
//	testbed deploy --app_name jupyter --template_data "{'jupyter_version':'latest'}"
//
// client - Call a running server:
//
//	testbed client --operation getApplication --app_name jupyter --format json
//
// render - Print the manifest of an application without touching the cluster:
//
//	testbed render --app_name wordpress --template_data "{...}" --dry-run
//
// bundle - Publish or list application bundles:
//
//	testbed bundle push --dir ./apps --app_name echo --reference oci://ghcr.io/nvidia/testbed-apps:v1
//	testbed bundle list --config_path oci://ghcr.io/nvidia/testbed-apps:v1
//
// cleanup - Remove the deployer RBAC resources:
//
//	testbed cleanup --namespace default
//
// # Environment Variables
//
//	LOG_LEVEL          Logging verbosity (debug, info, warn, error)
//	PORT               serve --port
//	DEPLOYER_IMAGE     serve --deployer_image
//	TESTBED_NAMESPACE  --namespace
//	API_KEY            --api_key
//	AUTH_TOKEN         --auth_token
//	TESTBED_ADDRESS    client --address
//	KUBECONFIG         --kubeconfig
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/tsunami-testbed/pkg/cli.version=1.0.0'"
package cli
