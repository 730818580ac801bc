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

import "time"

// Handler timeouts for HTTP request processing.
const (
	// ReadHandlerTimeout bounds ListApplications and GetApplication requests.
	ReadHandlerTimeout = 30 * time.Second

	// CreateHandlerTimeout bounds a CreateDeployment request, including the
	// time it spends queued behind earlier deployments.
	// Must exceed K8sServiceReadyTimeout.
	CreateHandlerTimeout = 15 * time.Minute
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// CreateDeployment holds the response open until the target Service appears.
	ServerWriteTimeout = CreateHandlerTimeout + 30*time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Kubernetes timeouts for K8s API operations.
const (
	// K8sJobCreationTimeout is the timeout for creating K8s Job resources.
	K8sJobCreationTimeout = 30 * time.Second

	// K8sAPITimeout is the timeout for a single list or create call.
	K8sAPITimeout = 30 * time.Second

	// K8sPrepareTimeout bounds the startup permission checks and RBAC setup.
	K8sPrepareTimeout = 1 * time.Minute

	// K8sServicePollInterval is the delay between Service listings while
	// waiting for a deployed application to become visible.
	K8sServicePollInterval = 1 * time.Second

	// K8sServiceReadyTimeout is the default upper bound on that wait.
	K8sServiceReadyTimeout = 10 * time.Minute

	// K8sJobTTLAfterFinished lets the cluster garbage-collect finished deployer jobs.
	K8sJobTTLAfterFinished = 1 * time.Hour

	// K8sJobActiveDeadline caps how long a deployer job may run.
	K8sJobActiveDeadline = 10 * time.Minute
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// OCI timeouts for bundle registry operations.
const (
	// OCIPullTimeout bounds pulling an application bundle from a registry.
	OCIPullTimeout = 5 * time.Minute

	// OCIPushTimeout bounds publishing an application bundle.
	OCIPushTimeout = 5 * time.Minute
)

// CLI timeouts for command-line operations.
const (
	// CLIDeployTimeout is the default timeout for the in-job deploy command.
	CLIDeployTimeout = 5 * time.Minute

	// CLIClientTimeout is the default timeout for client calls against a
	// running testbed. Creating a deployment may block for minutes.
	CLIClientTimeout = CreateHandlerTimeout + time.Minute
)
