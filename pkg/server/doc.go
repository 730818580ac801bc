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

// Package server provides the HTTP server hosting the testbed API.
//
// The server is a net/http ServeMux with a fixed middleware chain applied to
// every API route: Prometheus metrics, API version negotiation, request ids,
// panic recovery, token bucket rate limiting (golang.org/x/time/rate),
// optional credentials, and debug request logging.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("testbed"),
//	    server.WithVersion(version),
//	    server.WithHandler(orchestrator.Handlers()),
//	    server.WithAuth(apiKey, authToken),
//	    server.WithWorker(orchestrator.Run),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// Run starts the workers and the listener in one errgroup and returns after
// SIGINT, SIGTERM or cancellation of ctx, once the server has drained.
//
// # Configuration
//
// NewConfig reads:
//
//	PORT                      listening port (default 8000)
//	SHUTDOWN_TIMEOUT_SECONDS  graceful shutdown budget (default 30)
//
// # Authentication
//
// WithAuth turns on two independent checks for API routes. A non-empty API
// key must match the x-api-key header; a non-empty token must arrive as
// "Authorization: Bearer <token>". Failures return 401 UNAUTHORIZED.
//
// # System Endpoints
//
//	GET /         server name, version, readiness and routes
//	GET /health   liveness, always 200
//	GET /ready    readiness, 503 until the listener is up
//	GET /metrics  Prometheus metrics
//
// System endpoints bypass the middleware chain.
//
// # Errors
//
// Handlers report failures with WriteError or WriteErrorFromErr. Both write
// an ErrorResponse:
//
//	{
//	  "code": "NOT_FOUND",
//	  "message": "application \"x\" not found",
//	  "details": {...},
//	  "requestId": "550e8400-e29b-41d4-a716-446655440000",
//	  "timestamp": "2025-01-01T00:00:00Z",
//	  "retryable": false
//	}
//
// WriteErrorFromErr takes the status from the StructuredError code in the
// chain (see HTTPStatusFromCode); other errors become 500 INTERNAL.
package server
