// Package api runs the testbed RPC server.
//
// Serve wires the pieces together: it builds the Kubernetes client, creates
// the deployment orchestrator, prepares the deployer RBAC, and hands the
// orchestrator's routes and worker loop to pkg/server.
//
// # Usage
//
//	err := api.Serve(ctx, api.Options{
//	    Port:          8000,
//	    DeployerImage: "ghcr.io/nvidia/tsunami-testbed:latest",
//	})
//
// # Endpoints
//
// Application endpoints (rate limited, optionally authenticated):
//   - POST /v1/deployments         - deploy an application and wait for its Service
//   - GET  /v1/applications        - list deployed applications
//   - GET  /v1/applications/{name} - service endpoint of one application
//
// System endpoints:
//   - GET /health  - liveness probe
//   - GET /ready   - readiness probe
//   - GET /metrics - Prometheus metrics
//
// # Authentication
//
// With Options.APIKey set, requests must carry it in x-api-key. With
// Options.AuthToken set, they must send Authorization: Bearer <token>.
// System endpoints are never authenticated.
//
// Version information is injected at build time:
//
//	go build -ldflags="-X 'github.com/NVIDIA/tsunami-testbed/pkg/api.version=1.0.0'"
package api
