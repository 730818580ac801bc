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

package testbed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
	"github.com/NVIDIA/tsunami-testbed/pkg/serializer"
	"github.com/NVIDIA/tsunami-testbed/pkg/server"
)

// Routes served by the orchestrator handlers.
const (
	RouteDeployments  = "/v1/deployments"
	RouteApplications = "/v1/applications"
	RouteApplication  = "/v1/applications/{name}"
)

// maxRequestBytes caps the create request body.
const maxRequestBytes = 1 << 20

// Handlers returns the orchestrator's routes keyed by pattern.
func (o *Orchestrator) Handlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		RouteDeployments:  o.HandleDeployments,
		RouteApplications: o.HandleApplications,
		RouteApplication:  o.HandleApplication,
	}
}

// HandleDeployments handles POST /v1/deployments. The response is written
// once the application's Service is observable.
func (o *Orchestrator) HandleDeployments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.CreateHandlerTimeout)
	defer cancel()

	var req ApplicationRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer body.Close()
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		server.WriteError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidArgument,
			"Invalid deployment request", false, map[string]any{
				"error": err.Error(),
			})
		return
	}

	slog.Debug("deployment requested",
		"application", req.Application,
		"config_path", req.ConfigPath,
		"deployer_job_path", req.DeployerJobPath,
	)

	result, err := o.CreateDeployment(ctx, req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to create deployment", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, result)
}

// HandleApplications handles GET /v1/applications.
func (o *Orchestrator) HandleApplications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.ReadHandlerTimeout)
	defer cancel()

	names, err := o.ListApplications(ctx)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to list applications", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, ApplicationList{Applications: names})
}

// HandleApplication handles GET /v1/applications/{name}.
func (o *Orchestrator) HandleApplication(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.ReadHandlerTimeout)
	defer cancel()

	ep, err := o.GetServiceEndpoint(ctx, r.PathValue("name"))
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to get application", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, ApplicationInfo{ServiceEndpoint: ep})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	server.WriteError(w, r, http.StatusMethodNotAllowed, apperrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{
			"method":  r.Method,
			"allowed": []string{allowed},
		})
}
