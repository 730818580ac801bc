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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/NVIDIA/tsunami-testbed/pkg/server"
)

func newTestMux(o *Orchestrator) *http.ServeMux {
	mux := http.NewServeMux()
	for pattern, h := range o.Handlers() {
		mux.HandleFunc(pattern, h)
	}
	return mux
}

func serve(t *testing.T, mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) server.ErrorResponse {
	t.Helper()
	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestHandleApplications(t *testing.T) {
	o := NewOrchestrator(fake.NewClientset(svc("jupyter", []int32{80})), Config{})
	mux := newTestMux(o)

	w := serve(t, mux, http.MethodGet, "/v1/applications", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"applications":["jupyter"]}`, w.Body.String())

	w = serve(t, mux, http.MethodDelete, "/v1/applications", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, http.MethodGet, w.Header().Get("Allow"))
}

func TestHandleApplication(t *testing.T) {
	o := NewOrchestrator(fake.NewClientset(svc("jupyter", []int32{80})), Config{})
	mux := newTestMux(o)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantBody   string
		wantCode   string
	}{
		{
			name:       "endpoint with sentinels",
			method:     http.MethodGet,
			target:     "/v1/applications/jupyter",
			wantStatus: http.StatusOK,
			wantBody:   `{"serviceEndpoint":{"ip":"UNKNOWN","port":"80"}}`,
		},
		{
			name:       "not found",
			method:     http.MethodGet,
			target:     "/v1/applications/missing-app",
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "method not allowed",
			method:     http.MethodPost,
			target:     "/v1/applications/jupyter",
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   "METHOD_NOT_ALLOWED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, mux, tt.method, tt.target, "")
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
			}
		})
	}
}

func TestHandleDeployments(t *testing.T) {
	clientset := fake.NewClientset()
	newCluster(clientset, 1, true)
	o := NewOrchestrator(clientset, testConfig())
	startOrchestrator(t, o)
	mux := newTestMux(o)

	t.Run("created", func(t *testing.T) {
		w := serve(t, mux, http.MethodPost, "/v1/deployments",
			`{"application":"jupyter","templateData":"{\"jupyter_version\":\"notebook-6.0.3\"}"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got DeploymentResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "uid-jupyter", got.JobID)
		assert.True(t, got.Identified)
		assert.Equal(t, PhaseReady, got.Phase)
		assert.True(t, strings.HasPrefix(got.JobName, "jupyter-deployer-"))
	})

	t.Run("missing application", func(t *testing.T) {
		w := serve(t, mux, http.MethodPost, "/v1/deployments", `{}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, w).Code)
	})

	t.Run("empty body", func(t *testing.T) {
		w := serve(t, mux, http.MethodPost, "/v1/deployments", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := serve(t, mux, http.MethodPost, "/v1/deployments", `{"application":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, w).Code)
	})

	t.Run("invalid template data", func(t *testing.T) {
		w := serve(t, mux, http.MethodPost, "/v1/deployments",
			`{"application":"jupyter","templateData":"{\"a\":[1]}"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, w).Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		w := serve(t, mux, http.MethodGet, "/v1/deployments", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}
