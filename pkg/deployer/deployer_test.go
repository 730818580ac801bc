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

package deployer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
	"github.com/NVIDIA/tsunami-testbed/pkg/manifest"
	"github.com/NVIDIA/tsunami-testbed/pkg/params"
	"github.com/NVIDIA/tsunami-testbed/pkg/render"
)

const jupyterData = "{'jupyter_version':'latest'}"

func writeBundle(t *testing.T, app string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, app, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func TestRender(t *testing.T) {
	out, err := Render(context.Background(), Options{App: "jupyter", TemplateData: jupyterData})
	require.NoError(t, err)
	assert.Contains(t, out, "image: jupyter/base-notebook:latest")
	assert.Contains(t, out, "kind: Service")
	assert.Contains(t, out, "\n---\n")
	assert.NotContains(t, out, "${")
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode apperrors.ErrorCode
		check    func(t *testing.T, err error)
	}{
		{
			name:     "no application",
			opts:     Options{},
			wantCode: apperrors.ErrCodeInvalidArgument,
		},
		{
			name:     "bad template data",
			opts:     Options{App: "jupyter", TemplateData: "{'a':['b']}"},
			wantCode: apperrors.ErrCodeInvalidArgument,
			check: func(t *testing.T, err error) {
				var de *params.DecodeError
				assert.ErrorAs(t, err, &de)
			},
		},
		{
			name:     "missing parameter",
			opts:     Options{App: "jupyter"},
			wantCode: apperrors.ErrCodeInternal,
			check: func(t *testing.T, err error) {
				var re *render.ResolutionError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, []string{"jupyter_version"}, re.Missing)
			},
		},
		{
			name:     "unknown application",
			opts:     Options{App: "missing-app"},
			wantCode: apperrors.ErrCodeNotFound,
		},
		{
			name:     "missing config path",
			opts:     Options{App: "jupyter", ConfigPath: "/does/not/exist"},
			wantCode: apperrors.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(context.Background(), tt.opts)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestRenderLocalBundle(t *testing.T) {
	dir := writeBundle(t, "echo", map[string]string{
		"b-service.yaml": "apiVersion: v1\nkind: Service\nmetadata:\n  name: echo\nspec:\n  ports:\n  - port: ${port}\n",
		"a-pod.yaml":     "apiVersion: v1\nkind: Pod\nmetadata:\n  name: echo\nspec:\n  containers:\n  - name: echo\n    image: echo",
	})

	out, err := Render(context.Background(), Options{App: "echo", ConfigPath: dir, TemplateData: "{'port':8080}"})
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "kind: Pod"), strings.Index(out, "kind: Service"), "lexical order")
	assert.Contains(t, out, "port: 8080")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestRun(t *testing.T) {
	clientset := fake.NewClientset()

	created, err := Run(context.Background(), clientset, Options{
		App:          "jupyter",
		TemplateData: jupyterData,
		Namespace:    "tsunami",
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	kinds := []manifest.Kind{created[0].Kind, created[1].Kind}
	assert.ElementsMatch(t, []manifest.Kind{manifest.KindDeployment, manifest.KindService}, kinds)

	svc, err := clientset.CoreV1().Services("tsunami").Get(context.Background(), "jupyter", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, corev1.ServiceTypeLoadBalancer, svc.Spec.Type)

	_, err = clientset.AppsV1().Deployments("tsunami").Get(context.Background(), "jupyter", metav1.GetOptions{})
	require.NoError(t, err)
}

func TestRunDefaultNamespace(t *testing.T) {
	clientset := fake.NewClientset()

	_, err := Run(context.Background(), clientset, Options{App: "jupyter", TemplateData: jupyterData})
	require.NoError(t, err)

	_, err = clientset.CoreV1().Services("default").Get(context.Background(), "jupyter", metav1.GetOptions{})
	require.NoError(t, err)
}

func TestRunUnsupportedKind(t *testing.T) {
	dir := writeBundle(t, "rs", map[string]string{
		"a-service.yaml":    "apiVersion: v1\nkind: Service\nmetadata:\n  name: rs\n",
		"b-replicaset.yaml": "apiVersion: apps/v1\nkind: ReplicaSet\nmetadata:\n  name: rs\n",
		"c-pod.yaml":        "apiVersion: v1\nkind: Pod\nmetadata:\n  name: rs\n",
	})
	clientset := fake.NewClientset()

	created, err := Run(context.Background(), clientset, Options{App: "rs", ConfigPath: dir})
	require.Error(t, err)

	var ke *manifest.KindError
	require.ErrorAs(t, err, &ke)
	assert.Equal(t, "ReplicaSet", ke.Kind)
	assert.Len(t, created, 1, "service is created before the failure")

	pods, err := clientset.CoreV1().Pods("default").List(context.Background(), metav1.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, pods.Items, "processing stops at the unsupported kind")
}

func TestRunClusterError(t *testing.T) {
	existing := &corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "jupyter", Namespace: "default"}}
	clientset := fake.NewClientset(existing)

	_, err := Run(context.Background(), clientset, Options{App: "jupyter", TemplateData: jupyterData})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deploy jupyter")
}

func TestRunRenderFailureCreatesNothing(t *testing.T) {
	clientset := fake.NewClientset()

	_, err := Run(context.Background(), clientset, Options{App: "jupyter"})
	var re *render.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Empty(t, clientset.Actions())
}

func TestRunNilClient(t *testing.T) {
	_, err := Run(context.Background(), nil, Options{App: "jupyter"})
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
}
