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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
)

func svc(name string, ports []int32, ingress ...corev1.LoadBalancerIngress) *corev1.Service {
	s := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Status: corev1.ServiceStatus{
			LoadBalancer: corev1.LoadBalancerStatus{Ingress: ingress},
		},
	}
	for _, p := range ports {
		s.Spec.Ports = append(s.Spec.Ports, corev1.ServicePort{Port: p})
	}
	return s
}

func TestListApplications(t *testing.T) {
	clientset := fake.NewClientset(
		svc("jupyter", []int32{80}),
		svc("wordpress", []int32{80}),
		&corev1.Service{ObjectMeta: metav1.ObjectMeta{Name: "elsewhere", Namespace: "other"}},
	)
	o := NewOrchestrator(clientset, Config{})

	names, err := o.ListApplications(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"jupyter", "wordpress"}, names)
}

func TestListApplicationsEmpty(t *testing.T) {
	o := NewOrchestrator(fake.NewClientset(), Config{})

	names, err := o.ListApplications(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestListApplicationsClusterError(t *testing.T) {
	clientset := fake.NewClientset()
	clientset.PrependReactor("list", "services", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("connection refused")
	})
	o := NewOrchestrator(clientset, Config{})

	_, err := o.ListApplications(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
}

func TestGetServiceEndpoint(t *testing.T) {
	clientset := fake.NewClientset(
		svc("jupyter", []int32{80}),
		svc("wordpress", []int32{80, 443}, corev1.LoadBalancerIngress{IP: "203.0.113.10"}),
		svc("grafana", []int32{3000}, corev1.LoadBalancerIngress{Hostname: "grafana.example.com"}),
		svc("headless", nil),
	)
	o := NewOrchestrator(clientset, Config{})

	tests := []struct {
		name string
		app  string
		want Endpoint
	}{
		{
			name: "no load balancer",
			app:  "jupyter",
			want: Endpoint{IP: Unknown, Port: "80", PortDeclared: true},
		},
		{
			name: "ingress ip and first port",
			app:  "wordpress",
			want: Endpoint{IP: "203.0.113.10", Port: "80", IPAssigned: true, PortDeclared: true},
		},
		{
			name: "ingress hostname",
			app:  "grafana",
			want: Endpoint{IP: "grafana.example.com", Port: "3000", IPAssigned: true, PortDeclared: true},
		},
		{
			name: "no ports",
			app:  "headless",
			want: Endpoint{IP: Unknown, Port: Unknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := o.GetServiceEndpoint(context.Background(), tt.app)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestGetServiceEndpointNotFound(t *testing.T) {
	clientset := fake.NewClientset(svc("jupyter", []int32{80}))
	o := NewOrchestrator(clientset, Config{})

	t.Run("missing application", func(t *testing.T) {
		_, err := o.GetServiceEndpoint(context.Background(), "missing-app")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
		assert.NotContains(t, err.Error(), "did you mean")
	})

	t.Run("close name is suggested", func(t *testing.T) {
		_, err := o.GetServiceEndpoint(context.Background(), "jupyterr")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
		assert.Contains(t, err.Error(), `did you mean "jupyter"`)

		var se *apperrors.StructuredError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "jupyter", se.Context["suggestion"])
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := o.GetServiceEndpoint(context.Background(), "")
		assert.Equal(t, apperrors.ErrCodeInvalidArgument, apperrors.CodeOf(err))
	})
}
