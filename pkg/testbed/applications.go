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
	"fmt"
	"strconv"

	"github.com/agnivade/levenshtein"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
)

// maxSuggestionDistance is the largest edit distance offered as a suggestion.
const maxSuggestionDistance = 3

// ListApplications returns the names of the Services in the namespace.
func (o *Orchestrator) ListApplications(ctx context.Context) ([]string, error) {
	services, err := o.services(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(services))
	for _, svc := range services {
		names = append(names, svc.Name)
	}
	return names, nil
}

// GetServiceEndpoint returns the endpoint of the Service named name.
func (o *Orchestrator) GetServiceEndpoint(ctx context.Context, name string) (*Endpoint, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "application name is required")
	}

	services, err := o.services(ctx)
	if err != nil {
		return nil, err
	}
	for i := range services {
		if services[i].Name == name {
			return endpointOf(&services[i]), nil
		}
	}
	return nil, notFound(name, services)
}

func (o *Orchestrator) services(ctx context.Context) ([]corev1.Service, error) {
	list, err := o.clientset.CoreV1().Services(o.config.Namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to list services", err,
			map[string]any{"namespace": o.config.Namespace})
	}
	return list.Items, nil
}

// endpointOf reads the first load balancer ingress and the first declared port.
func endpointOf(svc *corev1.Service) *Endpoint {
	ep := &Endpoint{IP: Unknown, Port: Unknown}

	if ingress := svc.Status.LoadBalancer.Ingress; len(ingress) > 0 {
		switch {
		case ingress[0].IP != "":
			ep.IP = ingress[0].IP
			ep.IPAssigned = true
		case ingress[0].Hostname != "":
			ep.IP = ingress[0].Hostname
			ep.IPAssigned = true
		}
	}
	if len(svc.Spec.Ports) > 0 {
		ep.Port = strconv.Itoa(int(svc.Spec.Ports[0].Port))
		ep.PortDeclared = true
	}
	return ep
}

func notFound(name string, services []corev1.Service) error {
	suggestion := ""
	best := maxSuggestionDistance + 1
	for _, svc := range services {
		if d := levenshtein.ComputeDistance(name, svc.Name); d < best {
			best = d
			suggestion = svc.Name
		}
	}

	if suggestion == "" {
		return apperrors.New(apperrors.ErrCodeNotFound,
			fmt.Sprintf("application %q not found", name))
	}
	return apperrors.NewWithContext(apperrors.ErrCodeNotFound,
		fmt.Sprintf("application %q not found, did you mean %q?", name, suggestion),
		map[string]any{"suggestion": suggestion})
}
