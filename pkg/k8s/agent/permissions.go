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

package agent

import (
	"context"
	"fmt"
	"strings"

	authv1 "k8s.io/api/authorization/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PermissionCheck represents a single permission check result.
type PermissionCheck struct {
	Group     string
	Resource  string
	Verb      string
	Namespace string
	Allowed   bool
	Reason    string
}

type requirement struct {
	group    string
	resource string
	verb     string
}

// serverRequirements is what the testbed server itself does in its namespace.
var serverRequirements = []requirement{
	{"", "serviceaccounts", "create"},
	{"rbac.authorization.k8s.io", "roles", "create"},
	{"rbac.authorization.k8s.io", "rolebindings", "create"},
	{"batch", "jobs", "create"},
	{"batch", "jobs", "get"},
	{"", "services", "list"},
	{"", "pods", "list"},
	{"", "pods/log", "get"},
}

// CheckPermissions verifies that the current identity can run the testbed
// in the configured namespace. It returns every check made, and an error
// listing the missing permissions if any are denied.
func (d *Deployer) CheckPermissions(ctx context.Context) ([]PermissionCheck, error) {
	checks := make([]PermissionCheck, 0, len(serverRequirements))
	var missing []string

	for _, req := range serverRequirements {
		allowed, reason, err := d.checkPermission(ctx, req.group, req.resource, req.verb)
		if err != nil {
			return checks, fmt.Errorf("failed to check permission for %s %s: %w", req.verb, req.resource, err)
		}

		checks = append(checks, PermissionCheck{
			Group:     req.group,
			Resource:  req.resource,
			Verb:      req.verb,
			Namespace: d.config.Namespace,
			Allowed:   allowed,
			Reason:    reason,
		})

		if !allowed {
			missing = append(missing,
				fmt.Sprintf("%s %s (namespace %q)", req.verb, req.resource, d.config.Namespace))
		}
	}

	if len(missing) > 0 {
		return checks, fmt.Errorf("missing required permissions:\n  - %s",
			strings.Join(missing, "\n  - "))
	}
	return checks, nil
}

// checkPermission checks if the current identity can perform the specified action.
func (d *Deployer) checkPermission(ctx context.Context, group, resource, verb string) (bool, string, error) {
	res, sub, _ := strings.Cut(resource, "/")
	review := &authv1.SelfSubjectAccessReview{
		Spec: authv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authv1.ResourceAttributes{
				Group:       group,
				Verb:        verb,
				Resource:    res,
				Subresource: sub,
				Namespace:   d.config.Namespace,
			},
		},
	}

	result, err := d.clientset.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		return false, "", err
	}
	return result.Status.Allowed, result.Status.Reason, nil
}
