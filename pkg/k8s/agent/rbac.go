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

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// deployerRules grants what the in-job deploy command needs: creating every
// kind the manifest multiplexer supports.
var deployerRules = []rbacv1.PolicyRule{
	{
		APIGroups: []string{""},
		Resources: []string{"services", "pods", "persistentvolumeclaims", "secrets", "configmaps"},
		Verbs:     []string{"create", "get"},
	},
	{
		APIGroups: []string{"apps"},
		Resources: []string{"deployments"},
		Verbs:     []string{"create", "get"},
	},
	{
		APIGroups: []string{"batch"},
		Resources: []string{"jobs"},
		Verbs:     []string{"create", "get"},
	},
}

func (d *Deployer) objectMeta() metav1.ObjectMeta {
	return metav1.ObjectMeta{
		Name:      d.config.ServiceAccountName,
		Namespace: d.config.Namespace,
		Labels: map[string]string{
			LabelName:      deployerName,
			LabelManagedBy: managedBy,
		},
	}
}

// ensureServiceAccount creates the ServiceAccount deployer jobs run as.
// If the ServiceAccount already exists, this is a no-op (idempotent).
func (d *Deployer) ensureServiceAccount(ctx context.Context) error {
	sa := &corev1.ServiceAccount{ObjectMeta: d.objectMeta()}
	_, err := d.clientset.CoreV1().ServiceAccounts(d.config.Namespace).Create(ctx, sa, metav1.CreateOptions{})
	return ignoreAlreadyExists(err)
}

// ensureRole creates the Role granting resource creation in the namespace.
// If the Role already exists, this is a no-op (idempotent).
func (d *Deployer) ensureRole(ctx context.Context) error {
	role := &rbacv1.Role{
		ObjectMeta: d.objectMeta(),
		Rules:      deployerRules,
	}
	_, err := d.clientset.RbacV1().Roles(d.config.Namespace).Create(ctx, role, metav1.CreateOptions{})
	return ignoreAlreadyExists(err)
}

// ensureRoleBinding binds the Role to the ServiceAccount.
// If the RoleBinding already exists, this is a no-op (idempotent).
func (d *Deployer) ensureRoleBinding(ctx context.Context) error {
	rb := &rbacv1.RoleBinding{
		ObjectMeta: d.objectMeta(),
		Subjects: []rbacv1.Subject{
			{
				Kind:      rbacv1.ServiceAccountKind,
				Name:      d.config.ServiceAccountName,
				Namespace: d.config.Namespace,
			},
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "Role",
			Name:     d.config.ServiceAccountName,
		},
	}
	_, err := d.clientset.RbacV1().RoleBindings(d.config.Namespace).Create(ctx, rb, metav1.CreateOptions{})
	return ignoreAlreadyExists(err)
}

// deleteServiceAccount deletes the ServiceAccount.
// If the ServiceAccount doesn't exist, this is a no-op (idempotent).
func (d *Deployer) deleteServiceAccount(ctx context.Context) error {
	err := d.clientset.CoreV1().ServiceAccounts(d.config.Namespace).
		Delete(ctx, d.config.ServiceAccountName, metav1.DeleteOptions{})
	return ignoreNotFound(err)
}

// deleteRole deletes the Role.
func (d *Deployer) deleteRole(ctx context.Context) error {
	err := d.clientset.RbacV1().Roles(d.config.Namespace).
		Delete(ctx, d.config.ServiceAccountName, metav1.DeleteOptions{})
	return ignoreNotFound(err)
}

// deleteRoleBinding deletes the RoleBinding.
func (d *Deployer) deleteRoleBinding(ctx context.Context) error {
	err := d.clientset.RbacV1().RoleBindings(d.config.Namespace).
		Delete(ctx, d.config.ServiceAccountName, metav1.DeleteOptions{})
	return ignoreNotFound(err)
}
