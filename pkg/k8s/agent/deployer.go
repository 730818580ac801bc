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
	"log/slog"

	"k8s.io/apimachinery/pkg/api/errors"
)

// Prepare makes the cluster ready to run deployer jobs: it checks the
// caller's permissions and ensures the deployer's RBAC resources exist.
//
// Denied permissions are reported as a warning and returned in the checks;
// only failures to talk to the cluster or create RBAC are errors.
func (d *Deployer) Prepare(ctx context.Context) ([]PermissionCheck, error) {
	checks, err := d.CheckPermissions(ctx)
	if err != nil {
		slog.Warn("testbed may lack required permissions",
			"namespace", d.config.Namespace,
			"error", err)
	}

	if err := d.ensureServiceAccount(ctx); err != nil {
		return checks, fmt.Errorf("failed to create ServiceAccount: %w", err)
	}
	if err := d.ensureRole(ctx); err != nil {
		return checks, fmt.Errorf("failed to create Role: %w", err)
	}
	if err := d.ensureRoleBinding(ctx); err != nil {
		return checks, fmt.Errorf("failed to create RoleBinding: %w", err)
	}

	slog.Info("deployer rbac ready",
		"namespace", d.config.Namespace,
		"service_account", d.config.ServiceAccountName)
	return checks, nil
}

// Cleanup removes the deployer RBAC resources. Deployer jobs are left for
// the cluster to garbage-collect.
func (d *Deployer) Cleanup(ctx context.Context) error {
	if err := d.deleteRoleBinding(ctx); err != nil {
		return fmt.Errorf("failed to delete RoleBinding: %w", err)
	}
	if err := d.deleteRole(ctx); err != nil {
		return fmt.Errorf("failed to delete Role: %w", err)
	}
	if err := d.deleteServiceAccount(ctx); err != nil {
		return fmt.Errorf("failed to delete ServiceAccount: %w", err)
	}
	return nil
}

// ignoreAlreadyExists returns nil if the error is "already exists", otherwise returns the error.
// Used to make resource creation idempotent.
func ignoreAlreadyExists(err error) error {
	if errors.IsAlreadyExists(err) {
		return nil
	}
	return err
}

// ignoreNotFound returns nil if the error is "not found", otherwise returns the error.
// Used to make resource deletion idempotent.
func ignoreNotFound(err error) error {
	if errors.IsNotFound(err) {
		return nil
	}
	return err
}
