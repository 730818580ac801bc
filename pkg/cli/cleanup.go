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

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/tsunami-testbed/pkg/k8s/agent"
)

func cleanupCmd() *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Remove the deployer ServiceAccount, Role and RoleBinding",
		Description: `Deletes the RBAC resources the server creates at startup. Deployed
applications and finished deployer Jobs are left in place.`,
		Flags: []cli.Flag{
			namespaceFlag(),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clientset, err := newClientset(cmd.String("kubeconfig"))
			if err != nil {
				return fmt.Errorf("failed to create kubernetes client: %w", err)
			}
			d := agent.NewDeployer(clientset, agent.Config{Namespace: cmd.String("namespace")})
			if err := d.Cleanup(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.Root().Writer, "removed deployer rbac from namespace %s\n", cmd.String("namespace"))
			return nil
		},
	}
}
