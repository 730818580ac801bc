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

	"github.com/NVIDIA/tsunami-testbed/pkg/api"
	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	"github.com/NVIDIA/tsunami-testbed/pkg/oci"
)

// serve is the Serve entry point; tests replace it.
var serve = api.Serve

func validPort(p int) error {
	if p < 0 || p > 65535 {
		return fmt.Errorf("port %d out of range 0-65535", p)
	}
	return nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the testbed RPC server",
		Description: `Runs the RPC server that deploys applications into the cluster.

Each createDeployment request submits a deployer Job running this binary's
"deploy" command, then waits until the application's Service appears.
Requests are processed one at a time in arrival order.

Examples:
  testbed serve --deployer_image ghcr.io/nvidia/tsunami-testbed:latest
  testbed serve --deployer_image ghcr.io/nvidia/tsunami-testbed:latest --api_key "$KEY"`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:      "port",
				Value:     defaults.ServerPort,
				Usage:     "Port to listen on (0-65535)",
				Sources:   cli.EnvVars("PORT"),
				Validator: validPort,
			},
			&cli.StringFlag{
				Name:     "deployer_image",
				Usage:    "Container image the deployer Job runs",
				Required: true,
				Sources:  cli.EnvVars("DEPLOYER_IMAGE"),
				Validator: func(s string) error {
					return oci.ValidateImage(s)
				},
			},
			namespaceFlag(),
			&cli.StringFlag{
				Name:    "api_key",
				Usage:   "Require this value in the x-api-key header",
				Sources: cli.EnvVars("API_KEY"),
			},
			&cli.StringFlag{
				Name:    "auth_token",
				Usage:   "Require this value as an Authorization bearer token",
				Sources: cli.EnvVars("AUTH_TOKEN"),
			},
			&cli.DurationFlag{
				Name:  "ready_timeout",
				Value: defaults.K8sServiceReadyTimeout,
				Usage: "How long to wait for a deployed application's Service (0 waits until the request is cancelled)",
			},
			&cli.DurationFlag{
				Name:  "poll_interval",
				Value: defaults.K8sServicePollInterval,
				Usage: "Delay between Service listings while waiting",
			},
			&cli.StringFlag{
				Name:    "deployer_job_dir",
				Usage:   "Directory of deployer Job templates that requests may name with deployerJobPath",
				Sources: cli.EnvVars("DEPLOYER_JOB_DIR"),
			},
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return serve(ctx, api.Options{
				Port:           cmd.Int("port"),
				Namespace:      cmd.String("namespace"),
				DeployerImage:  cmd.String("deployer_image"),
				APIKey:         cmd.String("api_key"),
				AuthToken:      cmd.String("auth_token"),
				ReadyTimeout:   cmd.Duration("ready_timeout"),
				PollInterval:   cmd.Duration("poll_interval"),
				Kubeconfig:     cmd.String("kubeconfig"),
				LogLevel:       cmd.Root().String("log-level"),
				JobTemplateDir: cmd.String("deployer_job_dir"),
			})
		},
	}
}
