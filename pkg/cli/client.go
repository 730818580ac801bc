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
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/tsunami-testbed/pkg/client"
	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	"github.com/NVIDIA/tsunami-testbed/pkg/header"
	"github.com/NVIDIA/tsunami-testbed/pkg/testbed"
)

// Client operations.
const (
	opCreateDeployment = "createDeployment"
	opListApplications = "listApplications"
	opGetApplication   = "getApplication"
)

func supportedOperations() []string {
	return []string{opCreateDeployment, opListApplications, opGetApplication}
}

func clientCmd() *cli.Command {
	return &cli.Command{
		Name:  "client",
		Usage: "Call a running testbed server",
		Description: fmt.Sprintf(`Calls one RPC of a running testbed server and prints the result.

Supported operations: %s

Examples:
  testbed client --operation listApplications
  testbed client --operation createDeployment --app_name jupyter \
    --template_data "{'jupyter_version':'latest'}"
  testbed client --operation getApplication --app_name jupyter --format json`,
			strings.Join(supportedOperations(), ", ")),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "operation",
				Value: opListApplications,
				Usage: fmt.Sprintf("RPC to call (supported values: %v)", supportedOperations()),
			},
			&cli.StringFlag{
				Name:  "app_name",
				Usage: "Application name (required by createDeployment and getApplication)",
			},
			&cli.StringFlag{
				Name:  "template_data",
				Usage: "Template parameters for createDeployment",
			},
			&cli.StringFlag{
				Name:  "config_path",
				Usage: "Application bundle for createDeployment",
			},
			&cli.StringFlag{
				Name:  "deployer_job_path",
				Usage: "Deployer job template for createDeployment, relative to the server's --deployer_job_dir",
			},
			&cli.StringFlag{
				Name:    "address",
				Value:   defaults.ServerAddress,
				Usage:   "Server address",
				Sources: cli.EnvVars("TESTBED_ADDRESS"),
			},
			&cli.StringFlag{
				Name:    "api_key",
				Usage:   "Value sent in the x-api-key header",
				Sources: cli.EnvVars("API_KEY"),
			},
			&cli.StringFlag{
				Name:    "auth_token",
				Usage:   "Bearer token sent in the Authorization header",
				Sources: cli.EnvVars("AUTH_TOKEN"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.CLIClientTimeout,
				Usage: "Upper bound on the call",
			},
			formatFlag(),
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			address := cmd.String("address")
			c, err := client.New(address,
				client.WithAPIKey(cmd.String("api_key")),
				client.WithAuthToken(cmd.String("auth_token")),
				client.WithTimeout(cmd.Duration("timeout")),
			)
			if err != nil {
				return err
			}

			doc, err := callOperation(ctx, c, cmd.String("operation"), testbed.ApplicationRequest{
				Application:     cmd.String("app_name"),
				TemplateData:    cmd.String("template_data"),
				ConfigPath:      cmd.String("config_path"),
				DeployerJobPath: cmd.String("deployer_job_path"),
			})
			if err != nil {
				return err
			}
			doc.Metadata["server"] = address

			ser := newOutputWriter(cmd, outFormat)
			defer func() {
				if err := ser.Close(); err != nil {
					slog.Warn("failed to close serializer", "error", err)
				}
			}()

			return ser.Serialize(ctx, doc)
		},
	}
}

// callOperation runs one RPC and wraps its result in a document.
func callOperation(ctx context.Context, c *client.Client, op string, req testbed.ApplicationRequest) (header.Document, error) {
	switch op {
	case opCreateDeployment:
		if req.Application == "" {
			return header.Document{}, fmt.Errorf("--app_name is required for %s", op)
		}
		res, err := c.CreateDeployment(ctx, req)
		if err != nil {
			return header.Document{}, err
		}
		return header.Wrap(header.KindDeploymentResult, version, res), nil
	case opListApplications:
		res, err := c.ListApplications(ctx)
		if err != nil {
			return header.Document{}, err
		}
		return header.Wrap(header.KindApplicationList, version, res), nil
	case opGetApplication:
		if req.Application == "" {
			return header.Document{}, fmt.Errorf("--app_name is required for %s", op)
		}
		res, err := c.GetApplication(ctx, req.Application)
		if err != nil {
			return header.Document{}, err
		}
		return header.Wrap(header.KindApplicationInfo, version, res), nil
	default:
		return header.Document{}, fmt.Errorf("unknown operation %q, supported values: %v", op, supportedOperations())
	}
}
