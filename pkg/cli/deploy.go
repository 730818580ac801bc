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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	"github.com/NVIDIA/tsunami-testbed/pkg/deployer"
	"github.com/NVIDIA/tsunami-testbed/pkg/oci"
)

func bundleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "app_name",
			Usage:    "Application to deploy (a directory in the bundle)",
			Required: true,
		},
		&cli.StringFlag{
			Name: "config_path",
			Usage: `Application bundle: a local directory, an oci:// reference,
	or empty for the built-in applications`,
		},
		&cli.StringFlag{
			Name:  "template_data",
			Usage: `Template parameters as a JSON object, e.g. "{'jupyter_version':'latest'}"`,
		},
		&cli.BoolFlag{
			Name:  "plain-http",
			Usage: "Pull oci:// bundles over plain HTTP",
		},
		&cli.BoolFlag{
			Name:  "insecure-tls",
			Usage: "Skip TLS verification when pulling oci:// bundles",
		},
	}
}

func deployerOptions(cmd *cli.Command) deployer.Options {
	return deployer.Options{
		App:          cmd.String("app_name"),
		ConfigPath:   cmd.String("config_path"),
		TemplateData: cmd.String("template_data"),
		Namespace:    cmd.String("namespace"),
		Registry: oci.RegistryOptions{
			PlainHTTP:   cmd.Bool("plain-http"),
			InsecureTLS: cmd.Bool("insecure-tls"),
		},
	}
}

func deployCmd() *cli.Command {
	flags := append(bundleFlags(),
		namespaceFlag(),
		&cli.DurationFlag{
			Name:  "timeout",
			Value: defaults.CLIDeployTimeout,
			Usage: "Upper bound on the whole deployment",
		},
		kubeconfigFlag(),
	)

	return &cli.Command{
		Name:  "deploy",
		Usage: "Render an application and create its resources in the cluster",
		Description: `Renders every template of the application with the template data and
creates the resulting objects in the namespace. This is the command the
deployer Job runs; it can also be run by hand.

Examples:
  testbed deploy --app_name jupyter --template_data "{'jupyter_version':'latest'}"
  testbed deploy --app_name wordpress --config_path oci://ghcr.io/nvidia/testbed-apps:v1`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			clientset, err := newClientset(cmd.String("kubeconfig"))
			if err != nil {
				return fmt.Errorf("failed to create kubernetes client: %w", err)
			}

			opts := deployerOptions(cmd)
			created, err := deployer.Run(ctx, clientset, opts)
			if err != nil {
				return err
			}
			for _, c := range created {
				slog.Debug("created", "kind", c.Kind.String(), "name", c.Name)
			}
			fmt.Fprintf(cmd.Root().Writer, "deployed %s: %d resources in namespace %s\n",
				opts.App, len(created), opts.Namespace)
			return nil
		},
	}
}
