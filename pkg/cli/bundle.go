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
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/tsunami-testbed/pkg/bundle"
	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	"github.com/NVIDIA/tsunami-testbed/pkg/oci"
)

// push is the bundle publisher; tests replace it.
var push = oci.Push

func bundleCmd() *cli.Command {
	return &cli.Command{
		Name:  "bundle",
		Usage: "Work with application bundles",
		Commands: []*cli.Command{
			bundlePushCmd(),
			bundleListCmd(),
		},
	}
}

func bundlePushCmd() *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "Publish an application directory as an OCI artifact",
		Description: `Packs <dir>/<app_name> and pushes it to an OCI registry. The result can be
passed to deploy, render, or createDeployment as --config_path.

Examples:
  testbed bundle push --dir ./apps --app_name echo --reference oci://ghcr.io/nvidia/testbed-apps:v1
  testbed bundle push --dir ./apps --app_name echo --reference oci://localhost:5000/apps --plain-http`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Usage:    "Bundle root holding one directory per application",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "app_name",
				Usage:    "Application directory to publish",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "reference",
				Usage:    "Destination, oci://registry/repository[:tag]",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the registry",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: defaults.OCIPushTimeout,
				Usage: "Upper bound on the push",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ref, err := oci.ParseReference(cmd.String("reference"))
			if err != nil {
				return err
			}

			// fail before contacting the registry when the app has no templates
			src, err := bundle.Open(ctx, cmd.String("dir"), oci.RegistryOptions{})
			if err != nil {
				return err
			}
			defer src.Close()
			if _, err := bundle.Templates(src.FS, cmd.String("app_name")); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			res, err := push(ctx, oci.PushOptions{
				RegistryOptions: oci.RegistryOptions{
					PlainHTTP:   cmd.Bool("plain-http"),
					InsecureTLS: cmd.Bool("insecure-tls"),
				},
				SourceDir:   cmd.String("dir"),
				Application: cmd.String("app_name"),
				Reference:   ref,
				Annotations: map[string]string{
					"org.opencontainers.image.created": time.Now().UTC().Format(time.RFC3339),
					"org.opencontainers.image.version": version,
				},
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "%s@%s\n", res.Reference, res.Digest)
			return nil
		},
	}
}

func bundleListCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the applications in a bundle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config_path",
				Usage: "Bundle: a local directory, an oci:// reference, or empty for the built-in applications",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			src, err := bundle.Open(ctx, cmd.String("config_path"), oci.RegistryOptions{})
			if err != nil {
				return err
			}
			defer src.Close()

			apps, err := bundle.Applications(src.FS)
			if err != nil {
				return err
			}
			for _, app := range apps {
				fmt.Fprintln(cmd.Root().Writer, app)
			}
			return nil
		},
	}
}
