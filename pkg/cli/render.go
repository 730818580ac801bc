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
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/tsunami-testbed/pkg/deployer"
	"github.com/NVIDIA/tsunami-testbed/pkg/manifest"
)

func renderCmd() *cli.Command {
	flags := append(bundleFlags(),
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Also decode every document and check that its kind can be created",
		},
		outputFlag(),
	)

	return &cli.Command{
		Name:  "render",
		Usage: "Render an application bundle locally without touching the cluster",
		Description: `Prints the manifest the deployer would create for an application.

Examples:
  testbed render --app_name jupyter --template_data "{'jupyter_version':'latest'}"
  testbed render --app_name wordpress --config_path ./apps --dry-run -o wordpress.yaml`,
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := deployerOptions(cmd)
			rendered, err := deployer.Render(ctx, opts)
			if err != nil {
				return err
			}

			if cmd.Bool("dry-run") {
				resources, err := manifest.Decode(rendered)
				if err != nil {
					return fmt.Errorf("dry run of %s failed: %w", opts.App, err)
				}
				for _, r := range resources {
					slog.Info("would create", "kind", r.Kind.String(), "name", r.Name())
				}
			}

			var w io.Writer = cmd.Root().Writer
			if path := cmd.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			_, err = io.WriteString(w, rendered)
			return err
		},
	}
}
