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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	k8sclient "github.com/NVIDIA/tsunami-testbed/pkg/k8s/client"
	"github.com/NVIDIA/tsunami-testbed/pkg/logging"
	"github.com/NVIDIA/tsunami-testbed/pkg/serializer"
)

const (
	name           = "testbed"
	versionDefault = "dev"

	exitError    = 1
	exitCanceled = 2
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// newClientset builds the cluster client for commands that talk to
// Kubernetes directly. Tests replace it with a fake.
var newClientset = func(kubeconfig string) (kubernetes.Interface, error) {
	cs, _, err := k8sclient.New(k8sclient.Options{
		Kubeconfig: kubeconfig,
		UserAgent:  fmt.Sprintf("%s/%s", name, version),
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("Output format (supported values: %v)", serializer.SupportedFormats()),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kubeconfig",
		Usage:   "Path to kubeconfig file (default: $KUBECONFIG, ~/.kube/config, or in-cluster)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}
}

func namespaceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "namespace",
		Usage:   "Kubernetes namespace the testbed deploys into",
		Value:   defaults.Namespace,
		Sources: cli.EnvVars("TESTBED_NAMESPACE"),
	}
}

// newRootCmd assembles the testbed command tree.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Deploy vulnerable applications for Tsunami scanner testing",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(logging.EnvLogLevel),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date)
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			deployCmd(),
			clientCmd(),
			renderCmd(),
			bundleCmd(),
			cleanupCmd(),
		},
	}
}

// Execute runs the CLI with the process arguments and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			os.Exit(exitCanceled)
		}
		os.Exit(exitError)
	}
}

// parseOutputFormat reads and validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %v", f, serializer.SupportedFormats())
	}
	return f, nil
}

// newOutputWriter writes to --output when set and to the command's writer otherwise.
func newOutputWriter(cmd *cli.Command, format serializer.Format) *serializer.Writer {
	if path := cmd.String("output"); path != "" {
		return serializer.NewFileWriterOrStdout(format, path)
	}
	return serializer.NewWriter(format, cmd.Root().Writer)
}
