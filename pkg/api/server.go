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

package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
	"github.com/NVIDIA/tsunami-testbed/pkg/k8s/agent"
	k8sclient "github.com/NVIDIA/tsunami-testbed/pkg/k8s/client"
	"github.com/NVIDIA/tsunami-testbed/pkg/logging"
	"github.com/NVIDIA/tsunami-testbed/pkg/oci"
	"github.com/NVIDIA/tsunami-testbed/pkg/server"
	"github.com/NVIDIA/tsunami-testbed/pkg/testbed"
)

const (
	name           = "testbed"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/tsunami-testbed/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Options configures Serve.
type Options struct {
	Port          int
	Namespace     string
	DeployerImage string
	APIKey        string
	AuthToken     string
	ReadyTimeout  time.Duration
	PollInterval  time.Duration
	Kubeconfig    string
	LogLevel      string
	// JobTemplateDir holds deployer job templates that requests may name.
	JobTemplateDir string

	// Clientset overrides the client built from Kubeconfig.
	Clientset kubernetes.Interface
}

// Serve starts the RPC server and blocks until ctx is done or a signal
// arrives. It prepares the deployer RBAC before accepting requests.
func Serve(ctx context.Context, opts Options) error {
	logging.SetDefaultStructuredLoggerWithLevel(name, version, opts.LogLevel)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	if err := oci.ValidateImage(opts.DeployerImage); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidArgument, "invalid deployer image", err)
	}

	clientset := opts.Clientset
	if clientset == nil {
		cs, _, err := k8sclient.New(k8sclient.Options{
			Kubeconfig: opts.Kubeconfig,
			UserAgent:  fmt.Sprintf("%s/%s", name, version),
		})
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to create kubernetes client", err)
		}
		clientset = cs
	}

	o := testbed.NewOrchestrator(clientset, testbed.Config{
		Namespace:    opts.Namespace,
		PollInterval: opts.PollInterval,
		ReadyTimeout: opts.ReadyTimeout,
		QueueSize:    defaults.ServerQueueSize,
		Deployer: agent.Config{
			Image:          opts.DeployerImage,
			JobTemplateDir: opts.JobTemplateDir,
		},
	})

	prepareCtx, cancel := context.WithTimeout(ctx, defaults.K8sPrepareTimeout)
	checks, err := o.Prepare(prepareCtx)
	cancel()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to prepare deployer", err)
	}
	for _, c := range checks {
		if !c.Allowed {
			slog.Warn("permission denied",
				"group", c.Group,
				"resource", c.Resource,
				"verb", c.Verb,
				"namespace", c.Namespace,
				"reason", c.Reason)
		}
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithPort(opts.Port),
		server.WithAuth(opts.APIKey, opts.AuthToken),
		server.WithHandler(o.Handlers()),
		server.WithWorker(o.Run),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
