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

package deployer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"k8s.io/client-go/kubernetes"

	"github.com/NVIDIA/tsunami-testbed/pkg/bundle"
	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
	"github.com/NVIDIA/tsunami-testbed/pkg/manifest"
	"github.com/NVIDIA/tsunami-testbed/pkg/oci"
	"github.com/NVIDIA/tsunami-testbed/pkg/params"
	"github.com/NVIDIA/tsunami-testbed/pkg/render"
)

const documentSeparator = "---\n"

// Options selects the application to deploy and where its templates live.
type Options struct {
	// App is the application directory inside the bundle.
	App string
	// ConfigPath is a local directory, an oci:// reference, or empty for
	// the built-in bundle.
	ConfigPath string
	// TemplateData is the raw parameter string, e.g. "{'jupyter_version':'latest'}".
	TemplateData string
	// Namespace receives every created object. Empty means default.
	Namespace string
	// Registry configures pulls of oci:// bundles.
	Registry oci.RegistryOptions
}

// Render resolves the bundle and returns the application's templates
// rendered with the decoded template data, joined as one multi-document
// manifest in template order.
func Render(ctx context.Context, opts Options) (string, error) {
	if opts.App == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidArgument, "application name is required")
	}

	p, err := params.Decode(opts.TemplateData)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidArgument, "invalid template data", err)
	}

	src, err := bundle.Open(ctx, opts.ConfigPath, opts.Registry)
	if err != nil {
		return "", err
	}
	defer src.Close()

	files, err := bundle.Templates(src.FS, opts.App)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, name := range files {
		out, err := render.RenderFile(src.FS, name, p)
		if err != nil {
			return "", err
		}
		slog.Debug("template rendered", "application", opts.App, "template", name, "bundle", src.Location)
		if b.Len() > 0 {
			b.WriteString(documentSeparator)
		}
		b.WriteString(out)
		if !strings.HasSuffix(out, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// Run renders the application and creates every resource in the target
// namespace. It stops at the first failure; objects created before it are
// left in place.
func Run(ctx context.Context, clientset kubernetes.Interface, opts Options) ([]manifest.Created, error) {
	if clientset == nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "kubernetes client is required")
	}
	if opts.Namespace == "" {
		opts.Namespace = defaults.Namespace
	}

	start := time.Now()
	slog.Info("deploying application",
		"application", opts.App,
		"namespace", opts.Namespace,
		"config_path", opts.ConfigPath)

	rendered, err := Render(ctx, opts)
	if err != nil {
		return nil, err
	}

	created, err := manifest.NewMultiplexer(clientset, opts.Namespace).Apply(ctx, rendered)
	if err != nil {
		return created, fmt.Errorf("deploy %s: %w", opts.App, err)
	}

	slog.Info("application deployed",
		"application", opts.App,
		"namespace", opts.Namespace,
		"resources", len(created),
		"duration", time.Since(start).String())
	return created, nil
}
