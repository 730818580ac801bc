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

package bundle

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
	"github.com/NVIDIA/tsunami-testbed/pkg/oci"
)

//go:embed apps deployer
var embedded embed.FS

// KustomizationFile, when present in an application directory, lists the
// application's templates in creation order.
const KustomizationFile = "kustomization.yaml"

// DeployerJobTemplate is the path of the built-in deployer job template
// inside the embedded bundle.
const DeployerJobTemplate = "deployer/job.yaml"

// Kustomization is the subset of a kustomization file the testbed reads.
type Kustomization struct {
	Resources []string `yaml:"resources"`
}

// Source is an opened application bundle.
type Source struct {
	// FS is rooted at the bundle; each application is a top-level directory.
	FS fs.FS
	// Location describes where the bundle came from.
	Location string

	cleanup func()
}

// Close releases any temporary storage held by the source.
func (s *Source) Close() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// Builtin returns the applications compiled into the binary.
func Builtin() *Source {
	apps, err := fs.Sub(embedded, "apps")
	if err != nil {
		panic(fmt.Sprintf("embedded bundle: %v", err))
	}
	return &Source{FS: apps, Location: "builtin"}
}

// Open resolves configPath to a bundle: empty selects the built-in
// applications, an oci:// reference is pulled into a temporary directory,
// and anything else is a local directory.
func Open(ctx context.Context, configPath string, ropts oci.RegistryOptions) (*Source, error) {
	switch {
	case configPath == "":
		return Builtin(), nil
	case oci.IsOCI(configPath):
		return openOCI(ctx, configPath, ropts)
	default:
		info, err := os.Stat(configPath)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeNotFound,
				fmt.Sprintf("config path %s", configPath), err)
		}
		if !info.IsDir() {
			return nil, apperrors.New(apperrors.ErrCodeInvalidArgument,
				fmt.Sprintf("config path %s is not a directory", configPath))
		}
		return &Source{FS: os.DirFS(configPath), Location: configPath}, nil
	}
}

func openOCI(ctx context.Context, uri string, ropts oci.RegistryOptions) (*Source, error) {
	ref, err := oci.ParseReference(uri)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "testbed-bundle-*")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to create bundle directory", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	if _, err := oci.Pull(ctx, oci.PullOptions{RegistryOptions: ropts, Reference: ref, DestDir: dir}); err != nil {
		cleanup()
		return nil, err
	}
	return &Source{FS: os.DirFS(dir), Location: uri, cleanup: cleanup}, nil
}

// Applications lists the application directories in fsys, sorted.
func Applications(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	var apps []string
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			apps = append(apps, e.Name())
		}
	}
	sort.Strings(apps)
	return apps, nil
}

// Templates returns the template paths of app within fsys, in creation order.
//
// If the application has a kustomization file its resources list is the
// order. Otherwise every regular, non-hidden file below the application
// directory is returned in depth-first lexical order.
func Templates(fsys fs.FS, app string) ([]string, error) {
	if app == "" || !fs.ValidPath(app) || strings.Contains(app, "/") {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("invalid application name %q", app))
	}

	info, err := fs.Stat(fsys, app)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound,
				fmt.Sprintf("application %q not found in bundle", app))
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("stat application %q", app), err)
	}
	if !info.IsDir() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("application %q is not a directory", app))
	}

	kpath := path.Join(app, KustomizationFile)
	if data, err := fs.ReadFile(fsys, kpath); err == nil {
		return kustomizationOrder(fsys, app, data)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("read %s", kpath), err)
	}

	var files []string
	err = fs.WalkDir(fsys, app, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if hidden(d.Name()) && p != app {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("walk application %q", app), err)
	}
	if len(files) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNotFound,
			fmt.Sprintf("application %q has no templates", app))
	}
	return files, nil
}

func kustomizationOrder(fsys fs.FS, app string, data []byte) ([]string, error) {
	var k Kustomization
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("parse %s of %q", KustomizationFile, app), err)
	}
	if len(k.Resources) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("%s of %q lists no resources", KustomizationFile, app))
	}

	files := make([]string, 0, len(k.Resources))
	for _, r := range k.Resources {
		p := path.Join(app, r)
		if !fs.ValidPath(p) || !strings.HasPrefix(p, app+"/") {
			return nil, apperrors.New(apperrors.ErrCodeInvalidArgument,
				fmt.Sprintf("resource %q of %q escapes the application directory", r, app))
		}
		if _, err := fs.Stat(fsys, p); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeNotFound,
				fmt.Sprintf("resource %q of %q", r, app), err)
		}
		files = append(files, p)
	}
	return files, nil
}

// DeployerJob returns the deployer job template: the file at path when
// set, the built-in template otherwise.
func DeployerJob(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = embedded.ReadFile(DeployerJobTemplate)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.Wrap(apperrors.ErrCodeInvalidArgument,
				fmt.Sprintf("deployer job template %s not found", path), err)
		}
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "read deployer job template", err)
	}
	return string(data), nil
}

// DeployerJobIn returns the deployer job template name from dir. Name must
// be a relative path that stays inside dir, symlinks included.
func DeployerJobIn(dir, name string) (string, error) {
	if dir == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidArgument,
			"custom deployer job templates are not enabled")
	}
	if !filepath.IsLocal(name) {
		return "", apperrors.New(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("deployer job template %q must be a relative path inside the template directory", name))
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInternal, "open deployer job template directory", err)
	}
	defer root.Close()

	data, err := root.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.New(apperrors.ErrCodeInvalidArgument,
				fmt.Sprintf("deployer job template %q not found", name))
		}
		return "", apperrors.New(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("deployer job template %q cannot be read", name))
	}
	return string(data), nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
