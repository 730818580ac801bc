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

package oci

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"

	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
)

// ArtifactType is the media type of a testbed application bundle.
const ArtifactType = "application/vnd.nvidia.tsunami-testbed.bundle"

// AnnotationApplication records the application a bundle carries.
const AnnotationApplication = "org.nvidia.tsunami-testbed.application"

// PushOptions configures publishing an application bundle.
type PushOptions struct {
	RegistryOptions
	// SourceDir is the bundle root; the application lives in SourceDir/Application.
	SourceDir string
	// Application is the application directory to publish.
	Application string
	// Reference is the destination.
	Reference *Reference
	// Annotations are added to the manifest.
	Annotations map[string]string
}

// PushResult contains the result of a successful push.
type PushResult struct {
	// Digest is the SHA256 digest of the pushed manifest.
	Digest string
	// Reference is the full image reference (registry/repository:tag).
	Reference string
}

// Push publishes one application directory as an OCI artifact.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "destination reference is required")
	}
	if opts.Application == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "application is required")
	}

	repo, err := newRepository(opts.Reference, opts.RegistryOptions)
	if err != nil {
		return nil, err
	}

	tag := opts.Reference.TagOrDefault()
	desc, err := pushBundle(ctx, opts.SourceDir, opts.Application, repo, tag, opts.Annotations)
	if err != nil {
		return nil, err
	}

	ref := opts.Reference.ImageReference()
	if opts.Reference.Tag == "" {
		ref = fmt.Sprintf("%s:%s", ref, tag)
	}
	slog.Info("bundle pushed",
		"application", opts.Application,
		"reference", ref,
		"digest", desc.Digest.String())

	return &PushResult{Digest: desc.Digest.String(), Reference: ref}, nil
}

// pushBundle packs sourceDir/app as a single directory layer and copies the
// tagged manifest to dst.
func pushBundle(ctx context.Context, sourceDir, app string, dst oras.Target, tag string, annotations map[string]string) (ociv1.Descriptor, error) {
	absSource, err := filepath.Abs(sourceDir)
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to resolve source directory: %w", err)
	}
	appDir := filepath.Join(absSource, app)
	info, err := os.Stat(appDir)
	if err != nil {
		return ociv1.Descriptor{}, apperrors.Wrap(apperrors.ErrCodeNotFound,
			fmt.Sprintf("application directory %s", appDir), err)
	}
	if !info.IsDir() {
		return ociv1.Descriptor{}, apperrors.New(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("application path %s is not a directory", appDir))
	}

	fs, err := file.New(absSource)
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	// Make tars deterministic for reproducible digests
	fs.TarReproducible = true

	layerDesc, err := fs.Add(ctx, app, ociv1.MediaTypeImageLayerGzip, appDir)
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to add application directory to store: %w", err)
	}

	manifestAnnotations := map[string]string{AnnotationApplication: app}
	for k, v := range annotations {
		manifestAnnotations[k] = v
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: manifestAnnotations,
	})
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to pack manifest: %w", err)
	}

	if err := fs.Tag(ctx, manifestDesc, tag); err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to tag manifest in local store: %w", err)
	}

	desc, err := oras.Copy(ctx, fs, tag, dst, tag, oras.DefaultCopyOptions)
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to push artifact: %w", err)
	}
	return desc, nil
}
