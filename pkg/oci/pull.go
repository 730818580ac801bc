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

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"

	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
)

// PullOptions configures fetching an application bundle.
type PullOptions struct {
	RegistryOptions
	// Reference is the bundle to fetch.
	Reference *Reference
	// DestDir receives the unpacked application directories.
	DestDir string
}

// PullResult describes a fetched bundle.
type PullResult struct {
	Digest string
	// Dir is the bundle root; each application is a subdirectory.
	Dir string
}

// Pull fetches a bundle and unpacks its layers into opts.DestDir.
func Pull(ctx context.Context, opts PullOptions) (*PullResult, error) {
	if opts.Reference == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "bundle reference is required")
	}
	if opts.DestDir == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "destination directory is required")
	}

	repo, err := newRepository(opts.Reference, opts.RegistryOptions)
	if err != nil {
		return nil, err
	}

	desc, err := pullBundle(ctx, repo, opts.Reference.TagOrDefault(), opts.DestDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable,
			fmt.Sprintf("failed to pull bundle %s", opts.Reference), err)
	}

	slog.Info("bundle pulled",
		"reference", opts.Reference.String(),
		"digest", desc.Digest.String(),
		"dir", opts.DestDir)

	return &PullResult{Digest: desc.Digest.String(), Dir: opts.DestDir}, nil
}

// pullBundle copies tag from src into a file store rooted at dest, which
// unpacks directory layers in place.
func pullBundle(ctx context.Context, src oras.ReadOnlyTarget, tag, dest string) (ociv1.Descriptor, error) {
	fs, err := file.New(dest)
	if err != nil {
		return ociv1.Descriptor{}, fmt.Errorf("failed to create file store: %w", err)
	}
	defer func() { _ = fs.Close() }()

	desc, err := oras.Copy(ctx, src, tag, fs, tag, oras.DefaultCopyOptions)
	if err != nil {
		return ociv1.Descriptor{}, err
	}
	return desc, nil
}
