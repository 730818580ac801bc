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
	"fmt"
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
)

// URIScheme is the URI scheme for bundles held in an OCI registry
// (e.g., "oci://ghcr.io/org/testbed-apps:v1").
const URIScheme = "oci://"

// DefaultTag is used when a bundle reference carries no tag.
const DefaultTag = "latest"

// Reference is a parsed OCI bundle location.
type Reference struct {
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the repository path (e.g., "nvidia/testbed-apps").
	Repository string
	// Tag is the artifact tag. Empty means no tag was given.
	Tag string
}

// IsOCI reports whether location uses the oci:// scheme.
func IsOCI(location string) bool {
	return strings.HasPrefix(location, URIScheme)
}

// ParseReference parses an oci://registry/repository[:tag] URI.
func ParseReference(uri string) (*Reference, error) {
	if !IsOCI(uri) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("bundle reference %q must start with %s", uri, URIScheme))
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(uri, URIScheme))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidArgument, "invalid OCI reference", err)
	}
	if _, ok := ref.(reference.Digested); ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "digest references are not supported, use a tag")
	}

	var tag string
	if tagged, ok := ref.(reference.Tagged); ok {
		tag = tagged.Tag()
	}

	return &Reference{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
		Tag:        tag,
	}, nil
}

// String returns the oci:// form of the reference.
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}

// ImageReference returns the registry/repository[:tag] form without a scheme.
func (r *Reference) ImageReference() string {
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// TagOrDefault returns the tag, or DefaultTag when none was given.
func (r *Reference) TagOrDefault() string {
	if r.Tag == "" {
		return DefaultTag
	}
	return r.Tag
}

// ValidateImage checks that image is a well-formed container image
// reference, such as the deployer image a job will run.
func ValidateImage(image string) error {
	if strings.TrimSpace(image) == "" {
		return apperrors.New(apperrors.ErrCodeInvalidArgument, "image reference is required")
	}
	if _, err := reference.ParseNormalizedNamed(image); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("invalid image reference %q", image), err)
	}
	return nil
}
