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

package header

import (
	"time"
)

// APIVersion is the schema version of every document the client prints.
const APIVersion = "testbed.tsunami/v1"

// Kind represents the type of a testbed document.
type Kind string

// Kinds of documents printed by the testbed client.
const (
	KindDeploymentResult Kind = "DeploymentResult"
	KindApplicationList  Kind = "ApplicationList"
	KindApplicationInfo  Kind = "ApplicationInfo"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindDeploymentResult, KindApplicationList, KindApplicationInfo:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair to the Header.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithAPIVersion overrides the document's API version.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// Header identifies a document. It follows Kubernetes-style conventions with
// Kind, APIVersion, and Metadata fields.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// New creates a Header of kind stamped with the current time. A non-empty
// version is recorded in the metadata.
func New(kind Kind, version string, opts ...Option) Header {
	h := Header{
		Kind:       kind,
		APIVersion: APIVersion,
		Metadata: map[string]string{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if version != "" {
		h.Metadata["version"] = version
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

// Document is a Header followed by a result body.
type Document struct {
	Header `json:",inline" yaml:",inline"`

	Result any `json:"result" yaml:"result"`
}

// Wrap returns result inside a Document of kind.
func Wrap(kind Kind, version string, result any, opts ...Option) Document {
	return Document{Header: New(kind, version, opts...), Result: result}
}
