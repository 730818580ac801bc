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

package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/client-go/kubernetes/scheme"
	sigsyaml "sigs.k8s.io/yaml"
)

// Resource is one decoded document of a rendered manifest.
type Resource struct {
	Index  int
	Kind   Kind
	GVK    schema.GroupVersionKind
	Object runtime.Object
}

// Name returns the object's metadata name.
func (r Resource) Name() string {
	if m, ok := r.Object.(metav1.Object); ok {
		return m.GetName()
	}
	return ""
}

// Decode splits rendered into documents and decodes each one without
// touching the cluster. It stops at the first document it cannot classify.
func Decode(rendered string) ([]Resource, error) {
	var out []Resource
	err := eachResource(rendered, func(r Resource) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// eachResource decodes documents one at a time and hands each to fn, so a
// failure stops processing at that document.
func eachResource(rendered string, fn func(Resource) error) error {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(strings.NewReader(rendered)))
	decoder := scheme.Codecs.UniversalDeserializer()

	index := 0
	for {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read manifest document %d: %w", index, err)
		}
		if isEmptyDocument(doc) {
			continue
		}

		var tm metav1.TypeMeta
		if err := sigsyaml.Unmarshal(doc, &tm); err != nil {
			return fmt.Errorf("parse manifest document %d: %w", index, err)
		}
		if tm.Kind == "" {
			return &KindError{Index: index}
		}

		obj, gvk, err := decoder.Decode(doc, nil, nil)
		if err != nil {
			if runtime.IsNotRegisteredError(err) {
				return &KindError{Index: index, Kind: tm.Kind}
			}
			return fmt.Errorf("decode manifest document %d (%s): %w", index, tm.Kind, err)
		}

		kind := kindOf(obj)
		if kind == KindUnknown {
			return &KindError{Index: index, Kind: gvk.Kind}
		}

		if err := fn(Resource{Index: index, Kind: kind, GVK: *gvk, Object: obj}); err != nil {
			return err
		}
		index++
	}
}

// isEmptyDocument reports whether doc holds only whitespace and comments.
func isEmptyDocument(doc []byte) bool {
	for _, line := range bytes.Split(doc, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' || bytes.Equal(line, []byte("---")) {
			continue
		}
		return false
	}
	return true
}
