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

package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type endpoint struct {
	IP      string `json:"ip" yaml:"ip"`
	Port    string `json:"port" yaml:"port"`
	Private bool   `json:"-" yaml:"-"`
}

type info struct {
	Name     string    `json:"name" yaml:"name"`
	Endpoint *endpoint `json:"serviceEndpoint" yaml:"serviceEndpoint"`
	Tags     []string  `json:"tags" yaml:"tags"`
}

func sample() info {
	return info{
		Name:     "jupyter",
		Endpoint: &endpoint{IP: "10.0.0.7", Port: "80", Private: true},
		Tags:     []string{"web", "notebook"},
	}
}

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatJSON, &buf).Serialize(context.Background(), sample()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "jupyter", got["name"])
	assert.Equal(t, map[string]any{"ip": "10.0.0.7", "port": "80"}, got["serviceEndpoint"])
	assert.Contains(t, buf.String(), "\n  \"name\"", "output should be indented")
}

func TestWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatYAML, &buf).Serialize(context.Background(), sample()))

	var got info
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "10.0.0.7", got.Endpoint.IP)
	assert.NotContains(t, buf.String(), "private")
}

func TestWriterTable(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		contains []string
		absent   []string
	}{
		{
			name:  "nested struct",
			value: sample(),
			contains: []string{
				"FIELD", "VALUE",
				"name", "jupyter",
				"serviceEndpoint.ip", "10.0.0.7",
				"serviceEndpoint.port",
				"tags.[0]", "web",
				"tags.[1]", "notebook",
			},
			absent: []string{"Private"},
		},
		{
			name:     "map",
			value:    map[string]any{"b": 2, "a": map[string]string{"x": "y"}},
			contains: []string{"a.x", "b"},
		},
		{
			name:     "scalar",
			value:    42,
			contains: []string{"value", "42"},
		},
		{
			name:     "nil pointer field",
			value:    info{Name: "x"},
			contains: []string{"serviceEndpoint", "<nil>", "tags", "[]"},
		},
		{
			name:     "empty",
			value:    map[string]string{},
			contains: []string{"<empty>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), tt.value))
			out := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestWriterTableSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(FormatTable, &buf).Serialize(context.Background(), map[string]int{"zeta": 1, "alpha": 2}))
	out := buf.String()
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "zeta"))
}

func TestFormatIsUnknown(t *testing.T) {
	for _, f := range SupportedFormats() {
		assert.False(t, Format(f).IsUnknown(), f)
	}
	assert.True(t, Format("xml").IsUnknown())
	assert.True(t, Format("").IsUnknown())
}

func TestNewWriterUnknownFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("xml"), &buf)
	assert.Equal(t, FormatJSON, w.format)
	require.NoError(t, w.Serialize(context.Background(), map[string]string{"k": "v"}))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestNewWriterNilOutput(t *testing.T) {
	w := NewWriter(FormatJSON, nil)
	assert.Equal(t, os.Stdout, w.output)
	assert.NoError(t, w.Close())
}

func TestNewFileWriterOrStdout(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		w := NewFileWriterOrStdout(FormatJSON, "  ")
		assert.Equal(t, os.Stdout, w.output)
		assert.Nil(t, w.closer)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.yaml")
		w := NewFileWriterOrStdout(FormatYAML, path)
		require.NoError(t, w.Serialize(context.Background(), sample()))
		require.NoError(t, w.Close())
		require.NoError(t, w.Close(), "second close is a no-op")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "name: jupyter")
	})

	t.Run("unwritable path", func(t *testing.T) {
		w := NewFileWriterOrStdout(FormatJSON, filepath.Join(t.TempDir(), "missing", "out.json"))
		assert.Equal(t, os.Stdout, w.output)
	})
}
