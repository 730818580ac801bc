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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestKindIsValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindDeploymentResult, true},
		{KindApplicationList, true},
		{KindApplicationInfo, true},
		{Kind("Snapshot"), false},
		{Kind(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	h := New(KindApplicationList, "v1.2.3", WithMetadata("server", "http://localhost:8000"))

	assert.Equal(t, KindApplicationList, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "v1.2.3", h.Metadata["version"])
	assert.Equal(t, "http://localhost:8000", h.Metadata["server"])

	ts, err := time.Parse(time.RFC3339, h.Metadata["timestamp"])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestNewWithoutVersion(t *testing.T) {
	h := New(KindApplicationInfo, "", WithAPIVersion("testbed.tsunami/v2"))
	_, ok := h.Metadata["version"]
	assert.False(t, ok)
	assert.Equal(t, "testbed.tsunami/v2", h.APIVersion)
}

func TestWrapFlattensHeader(t *testing.T) {
	doc := Wrap(KindApplicationList, "dev", map[string][]string{"applications": {"jupyter"}})

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(doc)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "ApplicationList", got["kind"])
		assert.Equal(t, APIVersion, got["apiVersion"])
		assert.NotContains(t, got, "Header")
		assert.Equal(t, map[string]any{"applications": []any{"jupyter"}}, got["result"])
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := yaml.Marshal(doc)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.Equal(t, "ApplicationList", got["kind"])
		assert.Contains(t, got, "metadata")
		assert.Contains(t, got, "result")
	})
}
