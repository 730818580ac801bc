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

package render

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/tsunami-testbed/pkg/params"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		p    params.Map
		want string
	}{
		{
			name: "all matched",
			tmpl: "jupyter_version:${jupyter_version}\n",
			p:    params.Map{"jupyter_version": "notebook-6.0.3"},
			want: "jupyter_version:notebook-6.0.3\n",
		},
		{
			name: "no placeholders",
			tmpl: "kind: Service\n",
			p:    params.Map{},
			want: "kind: Service\n",
		},
		{
			name: "extra parameters ignored",
			tmpl: "app: ${app}",
			p:    params.Map{"app": "jupyter", "unused": "x"},
			want: "app: jupyter",
		},
		{
			name: "repeated placeholder",
			tmpl: "${app}-${app}",
			p:    params.Map{"app": "wp"},
			want: "wp-wp",
		},
		{
			name: "dotted name and inner spaces",
			tmpl: "${ mysql.version }",
			p:    params.Map{"mysql.version": "5.6"},
			want: "5.6",
		},
		{
			name: "escaped placeholder",
			tmpl: "echo $${HOME} ${app}",
			p:    params.Map{"app": "jupyter"},
			want: "echo ${HOME} jupyter",
		},
		{
			name: "bare dollar kept",
			tmpl: "cost: $5 and $ {x}",
			p:    params.Map{},
			want: "cost: $5 and $ {x}",
		},
		{
			name: "empty value is allowed when supplied",
			tmpl: "tag: '${tag}'",
			p:    params.Map{"tag": ""},
			want: "tag: ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderDeterministic(t *testing.T) {
	tmpl := "image: ${image}:${tag}\nname: ${name}\n"
	p := params.Map{"image": "wordpress", "tag": "5.4", "name": "wp"}

	first, err := Render(tmpl, p)
	require.NoError(t, err)
	for range 10 {
		again, err := Render(tmpl, p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRenderMissing(t *testing.T) {
	_, err := Render("jupyter_version:${jupyter_version} ${b} ${a} ${b}", params.Map{"mysql_version": "5.6"})
	require.Error(t, err)

	var re *ResolutionError
	require.True(t, errors.As(err, &re), "expected *ResolutionError, got %T", err)
	assert.Equal(t, []string{"a", "b", "jupyter_version"}, re.Missing)
}

func TestRenderSyntax(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
	}{
		{"unterminated", "image: ${tag"},
		{"empty name", "image: ${}"},
		{"invalid name", "image: ${1tag}"},
		{"expression", "image: ${a + b}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.tmpl, params.Map{"a": "1", "b": "2", "tag": "x"})
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "expected *SyntaxError, got %v", err)
		})
	}
}

func TestRenderFile(t *testing.T) {
	fsys := fstest.MapFS{
		"jupyter/service.yaml": {Data: []byte("name: ${app}\n")},
	}

	t.Run("renders", func(t *testing.T) {
		got, err := RenderFile(fsys, "jupyter/service.yaml", params.Map{"app": "jupyter"})
		require.NoError(t, err)
		assert.Equal(t, "name: jupyter\n", got)
	})

	t.Run("missing parameter names the file", func(t *testing.T) {
		_, err := RenderFile(fsys, "jupyter/service.yaml", params.Map{})
		var re *ResolutionError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, "jupyter/service.yaml", re.Template)
		assert.Contains(t, err.Error(), "jupyter/service.yaml")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := RenderFile(fsys, "nope.yaml", params.Map{})
		require.Error(t, err)
	})
}
