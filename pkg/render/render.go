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
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/NVIDIA/tsunami-testbed/pkg/params"
)

// ResolutionError lists the placeholders a template references that the
// parameter map does not supply.
type ResolutionError struct {
	Template string
	Missing  []string
}

func (e *ResolutionError) Error() string {
	where := ""
	if e.Template != "" {
		where = " in " + e.Template
	}
	return fmt.Sprintf("unresolved template parameters%s: %s", where, strings.Join(e.Missing, ", "))
}

// SyntaxError reports a malformed placeholder.
type SyntaxError struct {
	Template string
	Offset   int
	Reason   string
}

func (e *SyntaxError) Error() string {
	where := ""
	if e.Template != "" {
		where = e.Template + ":"
	}
	return fmt.Sprintf("template syntax error at %soffset %d: %s", where, e.Offset, e.Reason)
}

// Render substitutes every ${name} placeholder in tmpl with its value from p.
//
// A placeholder without a value fails the whole render with a
// *ResolutionError naming every missing parameter. Parameters the template
// does not reference are ignored. $${name} renders as a literal ${name}.
func Render(tmpl string, p params.Map) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	missing := map[string]struct{}{}

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}

		rest := tmpl[i:]
		switch {
		case strings.HasPrefix(rest, "$${"):
			b.WriteString("${")
			i += 3
		case strings.HasPrefix(rest, "${"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return "", &SyntaxError{Offset: i, Reason: "unterminated placeholder"}
			}
			name := strings.TrimSpace(rest[2:end])
			if !validName(name) {
				return "", &SyntaxError{Offset: i, Reason: fmt.Sprintf("invalid parameter name %q", name)}
			}
			if v, ok := p[name]; ok {
				b.WriteString(v)
			} else {
				missing[name] = struct{}{}
			}
			i += end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for n := range missing {
			names = append(names, n)
		}
		sort.Strings(names)
		return "", &ResolutionError{Missing: names}
	}
	return b.String(), nil
}

// RenderFile reads name from fsys and renders it with p.
func RenderFile(fsys fs.FS, name string, p params.Map) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	out, err := Render(string(data), p)
	if err != nil {
		switch e := err.(type) {
		case *ResolutionError:
			e.Template = name
		case *SyntaxError:
			e.Template = name
		}
		return "", err
	}
	return out, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '.' || r == '-'):
		default:
			return false
		}
	}
	return true
}
