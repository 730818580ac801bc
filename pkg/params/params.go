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

package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Map is the flat parameter set substituted into resource templates.
type Map map[string]string

// DecodeError reports template data that is not a flat object of scalars.
type DecodeError struct {
	// Key is the offending key, empty when the document itself is malformed.
	Key    string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "invalid template data"
	if e.Key != "" {
		msg += fmt.Sprintf(": key %q", e.Key)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses a JSON object string into a Map.
//
// Empty, whitespace-only, "null" and "{}" inputs yield an empty map. Single
// quoted keys and values are accepted. String values are kept verbatim,
// numbers and booleans are kept in their literal form, and any array, object
// or null value is rejected.
func Decode(raw string) (Map, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Map{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(normalizeQuotes(raw)))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, &DecodeError{Reason: "not a JSON object", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Reason: "unexpected data after JSON object"}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Map, len(obj))
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			out[k] = v
		case json.Number:
			out[k] = v.String()
		case bool:
			out[k] = strconv.FormatBool(v)
		case nil:
			return nil, &DecodeError{Key: k, Reason: "null values are not allowed"}
		case []any:
			return nil, &DecodeError{Key: k, Reason: "array values are not allowed"}
		case map[string]any:
			return nil, &DecodeError{Key: k, Reason: "nested objects are not allowed"}
		default:
			return nil, &DecodeError{Key: k, Reason: fmt.Sprintf("unsupported value type %T", v)}
		}
	}
	return out, nil
}

// normalizeQuotes rewrites single-quoted strings as double-quoted JSON
// strings. Double-quoted strings pass through untouched.
func normalizeQuotes(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s) + 8)

	const (
		outside = iota
		inDouble
		inSingle
	)
	state := outside

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case outside:
			switch c {
			case '"':
				state = inDouble
				b.WriteByte(c)
			case '\'':
				state = inSingle
				b.WriteByte('"')
			default:
				b.WriteByte(c)
			}
		case inDouble:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				state = outside
			}
		case inSingle:
			switch {
			case c == '\\' && i+1 < len(s):
				i++
				if s[i] == '\'' {
					b.WriteByte('\'')
				} else {
					b.WriteByte('\\')
					b.WriteByte(s[i])
				}
			case c == '"':
				b.WriteString(`\"`)
			case c == '\'':
				state = outside
				b.WriteByte('"')
			default:
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}
