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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Map
	}{
		{"empty", "", Map{}},
		{"whitespace", "  \n\t ", Map{}},
		{"empty object", "{}", Map{}},
		{"null", "null", Map{}},
		{"double quoted", `{"jupyter_version":"notebook-6.0.3"}`, Map{"jupyter_version": "notebook-6.0.3"}},
		{"single quoted", `{'k':'v'}`, Map{"k": "v"}},
		{"single quoted with spaces", `{ 'jupyter_version' : 'notebook-6.0.3' }`, Map{"jupyter_version": "notebook-6.0.3"}},
		{"mixed quotes", `{'a':"b", "c":'d'}`, Map{"a": "b", "c": "d"}},
		{"double quote inside single", `{'msg':'say "hi"'}`, Map{"msg": `say "hi"`}},
		{"escaped single inside single", `{'msg':'it\'s'}`, Map{"msg": "it's"}},
		{"apostrophe inside double", `{"msg":"it's"}`, Map{"msg": "it's"}},
		{"number literal kept", `{"replicas":3,"ratio":0.50}`, Map{"replicas": "3", "ratio": "0.50"}},
		{"bool", `{"debug":true}`, Map{"debug": "true"}},
		{"multiple keys", `{"a":"1","b":"2","c":"3"}`, Map{"a": "1", "b": "2", "c": "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			if err != nil {
				t.Fatalf("Decode(%q) unexpected error: %v", tt.raw, err)
			}
			if got == nil {
				t.Fatal("Decode returned nil map")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantKey string
	}{
		{"array value", `{"k":["a","b"]}`, "k"},
		{"nested object", `{"k":{"inner":"v"}}`, "k"},
		{"null value", `{"k":null}`, "k"},
		{"first offending key in order", `{"z":[1],"a":{}}`, "a"},
		{"top level array", `["a","b"]`, ""},
		{"top level string", `"value"`, ""},
		{"malformed", `{"k":`, ""},
		{"trailing data", `{"k":"v"} {"x":"y"}`, ""},
		{"not json", `jupyter_version=6`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			if err == nil {
				t.Fatalf("Decode(%q) expected error", tt.raw)
			}
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
			if de.Key != tt.wantKey {
				t.Errorf("DecodeError.Key = %q, want %q", de.Key, tt.wantKey)
			}
		})
	}
}

func TestNormalizeQuotesPassthrough(t *testing.T) {
	in := `{"a":"b\"c"}`
	if got := normalizeQuotes(in); got != in {
		t.Errorf("normalizeQuotes changed double-quoted input: %q", got)
	}
}
