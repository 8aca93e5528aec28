// Copyright (c) 2026 John Earle
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

package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// TestIntOrZero verifies the lenient integer coercion.
func TestIntOrZero(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{name: "null", in: nil, want: 0},
		{name: "empty string", in: "", want: 0},
		{name: "json number", in: json.Number("42"), want: 42},
		{name: "numeric string", in: "2468", want: 2468},
		{name: "int", in: 7, want: 7},
		{name: "integral float", in: float64(3), want: 3},
		{name: "non-numeric string", in: "abc", wantErr: true},
		{name: "fractional number", in: json.Number("1.5"), wantErr: true},
		{name: "negative number", in: json.Number("-1"), wantErr: true},
		{name: "negative string", in: "-4", wantErr: true},
		{name: "bool", in: true, wantErr: true},
		{name: "list", in: []any{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntOrZero(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedField) {
					t.Errorf("IntOrZero(%#v) error = %v, want ErrMalformedField", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IntOrZero(%#v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

// TestStringList verifies splitting and pass-through of tag values.
func TestStringList(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    []string
		wantErr bool
	}{
		{name: "space separated", in: "connecting_to_platform sample_ticket", want: []string{"connecting_to_platform", "sample_ticket"}},
		{name: "splits on single spaces", in: "a  b", want: []string{"a", "", "b"}},
		{name: "list passes through", in: []any{"z", "a"}, want: []string{"z", "a"}},
		{name: "typed list", in: []string{"one"}, want: []string{"one"}},
		{name: "null", in: nil, want: []string{}},
		{name: "empty", in: "", want: []string{}},
		{name: "number", in: json.Number("5"), wantErr: true},
		{name: "mixed list", in: []any{"x", json.Number("1")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringList(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedField) {
					t.Errorf("StringList(%#v) error = %v, want ErrMalformedField", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StringList(%#v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestIntList verifies element-wise coercion of user id lists.
func TestIntList(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    []int64
		wantErr bool
	}{
		{name: "strings", in: []any{"1", "22"}, want: []int64{1, 22}},
		{name: "mixed", in: []any{json.Number("3"), "", "4"}, want: []int64{3, 0, 4}},
		{name: "space separated", in: "5 6", want: []int64{5, 6}},
		{name: "null", in: nil, want: []int64{}},
		{name: "bad element", in: []any{"1", "x"}, wantErr: true},
		{name: "object", in: map[string]any{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntList(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedField) {
					t.Errorf("IntList(%#v) error = %v, want ErrMalformedField", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("IntList(%#v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
