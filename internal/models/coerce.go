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
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Zendesk serialises numeric ids and lists inconsistently between event
// types: the same field may arrive as 123, "123", "" or null, and tag lists
// as either a JSON array or a single space separated string. The functions
// below take the dynamic value produced by decodeValue.

// IntOrZero coerces an id-like value into a non-negative integer.
// null and "" become 0.
func IntOrZero(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case string:
		if x == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil || n < 0 {
			return 0, &MalformedFieldError{Value: v, Reason: "expected a non-negative integer"}
		}
		return n, nil
	case json.Number:
		n, err := x.Int64()
		if err != nil || n < 0 {
			return 0, &MalformedFieldError{Value: v, Reason: "expected a non-negative integer"}
		}
		return n, nil
	case int:
		if x >= 0 {
			return int64(x), nil
		}
	case int64:
		if x >= 0 {
			return x, nil
		}
	case float64:
		if x >= 0 && x == math.Trunc(x) && x <= math.MaxInt64 {
			return int64(x), nil
		}
	}

	return 0, &MalformedFieldError{Value: v, Reason: "expected a non-negative integer"}
}

// StringList normalises a tag-style value into a list of strings. A string is
// split on single spaces; a list passes through in order; null or a blank
// string yields an empty list.
func StringList(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return x, nil
	case string:
		if strings.TrimSpace(x) == "" {
			return []string{}, nil
		}
		return strings.Split(x, " "), nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, &MalformedFieldError{Value: item, Reason: "expected a list of strings"}
			}
			out = append(out, s)
		}
		return out, nil
	}

	return nil, &MalformedFieldError{Value: v, Reason: "expected a string or a list of strings"}
}

// IntList coerces every element of a list (or space separated string) with
// IntOrZero. The first failing element aborts the conversion.
func IntList(v any) ([]int64, error) {
	var items []any
	switch x := v.(type) {
	case nil:
		return []int64{}, nil
	case []any:
		items = x
	default:
		strs, err := StringList(v)
		if err != nil {
			return nil, err
		}
		items = make([]any, len(strs))
		for i, s := range strs {
			items[i] = s
		}
	}

	out := make([]int64, 0, len(items))
	for _, item := range items {
		n, err := IntOrZero(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, nil
}

// decodeValue turns a raw JSON value into its dynamic form, keeping numbers
// as json.Number. An absent value decodes to nil.
func decodeValue(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	return v, nil
}

// isAbsent reports whether a raw field was missing or explicitly null.
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)

	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// coerceInt decodes raw and applies IntOrZero, attributing failures to field.
func coerceInt(field string, raw json.RawMessage) (int64, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return 0, &StructureError{Field: field, Err: err}
	}

	n, err := IntOrZero(v)
	if err != nil {
		return 0, &StructureError{Field: field, Err: withField(field, err)}
	}

	return n, nil
}

// requiredInt is coerceInt for fields that must be present, even if empty.
func requiredInt(field string, raw json.RawMessage) (int64, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return 0, &StructureError{Field: field, Err: ErrMissingField}
	}

	return coerceInt(field, raw)
}

func withField(field string, err error) error {
	if mf, ok := err.(*MalformedFieldError); ok && mf.Field == "" {
		return &MalformedFieldError{Field: field, Value: mf.Value, Reason: mf.Reason}
	}

	return err
}
