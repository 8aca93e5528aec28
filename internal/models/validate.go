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
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is read-only after init; validator.Validate is safe for concurrent
// use once registration has finished.
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report JSON names so error paths match the wire payload.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})
}

// checkRequired runs the struct's validate tags and converts the first
// failure into a StructureError.
func checkRequired(wire any) error {
	err := validate.Struct(wire)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return &StructureError{Field: fe.Field(), Err: ErrMissingField}
		}

		return &StructureError{Field: fe.Field(), Err: errors.New("failed " + fe.Tag() + " validation")}
	}

	return &StructureError{Err: err}
}

// decodeObject unmarshals raw into a wire struct, rejecting anything that is
// not a JSON object.
func decodeObject(raw json.RawMessage, wire any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &StructureError{Err: errors.New("expected a JSON object")}
	}

	if err := json.Unmarshal(trimmed, wire); err != nil {
		return asStructureError("", err)
	}

	return checkRequired(wire)
}

// decodeRequired decodes a mandatory field. Absent and null are both missing.
func decodeRequired[T any](field string, raw json.RawMessage) (T, error) {
	var out T
	if isAbsent(raw) {
		return out, &StructureError{Field: field, Err: ErrMissingField}
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, asStructureError(field, err)
	}

	return out, nil
}

// decodeOptional decodes a nullable field; absent and null yield nil.
func decodeOptional[T any](field string, raw json.RawMessage) (*T, error) {
	if isAbsent(raw) {
		return nil, nil
	}

	out, err := decodeRequired[T](field, raw)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// requiredID is used for identifiers that may be numeric strings but are
// never empty.
func requiredID(field string, raw json.RawMessage) (int64, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return 0, &StructureError{Field: field, Err: err}
	}
	if s, ok := v.(string); v == nil || (ok && s == "") {
		return 0, &StructureError{Field: field, Err: ErrMissingField}
	}

	return coerceInt(field, raw)
}

func asStructureError(field string, err error) error {
	var se *StructureError
	if errors.As(err, &se) {
		if field == "" {
			return se
		}

		return nestField(field, se)
	}

	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		path := te.Field
		if field != "" && path != "" {
			path = field + "." + path
		} else if field != "" {
			path = field
		}

		return &StructureError{Field: path, Err: err}
	}

	return &StructureError{Field: field, Err: withField(field, err)}
}
