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
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPayload is returned when a webhook body is not valid JSON.
var ErrMalformedPayload = errors.New("payload is not valid JSON")

// ErrMissingField is wrapped by a StructureError when a required field is absent or null.
var ErrMissingField = errors.New("required field is missing")

// ErrInvalidStructure matches any schema, type or enum violation found while decoding.
var ErrInvalidStructure = &StructureError{}

// StructureError reports where decoding failed. Err holds the underlying cause,
// which may itself be a MalformedFieldError or UnknownEnumValueError.
type StructureError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("invalid structure at %s: %v", e.Field, e.Err)
	case e.Err != nil:
		return "invalid structure: " + e.Err.Error()
	case e.Field != "":
		return "invalid structure at " + e.Field
	}

	return "invalid structure"
}

// Unwrap returns the underlying cause.
func (e *StructureError) Unwrap() error {
	return e.Err
}

// Is implements the error interface for error comparison.
func (e *StructureError) Is(target error) bool {
	_, ok := target.(*StructureError)

	return ok
}

// ErrMalformedField matches any failed coercion of a loosely typed field.
var ErrMalformedField = &MalformedFieldError{}

// MalformedFieldError is returned when a value cannot be coerced into the
// type its field requires.
type MalformedFieldError struct {
	Field  string
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *MalformedFieldError) Error() string {
	msg := "malformed field"
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (got %#v)", e.Value)
	}

	return msg
}

// Is implements the error interface for error comparison.
func (e *MalformedFieldError) Is(target error) bool {
	_, ok := target.(*MalformedFieldError)

	return ok
}

// ErrUnknownEnumValue matches any value outside a closed catalogue.
var ErrUnknownEnumValue = &UnknownEnumValueError{}

// UnknownEnumValueError names the domain and the rejected value.
type UnknownEnumValueError struct {
	Domain string
	Value  string
}

// Error implements the error interface.
func (e *UnknownEnumValueError) Error() string {
	if e.Domain == "" {
		return "unknown enum value"
	}

	return fmt.Sprintf("%q is not a valid %s", e.Value, e.Domain)
}

// Is implements the error interface for error comparison.
func (e *UnknownEnumValueError) Is(target error) bool {
	_, ok := target.(*UnknownEnumValueError)

	return ok
}

// ErrUnrecognizedEventShape matches an event object that fits none of the variants.
var ErrUnrecognizedEventShape = &UnrecognizedEventShapeError{}

// UnrecognizedEventShapeError carries the keys of the rejected event object and,
// for variants whose key set fitted but whose values did not decode, the reason.
type UnrecognizedEventShapeError struct {
	Keys    []string
	Reasons []string
}

// Error implements the error interface.
func (e *UnrecognizedEventShapeError) Error() string {
	msg := fmt.Sprintf("unrecognized event shape with keys [%s]", strings.Join(e.Keys, ", "))
	if len(e.Reasons) > 0 {
		msg += ": " + strings.Join(e.Reasons, "; ")
	}

	return msg
}

// Is matches both ErrUnrecognizedEventShape and ErrInvalidStructure.
func (e *UnrecognizedEventShapeError) Is(target error) bool {
	switch target.(type) {
	case *UnrecognizedEventShapeError, *StructureError:
		return true
	}

	return false
}

// nestField prefixes the field path of a decode error with parent.
func nestField(parent string, err error) error {
	var se *StructureError
	if errors.As(err, &se) {
		field := parent
		if se.Field != "" {
			field = parent + "." + se.Field
		}

		return &StructureError{Field: field, Err: se.Err}
	}

	return &StructureError{Field: parent, Err: err}
}
