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

package pipeline

import "fmt"

// ProcessingError is the classified failure of one request. Message is safe
// to return to the caller; Err is the internal cause and is only logged.
type ProcessingError struct {
	Kind    Kind
	Stage   Stage
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Stage, e.Message)
	}

	return fmt.Sprintf("%s at %s: %s: %v", e.Kind, e.Stage, e.Message, e.Err)
}

// Unwrap returns the internal cause.
func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Is matches another ProcessingError of the same kind, so the sentinels
// below can be used with errors.Is.
func (e *ProcessingError) Is(target error) bool {
	t, ok := target.(*ProcessingError)
	if !ok {
		return false
	}

	return t.Kind == e.Kind
}

// StatusCode is the HTTP status for the error's kind.
func (e *ProcessingError) StatusCode() int {
	return e.Kind.StatusCode()
}

var (
	ErrUnauthorized     = &ProcessingError{Kind: KindUnauthorized}
	ErrMalformedPayload = &ProcessingError{Kind: KindMalformedPayload}
	ErrInvalidStructure = &ProcessingError{Kind: KindInvalidStructure}
	ErrMalformedField   = &ProcessingError{Kind: KindMalformedField}
	ErrDispatchFailed   = &ProcessingError{Kind: KindDispatchFailed}
	ErrUnexpected       = &ProcessingError{Kind: KindUnexpected}
)
