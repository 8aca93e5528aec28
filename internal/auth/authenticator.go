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

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrMissingHeader is returned when the request carries no Authorization header.
	ErrMissingHeader = errors.New("missing authorization header")
	// ErrInvalidCredentials is returned when the header does not match the stored credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCredentialsUnavailable wraps failures to load the expected credentials.
	ErrCredentialsUnavailable = errors.New("credentials unavailable")
)

// Authenticator checks webhook Authorization headers against the
// credentials stored under one parameter name.
type Authenticator struct {
	source    Source
	paramName string
}

// NewAuthenticator creates an Authenticator. source is normally a CachedSource.
func NewAuthenticator(source Source, paramName string) *Authenticator {
	return &Authenticator{source: source, paramName: paramName}
}

// Authenticate returns nil when header carries the expected credentials.
func (a *Authenticator) Authenticate(ctx context.Context, header string) error {
	if header == "" {
		return ErrMissingHeader
	}

	expected, err := a.source.Fetch(ctx, a.paramName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCredentialsUnavailable, err)
	}

	if !VerifyBasicAuth(header, expected) {
		slog.Warn("webhook credentials rejected", "param", a.paramName)
		return ErrInvalidCredentials
	}

	return nil
}
