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

// Package auth verifies the HTTP Basic credentials Zendesk attaches to
// webhook deliveries and loads the expected credentials from a store.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

const basicPrefix = "Basic "

// Credentials is the username and password a webhook must present.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyBasicAuth reports whether header carries the expected credentials.
// Malformed headers return false.
func VerifyBasicAuth(header string, expected Credentials) bool {
	encoded, ok := strings.CutPrefix(header, basicPrefix)
	if !ok {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(expected.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(expected.Password))

	return userOK&passOK == 1
}
