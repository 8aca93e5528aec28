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

import (
	"fmt"
	"net/http"
)

// Stage is a step of the per-request state machine. Requests move strictly
// forward: Received, Authenticated, Decoded, Enveloped, Dispatched. Any
// transition may end in Rejected.
type Stage int

const (
	StageReceived Stage = iota
	StageAuthenticated
	StageDecoded
	StageEnveloped
	StageDispatched
	StageRejected
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageAuthenticated:
		return "authenticated"
	case StageDecoded:
		return "decoded"
	case StageEnveloped:
		return "enveloped"
	case StageDispatched:
		return "dispatched"
	case StageRejected:
		return "rejected"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Kind classifies why a request was rejected.
type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindMalformedPayload
	KindInvalidStructure
	KindMalformedField
	KindDispatchFailed
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindMalformedPayload:
		return "malformed_payload"
	case KindInvalidStructure:
		return "invalid_structure"
	case KindMalformedField:
		return "malformed_field"
	case KindDispatchFailed:
		return "dispatch_failed"
	case KindUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// StatusCode maps the kind onto an HTTP status. MalformedField shares 400
// with the other client errors.
func (k Kind) StatusCode() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindMalformedPayload, KindInvalidStructure, KindMalformedField:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message is the caller-facing text for the kind.
func (k Kind) Message() string {
	switch k {
	case KindUnauthorized:
		return MsgInvalidCredentials
	case KindMalformedPayload:
		return MsgInvalidJSON
	case KindInvalidStructure:
		return MsgInvalidStructure
	case KindMalformedField:
		return MsgInvalidField
	case KindDispatchFailed:
		return MsgDispatchFailed
	default:
		return MsgUnexpected
	}
}

// Caller-facing messages.
const (
	MsgSuccess                = "Event processed successfully"
	MsgMissingHeader          = "Missing Authorization header"
	MsgInvalidCredentials     = "Invalid credentials"
	MsgCredentialsUnavailable = "Error retrieving credentials"
	MsgInvalidJSON            = "Invalid JSON payload"
	MsgInvalidStructure       = "Invalid webhook data structure"
	MsgInvalidField           = "Invalid webhook field"
	MsgDispatchFailed         = "Error processing event"
	MsgUnexpected             = "An unexpected error occurred"
)
