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
	"time"

	"github.com/google/uuid"
)

// WebhookEnvelope is one fully decoded Zendesk ticket event.
//
// Its JSON serialisation is the Detail of the outbound bus record, so field
// order and names follow the Zendesk webhook body.
type WebhookEnvelope struct {
	AccountID           int64     `json:"account_id"`
	Detail              Ticket    `json:"detail"`
	Event               EventData `json:"event"`
	ID                  uuid.UUID `json:"id"`
	Subject             string    `json:"subject"`
	Time                time.Time `json:"time"`
	Type                EventType `json:"type"`
	ZendeskEventVersion time.Time `json:"zendesk_event_version"`
}

type envelopeWire struct {
	AccountID           json.RawMessage `json:"account_id" validate:"required"`
	Detail              json.RawMessage `json:"detail" validate:"required"`
	Event               json.RawMessage `json:"event" validate:"required"`
	ID                  json.RawMessage `json:"id" validate:"required"`
	Subject             json.RawMessage `json:"subject" validate:"required"`
	Time                json.RawMessage `json:"time" validate:"required"`
	Type                json.RawMessage `json:"type" validate:"required"`
	ZendeskEventVersion json.RawMessage `json:"zendesk_event_version" validate:"required"`
}

var errNotUUID4 = errors.New("expected a version 4 UUID")

// DecodeEnvelope decodes a webhook body. A body that is not JSON yields
// ErrMalformedPayload; any schema violation yields an error matching
// ErrInvalidStructure.
func DecodeEnvelope(body []byte) (*WebhookEnvelope, error) {
	if !json.Valid(body) {
		return nil, ErrMalformedPayload
	}

	var w envelopeWire
	if err := decodeObject(body, &w); err != nil {
		return nil, err
	}

	var env WebhookEnvelope
	var err error

	if env.AccountID, err = decodeRequired[int64]("account_id", w.AccountID); err != nil {
		return nil, err
	}

	id, err := decodeRequired[string]("id", w.ID)
	if err != nil {
		return nil, err
	}
	if err := validate.Var(id, "uuid4_rfc4122"); err != nil {
		return nil, &StructureError{Field: "id", Err: errNotUUID4}
	}
	if env.ID, err = uuid.Parse(id); err != nil {
		return nil, &StructureError{Field: "id", Err: err}
	}

	if env.Subject, err = decodeRequired[string]("subject", w.Subject); err != nil {
		return nil, err
	}
	if env.Time, err = decodeRequired[time.Time]("time", w.Time); err != nil {
		return nil, err
	}
	if env.Type, err = decodeRequired[EventType]("type", w.Type); err != nil {
		return nil, err
	}
	if env.ZendeskEventVersion, err = decodeRequired[time.Time]("zendesk_event_version", w.ZendeskEventVersion); err != nil {
		return nil, err
	}

	if isAbsent(w.Detail) {
		return nil, &StructureError{Field: "detail", Err: ErrMissingField}
	}
	if err := env.Detail.UnmarshalJSON(w.Detail); err != nil {
		return nil, nestField("detail", err)
	}

	if env.Event, err = ResolveEvent(w.Event); err != nil {
		return nil, err
	}

	return &env, nil
}

// TicketID returns the ticket the event refers to.
func (e *WebhookEnvelope) TicketID() int64 {
	return e.Detail.ID
}

// UnmarshalJSON implements json.Unmarshaler using DecodeEnvelope.
func (e *WebhookEnvelope) UnmarshalJSON(data []byte) error {
	env, err := DecodeEnvelope(data)
	if err != nil {
		return err
	}
	*e = *env

	return nil
}
