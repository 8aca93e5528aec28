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
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope_Fixture(t *testing.T) {
	env, err := DecodeEnvelope(samplePayload(t, nil))
	require.NoError(t, err)

	assert.Equal(t, int64(12345), env.AccountID)
	assert.Equal(t, uuid.MustParse("de305d54-75b4-431b-adb2-eb6b9e546013"), env.ID)
	assert.Equal(t, "ticket:24:created", env.Subject)
	assert.Equal(t, EventTicketCreated, env.Type)
	assert.Equal(t, EmptyEvent{}, env.Event)
	assert.Equal(t, int64(24), env.TicketID())
	assert.True(t, env.Time.Equal(time.Date(2022, 11, 22, 22, 11, 22, 0, time.UTC)))
}

func TestDecodeEnvelope_MalformedPayload(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"account_id": 1,`))
	require.ErrorIs(t, err, ErrMalformedPayload)
	assert.NotErrorIs(t, err, ErrInvalidStructure)
}

func TestDecodeEnvelope_InvalidStructure(t *testing.T) {
	tests := []struct {
		name      string
		body      []byte
		wantField string
		wantIs    error
	}{
		{
			name:   "not an object",
			body:   []byte(`[1,2]`),
			wantIs: ErrInvalidStructure,
		},
		{
			name:      "missing account",
			body:      samplePayload(t, func(m map[string]any) { delete(m, "account_id") }),
			wantField: "account_id",
			wantIs:    ErrMissingField,
		},
		{
			name:      "version 1 uuid",
			body:      samplePayload(t, func(m map[string]any) { m["id"] = "de305d54-75b4-131b-adb2-eb6b9e546013" }),
			wantField: "id",
			wantIs:    ErrInvalidStructure,
		},
		{
			name:      "unknown event type",
			body:      samplePayload(t, func(m map[string]any) { m["type"] = "zen:event-type:ticket.exploded" }),
			wantField: "type",
			wantIs:    ErrUnknownEnumValue,
		},
		{
			name: "nested ticket field",
			body: samplePayload(t, func(m map[string]any) {
				m["detail"].(map[string]any)["group_id"] = "abc"
			}),
			wantField: "detail.group_id",
			wantIs:    ErrMalformedField,
		},
		{
			name:   "unrecognized event",
			body:   samplePayload(t, func(m map[string]any) { m["event"] = map[string]any{"bogus": 1} }),
			wantIs: ErrUnrecognizedEventShape,
		},
		{
			name:      "null event",
			body:      samplePayload(t, func(m map[string]any) { m["event"] = nil }),
			wantField: "event",
			wantIs:    ErrInvalidStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEnvelope(tt.body)
			require.ErrorIs(t, err, ErrInvalidStructure)
			assert.ErrorIs(t, err, tt.wantIs)
			assert.NotErrorIs(t, err, ErrMalformedPayload)

			var se *StructureError
			if tt.wantField != "" && assert.True(t, errors.As(err, &se)) {
				assert.Equal(t, tt.wantField, se.Field)
			}
		})
	}
}

func TestWebhookEnvelope_JSON(t *testing.T) {
	env, err := DecodeEnvelope(samplePayload(t, nil))
	require.NoError(t, err)

	out, err := json.Marshal(env)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), `{"account_id":12345,"detail":{"actor_id":123456,`), string(out))
	assert.Contains(t, string(out), `"event":{}`)
	assert.Contains(t, string(out), `"tags":["connecting_to_platform","sample_ticket"]`)

	var again WebhookEnvelope
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, *env, again)
}
