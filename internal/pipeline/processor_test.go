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
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gataworks/zendesk-eventbus/internal/auth"
	"github.com/gataworks/zendesk-eventbus/internal/eventbus"
	"github.com/gataworks/zendesk-eventbus/internal/models"
)

const validHeader = "Basic dGVzdF91c2VyOnRlc3RfcGFzc3dvcmQ="

const ticketCreated = `{
  "account_id": 12345,
  "detail": {
    "actor_id": 123456,
    "assignee_id": "4321",
    "brand_id": null,
    "created_at": "2022-11-22T22:11:22Z",
    "custom_status": 1234,
    "description": "Test ticket description",
    "external_id": null,
    "form_id": null,
    "group_id": "2468",
    "id": 24,
    "is_public": true,
    "organization_id": null,
    "priority": "normal",
    "requester_id": 1234,
    "status": "pending",
    "subject": "Test Ticket Subject",
    "submitter_id": null,
    "tags": "connecting_to_platform sample_ticket",
    "type": "incident",
    "updated_at": "2022-11-22T22:11:22Z",
    "via": {"channel": "web_form"}
  },
  "event": {},
  "id": "de305d54-75b4-431b-adb2-eb6b9e546013",
  "subject": "ticket:24:created",
  "time": "2022-11-22T22:11:22Z",
  "type": "zen:event-type:ticket.created",
  "zendesk_event_version": "2022-11-22T22:11:22Z"
}`

// fakeSender records every dispatched record.
type fakeSender struct {
	mu      sync.Mutex
	records []eventbus.Record
	err     error
	panics  bool
}

func (s *fakeSender) Send(_ context.Context, rec eventbus.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if s.panics {
		panic("bus client exploded")
	}
	return s.err
}

func (s *fakeSender) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func newProcessor(t *testing.T, sender *fakeSender) *Processor {
	t.Helper()

	creds := auth.StaticSource{"/zendesk": {Username: "test_user", Password: "test_password"}}
	p, err := NewProcessor(Config{
		Auth:         auth.NewAuthenticator(creds, "/zendesk"),
		Sender:       sender,
		EventBusName: "zendesk-bus",
	})
	require.NoError(t, err)

	return p
}

func TestProcess_Dispatched(t *testing.T) {
	sender := &fakeSender{}
	p := newProcessor(t, sender)

	res, err := p.Process(context.Background(), validHeader, []byte(ticketCreated))
	require.NoError(t, err)

	assert.Equal(t, StageDispatched, res.Stage)
	assert.Equal(t, 1, sender.Calls())
	assert.Equal(t, []string{"ticket:24:created", "24"}, res.Record.Resources)
	assert.Equal(t, "ticket.created", res.Record.DetailType)
	assert.Equal(t, "zendesk.com", res.Record.Source)
	assert.Equal(t, "zendesk-bus", res.Record.EventBusName)
	assert.Equal(t, sender.records[0], res.Record)
}

func TestProcess_DispatchFailed(t *testing.T) {
	sender := &fakeSender{err: errors.New("bus unavailable")}
	p := newProcessor(t, sender)

	res, err := p.Process(context.Background(), validHeader, []byte(ticketCreated))
	require.ErrorIs(t, err, ErrDispatchFailed)
	assert.Nil(t, res)
	assert.Equal(t, 1, sender.Calls(), "dispatch must be attempted exactly once")

	var pe *ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, StageEnveloped, pe.Stage)
	assert.Equal(t, 500, pe.StatusCode())
	assert.Equal(t, MsgDispatchFailed, pe.Message)
}

func TestProcess_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		body      string
		wantErr   error
		wantStage Stage
		wantMsg   string
		wantCode  int
	}{
		{
			name:      "missing header",
			header:    "",
			body:      ticketCreated,
			wantErr:   ErrUnauthorized,
			wantStage: StageReceived,
			wantMsg:   MsgMissingHeader,
			wantCode:  401,
		},
		{
			name:      "wrong credentials",
			header:    "Basic d3Jvbmc6d3Jvbmc=",
			body:      ticketCreated,
			wantErr:   ErrUnauthorized,
			wantStage: StageReceived,
			wantMsg:   MsgInvalidCredentials,
			wantCode:  401,
		},
		{
			name:      "not json",
			header:    validHeader,
			body:      `{"account_id": `,
			wantErr:   ErrMalformedPayload,
			wantStage: StageAuthenticated,
			wantMsg:   MsgInvalidJSON,
			wantCode:  400,
		},
		{
			name:      "bad channel",
			header:    validHeader,
			body:      strings.Replace(ticketCreated, `"web_form"`, `"Web_Form"`, 1),
			wantErr:   ErrInvalidStructure,
			wantStage: StageAuthenticated,
			wantMsg:   MsgInvalidStructure,
			wantCode:  400,
		},
		{
			name:      "unrecognized event",
			header:    validHeader,
			body:      strings.Replace(ticketCreated, `"event": {}`, `"event": {"bogus": 1}`, 1),
			wantErr:   ErrInvalidStructure,
			wantStage: StageAuthenticated,
			wantMsg:   MsgInvalidStructure,
			wantCode:  400,
		},
		{
			name:      "single segment subject",
			header:    validHeader,
			body:      strings.Replace(ticketCreated, `"ticket:24:created"`, `"ticket"`, 1),
			wantErr:   ErrMalformedField,
			wantStage: StageDecoded,
			wantMsg:   MsgInvalidField,
			wantCode:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			p := newProcessor(t, sender)

			res, err := p.Process(context.Background(), tt.header, []byte(tt.body))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			assert.Zero(t, sender.Calls(), "nothing may be dispatched after a rejection")

			var pe *ProcessingError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantStage, pe.Stage)
			assert.Equal(t, tt.wantMsg, pe.Message)
			assert.Equal(t, tt.wantCode, pe.StatusCode())
		})
	}
}

// failingAuth simulates a credential store outage.
type failingAuth struct{}

func (failingAuth) Authenticate(context.Context, string) error {
	return errors.Join(auth.ErrCredentialsUnavailable, errors.New("timeout"))
}

func TestProcess_CredentialsUnavailable(t *testing.T) {
	sender := &fakeSender{}
	p, err := NewProcessor(Config{Auth: failingAuth{}, Sender: sender, EventBusName: "bus"})
	require.NoError(t, err)

	_, err = p.Process(context.Background(), validHeader, []byte(ticketCreated))
	require.ErrorIs(t, err, ErrUnexpected)

	var pe *ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, MsgCredentialsUnavailable, pe.Message)
	assert.NotContains(t, pe.Message, "timeout")
	assert.Zero(t, sender.Calls())
}

func TestProcess_SenderPanic(t *testing.T) {
	sender := &fakeSender{panics: true}
	p := newProcessor(t, sender)

	res, err := p.Process(context.Background(), validHeader, []byte(ticketCreated))
	require.ErrorIs(t, err, ErrUnexpected)
	assert.Nil(t, res)

	var pe *ProcessingError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, MsgUnexpected, pe.Message)
	assert.Equal(t, StageEnveloped, pe.Stage)
	assert.Equal(t, 1, sender.Calls())
}

func TestForward_SkipsAuthentication(t *testing.T) {
	sender := &fakeSender{}
	p, err := NewProcessor(Config{Sender: sender, EventBusName: "bus"})
	require.NoError(t, err)

	res, err := p.Forward(context.Background(), []byte(ticketCreated))
	require.NoError(t, err)
	assert.Equal(t, StageDispatched, res.Stage)
	assert.Equal(t, 1, sender.Calls())

	_, err = p.Process(context.Background(), validHeader, []byte(ticketCreated))
	assert.ErrorIs(t, err, ErrUnexpected, "Process without an authenticator must fail")
}

func TestPrepare_DoesNotDispatch(t *testing.T) {
	sender := &fakeSender{}
	p := newProcessor(t, sender)

	res, err := p.Prepare([]byte(ticketCreated))
	require.NoError(t, err)
	assert.Equal(t, StageEnveloped, res.Stage)
	assert.Equal(t, models.EventTicketCreated, res.Envelope.Type)
	assert.Zero(t, sender.Calls())
}

func TestNewProcessor_Validation(t *testing.T) {
	_, err := NewProcessor(Config{EventBusName: "bus"})
	assert.Error(t, err)

	_, err = NewProcessor(Config{Sender: &fakeSender{}})
	assert.Error(t, err)
}

func TestKind_StatusCode(t *testing.T) {
	assert.Equal(t, 401, KindUnauthorized.StatusCode())
	assert.Equal(t, 400, KindMalformedPayload.StatusCode())
	assert.Equal(t, 400, KindInvalidStructure.StatusCode())
	assert.Equal(t, 400, KindMalformedField.StatusCode())
	assert.Equal(t, 500, KindDispatchFailed.StatusCode())
	assert.Equal(t, 500, KindUnexpected.StatusCode())
}
