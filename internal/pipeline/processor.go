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

// Package pipeline runs one webhook delivery through authentication,
// decoding, record building and dispatch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gataworks/zendesk-eventbus/internal/auth"
	"github.com/gataworks/zendesk-eventbus/internal/eventbus"
	"github.com/gataworks/zendesk-eventbus/internal/models"
)

// Authenticator checks the Authorization header of a delivery.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) error
}

// Config holds the collaborators of a Processor.
type Config struct {
	Auth         Authenticator
	Sender       eventbus.Sender
	EventBusName string
	Logger       *slog.Logger
}

// Result describes a delivery that reached StageDispatched, or a dry run
// that stopped at StageEnveloped.
type Result struct {
	Stage    Stage
	Envelope *models.WebhookEnvelope
	Record   eventbus.Record
}

// Processor is safe for concurrent use; it holds no per-request state.
type Processor struct {
	auth    Authenticator
	sender  eventbus.Sender
	busName string
	log     *slog.Logger
}

// NewProcessor validates cfg and returns a Processor. Auth may be nil for
// callers that only use Forward or Prepare.
func NewProcessor(cfg Config) (*Processor, error) {
	if cfg.Sender == nil {
		return nil, errors.New("pipeline: sender is required")
	}
	if cfg.EventBusName == "" {
		return nil, errors.New("pipeline: event bus name is required")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Processor{
		auth:    cfg.Auth,
		sender:  cfg.Sender,
		busName: cfg.EventBusName,
		log:     log,
	}, nil
}

// Process authenticates, decodes, builds and dispatches one delivery. The
// sender is called at most once and never retried. Every failure is a
// *ProcessingError.
func (p *Processor) Process(ctx context.Context, authHeader string, body []byte) (res *Result, err error) {
	res = &Result{Stage: StageReceived}
	defer p.recoverPanic(&res, &err)

	if err := p.authenticate(ctx, authHeader); err != nil {
		return nil, p.reject(res.Stage, err)
	}
	res.Stage = StageAuthenticated

	if err := p.prepare(res, body); err != nil {
		return nil, p.reject(res.Stage, err)
	}

	if err := p.dispatch(ctx, res); err != nil {
		return nil, p.reject(res.Stage, err)
	}

	return res, nil
}

// Forward runs a trusted body through decode, build and dispatch, skipping
// authentication.
func (p *Processor) Forward(ctx context.Context, body []byte) (res *Result, err error) {
	res = &Result{Stage: StageAuthenticated}
	defer p.recoverPanic(&res, &err)

	if err := p.prepare(res, body); err != nil {
		return nil, p.reject(res.Stage, err)
	}

	if err := p.dispatch(ctx, res); err != nil {
		return nil, p.reject(res.Stage, err)
	}

	return res, nil
}

// Prepare decodes body and builds its record without dispatching it.
func (p *Processor) Prepare(body []byte) (res *Result, err error) {
	res = &Result{Stage: StageAuthenticated}
	defer p.recoverPanic(&res, &err)

	if err := p.prepare(res, body); err != nil {
		return nil, p.reject(res.Stage, err)
	}

	return res, nil
}

func (p *Processor) authenticate(ctx context.Context, header string) error {
	if p.auth == nil {
		return &ProcessingError{Kind: KindUnexpected, Message: MsgUnexpected, Err: errors.New("no authenticator configured")}
	}

	err := p.auth.Authenticate(ctx, header)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auth.ErrMissingHeader):
		return &ProcessingError{Kind: KindUnauthorized, Message: MsgMissingHeader, Err: err}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &ProcessingError{Kind: KindUnauthorized, Message: MsgInvalidCredentials, Err: err}
	case errors.Is(err, auth.ErrCredentialsUnavailable):
		return &ProcessingError{Kind: KindUnexpected, Message: MsgCredentialsUnavailable, Err: err}
	default:
		return &ProcessingError{Kind: KindUnexpected, Message: MsgUnexpected, Err: err}
	}
}

// prepare advances res through StageDecoded and StageEnveloped.
func (p *Processor) prepare(res *Result, body []byte) error {
	env, err := models.DecodeEnvelope(body)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrMalformedPayload):
		return &ProcessingError{Kind: KindMalformedPayload, Message: MsgInvalidJSON, Err: err}
	case errors.Is(err, models.ErrInvalidStructure):
		return &ProcessingError{Kind: KindInvalidStructure, Message: MsgInvalidStructure, Err: err}
	default:
		return &ProcessingError{Kind: KindUnexpected, Message: MsgUnexpected, Err: err}
	}
	res.Envelope = env
	res.Stage = StageDecoded

	rec, err := eventbus.BuildRecord(env, p.busName)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrMalformedField):
		return &ProcessingError{Kind: KindMalformedField, Message: MsgInvalidField, Err: err}
	default:
		return &ProcessingError{Kind: KindUnexpected, Message: MsgUnexpected, Err: err}
	}
	res.Record = rec
	res.Stage = StageEnveloped

	return nil
}

func (p *Processor) dispatch(ctx context.Context, res *Result) error {
	if err := p.sender.Send(ctx, res.Record); err != nil {
		return &ProcessingError{Kind: KindDispatchFailed, Message: MsgDispatchFailed, Err: err}
	}
	res.Stage = StageDispatched

	p.log.Info("event dispatched",
		"event_id", res.Envelope.ID.String(),
		"detail_type", res.Record.DetailType,
		"ticket_id", res.Envelope.TicketID(),
	)

	return nil
}

// reject stamps the stage the request had reached and logs the cause.
func (p *Processor) reject(stage Stage, err error) error {
	var pe *ProcessingError
	if !errors.As(err, &pe) {
		pe = &ProcessingError{Kind: KindUnexpected, Message: MsgUnexpected, Err: err}
	}
	pe.Stage = stage

	attrs := []any{"kind", pe.Kind.String(), "stage", stage.String(), "error", pe.Err}
	if pe.Kind.StatusCode() >= 500 {
		p.log.Error(pe.Message, attrs...)
	} else {
		p.log.Warn(pe.Message, attrs...)
	}

	return pe
}

// recoverPanic turns a panic in a collaborator into KindUnexpected.
func (p *Processor) recoverPanic(resp **Result, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	stage := StageReceived
	if *resp != nil {
		stage = (*resp).Stage
	}
	*resp = nil
	*errp = p.reject(stage, &ProcessingError{
		Kind:    KindUnexpected,
		Message: MsgUnexpected,
		Err:     fmt.Errorf("panic: %v", r),
	})
}
