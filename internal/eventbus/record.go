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

// Package eventbus builds the records handed to the downstream event bus.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gataworks/zendesk-eventbus/internal/models"
)

// Source is the source attribute stamped on every record.
const Source = "zendesk.com"

// Record is one outbound bus entry. Field names are the bus's wire names.
type Record struct {
	Source       string   `json:"Source"`
	Resources    []string `json:"Resources"`
	DetailType   string   `json:"DetailType"`
	Detail       string   `json:"Detail"`
	EventBusName string   `json:"EventBusName"`
}

// Sender dispatches a record to the bus. Implementations must not retry.
type Sender interface {
	Send(ctx context.Context, rec Record) error
}

// BuildRecord assembles the outbound record for env. It does no I/O.
func BuildRecord(env *models.WebhookEnvelope, busName string) (Record, error) {
	segments := strings.Split(env.Subject, ":")
	if len(segments) < 2 {
		return Record{}, &models.MalformedFieldError{
			Field:  "subject",
			Value:  env.Subject,
			Reason: "expected at least two colon-separated segments",
		}
	}

	eventType := string(env.Type)
	if !strings.HasPrefix(eventType, models.EventTypePrefix) {
		return Record{}, &models.MalformedFieldError{
			Field:  "type",
			Value:  eventType,
			Reason: "missing " + models.EventTypePrefix + " prefix",
		}
	}

	detail, err := json.Marshal(env)
	if err != nil {
		return Record{}, fmt.Errorf("marshal envelope: %w", err)
	}

	return Record{
		Source:       Source,
		Resources:    []string{env.Subject, segments[1]},
		DetailType:   eventType[len(models.EventTypePrefix):],
		Detail:       string(detail),
		EventBusName: busName,
	}, nil
}
