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
	"strings"
)

// Priority is the ticket urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var priorities = newSet(PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent)

// ParsePriority matches s case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(s))
	if _, ok := priorities[p]; !ok {
		return "", &UnknownEnumValueError{Domain: "priority", Value: s}
	}

	return p, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Priority) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, p, ParsePriority)
}

// Status is the ticket lifecycle state.
type Status string

const (
	StatusArchived Status = "archived"
	StatusClosed   Status = "closed"
	StatusDeleted  Status = "deleted"
	StatusHold     Status = "hold"
	StatusNew      Status = "new"
	StatusOpen     Status = "open"
	StatusPending  Status = "pending"
	StatusScrubbed Status = "scrubbed"
	StatusSolved   Status = "solved"
)

var statuses = newSet(
	StatusArchived, StatusClosed, StatusDeleted, StatusHold, StatusNew,
	StatusOpen, StatusPending, StatusScrubbed, StatusSolved,
)

// ParseStatus matches s case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(s))
	if _, ok := statuses[st]; !ok {
		return "", &UnknownEnumValueError{Domain: "status", Value: s}
	}

	return st, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Status) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseStatus)
}

// TicketType classifies the kind of request a ticket represents.
type TicketType string

const (
	TicketTypeIncident TicketType = "incident"
	TicketTypeProblem  TicketType = "problem"
	TicketTypeQuestion TicketType = "question"
	TicketTypeTask     TicketType = "task"
)

var ticketTypes = newSet(TicketTypeIncident, TicketTypeProblem, TicketTypeQuestion, TicketTypeTask)

// ParseTicketType matches s case-insensitively.
func ParseTicketType(s string) (TicketType, error) {
	t := TicketType(strings.ToLower(s))
	if _, ok := ticketTypes[t]; !ok {
		return "", &UnknownEnumValueError{Domain: "ticket type", Value: s}
	}

	return t, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *TicketType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, ParseTicketType)
}

// unmarshalEnum requires a JSON string and stores the parsed member in dst.
func unmarshalEnum[T ~string](data []byte, dst *T, parse func(string) (T, error)) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &MalformedFieldError{Value: string(data), Reason: "expected a string"}
	}

	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v

	return nil
}

func newSet[T comparable](members ...T) map[T]struct{} {
	set := make(map[T]struct{}, len(members))
	for _, m := range members {
		set[m] = struct{}{}
	}

	return set
}
