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

// Package models defines the Zendesk ticket event schema and its decoder.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Via records the channel a ticket arrived through.
type Via struct {
	Channel Channel `json:"channel"`
}

// UnmarshalJSON accepts exactly {"channel": <Channel>}. Legacy keys such as
// "source" are rejected.
func (v *Via) UnmarshalJSON(data []byte) error {
	var wire struct {
		Channel *Channel `json:"channel"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return &StructureError{Err: err}
	}
	if wire.Channel == nil {
		return &StructureError{Field: "channel", Err: ErrMissingField}
	}

	v.Channel = *wire.Channel

	return nil
}

// Ticket is the snapshot of a ticket at the time the event fired. Numeric
// identifiers are normalised to non-negative integers, 0 when Zendesk sent
// an empty value.
type Ticket struct {
	ActorID        int64       `json:"actor_id"`
	AssigneeID     int64       `json:"assignee_id"`
	BrandID        int64       `json:"brand_id"`
	CreatedAt      time.Time   `json:"created_at"`
	CustomStatus   int64       `json:"custom_status"`
	Description    string      `json:"description"`
	ExternalID     *string     `json:"external_id"`
	FormID         int64       `json:"form_id"`
	GroupID        int64       `json:"group_id"`
	ID             int64       `json:"id"`
	IsPublic       bool        `json:"is_public"`
	OrganizationID int64       `json:"organization_id"`
	Priority       *Priority   `json:"priority"`
	RequesterID    int64       `json:"requester_id"`
	Status         Status      `json:"status"`
	Subject        string      `json:"subject"`
	SubmitterID    int64       `json:"submitter_id"`
	Tags           []string    `json:"tags"`
	Type           *TicketType `json:"type"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Via            Via         `json:"via"`
}

type ticketWire struct {
	ActorID        json.RawMessage `json:"actor_id" validate:"required"`
	AssigneeID     json.RawMessage `json:"assignee_id"`
	BrandID        json.RawMessage `json:"brand_id"`
	CreatedAt      json.RawMessage `json:"created_at" validate:"required"`
	CustomStatus   json.RawMessage `json:"custom_status"`
	Description    json.RawMessage `json:"description" validate:"required"`
	ExternalID     json.RawMessage `json:"external_id"`
	FormID         json.RawMessage `json:"form_id"`
	GroupID        json.RawMessage `json:"group_id"`
	ID             json.RawMessage `json:"id"`
	IsPublic       json.RawMessage `json:"is_public" validate:"required"`
	OrganizationID json.RawMessage `json:"organization_id"`
	Priority       json.RawMessage `json:"priority"`
	RequesterID    json.RawMessage `json:"requester_id" validate:"required"`
	Status         json.RawMessage `json:"status" validate:"required"`
	Subject        json.RawMessage `json:"subject" validate:"required"`
	SubmitterID    json.RawMessage `json:"submitter_id"`
	Tags           json.RawMessage `json:"tags"`
	Type           json.RawMessage `json:"type"`
	UpdatedAt      json.RawMessage `json:"updated_at" validate:"required"`
	Via            json.RawMessage `json:"via" validate:"required"`
}

// UnmarshalJSON decodes and validates a ticket snapshot. The first failure
// aborts with a StructureError naming the field.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	var w ticketWire
	if err := decodeObject(data, &w); err != nil {
		return err
	}

	var out Ticket
	var err error

	ints := []struct {
		field string
		raw   json.RawMessage
		dst   *int64
	}{
		{"assignee_id", w.AssigneeID, &out.AssigneeID},
		{"brand_id", w.BrandID, &out.BrandID},
		{"custom_status", w.CustomStatus, &out.CustomStatus},
		{"form_id", w.FormID, &out.FormID},
		{"group_id", w.GroupID, &out.GroupID},
		{"id", w.ID, &out.ID},
		{"organization_id", w.OrganizationID, &out.OrganizationID},
		{"submitter_id", w.SubmitterID, &out.SubmitterID},
	}
	for _, f := range ints {
		if *f.dst, err = coerceInt(f.field, f.raw); err != nil {
			return err
		}
	}

	if out.ActorID, err = requiredID("actor_id", w.ActorID); err != nil {
		return err
	}
	if out.RequesterID, err = requiredID("requester_id", w.RequesterID); err != nil {
		return err
	}
	if out.CreatedAt, err = decodeRequired[time.Time]("created_at", w.CreatedAt); err != nil {
		return err
	}
	if out.UpdatedAt, err = decodeRequired[time.Time]("updated_at", w.UpdatedAt); err != nil {
		return err
	}
	if out.Description, err = decodeRequired[string]("description", w.Description); err != nil {
		return err
	}
	if out.Subject, err = decodeRequired[string]("subject", w.Subject); err != nil {
		return err
	}
	if out.ExternalID, err = decodeOptional[string]("external_id", w.ExternalID); err != nil {
		return err
	}
	if out.IsPublic, err = decodeRequired[bool]("is_public", w.IsPublic); err != nil {
		return err
	}
	if out.Status, err = decodeRequired[Status]("status", w.Status); err != nil {
		return err
	}
	if out.Priority, err = decodeOptional[Priority]("priority", w.Priority); err != nil {
		return err
	}
	if out.Type, err = decodeOptional[TicketType]("type", w.Type); err != nil {
		return err
	}
	if out.Via, err = decodeRequired[Via]("via", w.Via); err != nil {
		return err
	}

	tags, err := decodeValue(w.Tags)
	if err != nil {
		return &StructureError{Field: "tags", Err: err}
	}
	if out.Tags, err = StringList(tags); err != nil {
		return &StructureError{Field: "tags", Err: withField("tags", err)}
	}

	*t = out

	return nil
}

// CommentAuthor is the user who wrote a comment.
type CommentAuthor struct {
	ID      int64  `json:"id"`
	IsStaff bool   `json:"is_staff"`
	Name    string `json:"name"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *CommentAuthor) UnmarshalJSON(data []byte) error {
	var w struct {
		ID      json.RawMessage `json:"id" validate:"required"`
		IsStaff json.RawMessage `json:"is_staff" validate:"required"`
		Name    json.RawMessage `json:"name" validate:"required"`
	}
	if err := decodeObject(data, &w); err != nil {
		return err
	}

	var out CommentAuthor
	var err error
	if out.ID, err = coerceInt("id", w.ID); err != nil {
		return err
	}
	if out.IsStaff, err = decodeRequired[bool]("is_staff", w.IsStaff); err != nil {
		return err
	}
	if out.Name, err = decodeRequired[string]("name", w.Name); err != nil {
		return err
	}
	*a = out

	return nil
}

// CommentAttachment describes a file attached to a comment.
type CommentAttachment struct {
	ID          int64   `json:"id"`
	ContentType *string `json:"content_type"`
	ContentURL  *string `json:"content_url"`
	Filename    *string `json:"filename"`
	IsPublic    *bool   `json:"is_public"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *CommentAttachment) UnmarshalJSON(data []byte) error {
	var w struct {
		ID          json.RawMessage `json:"id" validate:"required"`
		ContentType json.RawMessage `json:"content_type"`
		ContentURL  json.RawMessage `json:"content_url"`
		Filename    json.RawMessage `json:"filename"`
		IsPublic    json.RawMessage `json:"is_public"`
	}
	if err := decodeObject(data, &w); err != nil {
		return err
	}

	var out CommentAttachment
	var err error
	if out.ID, err = coerceInt("id", w.ID); err != nil {
		return err
	}
	if out.ContentType, err = decodeOptional[string]("content_type", w.ContentType); err != nil {
		return err
	}
	if out.ContentURL, err = decodeOptional[string]("content_url", w.ContentURL); err != nil {
		return err
	}
	if out.Filename, err = decodeOptional[string]("filename", w.Filename); err != nil {
		return err
	}
	if out.IsPublic, err = decodeOptional[bool]("is_public", w.IsPublic); err != nil {
		return err
	}
	*a = out

	return nil
}

// Comment is a ticket comment as delivered in comment events.
type Comment struct {
	ID         int64              `json:"id"`
	Body       *string            `json:"body"`
	IsPublic   bool               `json:"is_public"`
	Author     *CommentAuthor     `json:"author"`
	Attachment *CommentAttachment `json:"attachment"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Comment) UnmarshalJSON(data []byte) error {
	var w struct {
		ID         json.RawMessage `json:"id" validate:"required"`
		Body       json.RawMessage `json:"body"`
		IsPublic   json.RawMessage `json:"is_public" validate:"required"`
		Author     json.RawMessage `json:"author"`
		Attachment json.RawMessage `json:"attachment"`
	}
	if err := decodeObject(data, &w); err != nil {
		return err
	}

	var out Comment
	var err error
	if out.ID, err = coerceInt("id", w.ID); err != nil {
		return err
	}
	if out.Body, err = decodeOptional[string]("body", w.Body); err != nil {
		return err
	}
	if out.IsPublic, err = decodeRequired[bool]("is_public", w.IsPublic); err != nil {
		return err
	}
	if out.Author, err = decodeOptional[CommentAuthor]("author", w.Author); err != nil {
		return err
	}
	if out.Attachment, err = decodeOptional[CommentAttachment]("attachment", w.Attachment); err != nil {
		return err
	}
	*c = out

	return nil
}

// CustomField is the definition of a ticket custom field.
type CustomField struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *CustomField) UnmarshalJSON(data []byte) error {
	var w struct {
		ID    json.RawMessage `json:"id" validate:"required"`
		Title json.RawMessage `json:"title" validate:"required"`
		Type  json.RawMessage `json:"type" validate:"required"`
	}
	if err := decodeObject(data, &w); err != nil {
		return err
	}

	var out CustomField
	var err error
	if out.ID, err = decodeRequired[string]("id", w.ID); err != nil {
		return err
	}
	if out.Title, err = decodeRequired[string]("title", w.Title); err != nil {
		return err
	}
	if out.Type, err = decodeRequired[string]("type", w.Type); err != nil {
		return err
	}
	*f = out

	return nil
}

// CustomFieldValue is one side of a custom field change. Value holds a
// string, bool, json.Number or nil.
type CustomFieldValue struct {
	Value              any     `json:"value"`
	ID                 *string `json:"id"`
	RelationshipTarget *string `json:"relationship_target"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *CustomFieldValue) UnmarshalJSON(data []byte) error {
	var w struct {
		Value              json.RawMessage `json:"value"`
		ID                 json.RawMessage `json:"id"`
		RelationshipTarget json.RawMessage `json:"relationship_target"`
	}
	if err := decodeObject(data, &w); err != nil {
		return err
	}

	var out CustomFieldValue
	var err error
	if out.Value, err = decodeScalar("value", w.Value); err != nil {
		return err
	}
	if out.ID, err = decodeOptional[string]("id", w.ID); err != nil {
		return err
	}
	if out.RelationshipTarget, err = decodeOptional[string]("relationship_target", w.RelationshipTarget); err != nil {
		return err
	}
	*v = out

	return nil
}

var errNotScalar = errors.New("expected a string, boolean, number or null")

// decodeScalar accepts string, bool, number or null values.
func decodeScalar(field string, raw json.RawMessage) (any, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return nil, &StructureError{Field: field, Err: err}
	}

	switch v.(type) {
	case nil, string, bool, json.Number:
		return v, nil
	}

	return nil, &StructureError{Field: field, Err: errNotScalar}
}
