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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Variant names one shape of the event object. Zendesk does not tag the
// shape, so it is inferred from the keys present.
type Variant int

const (
	VariantComment Variant = iota
	VariantCustomField
	VariantEventDiff
	VariantMerged
	VariantTags
	VariantUserList
	VariantEmpty
)

func (v Variant) String() string {
	switch v {
	case VariantComment:
		return "comment"
	case VariantCustomField:
		return "custom_field"
	case VariantEventDiff:
		return "event_diff"
	case VariantMerged:
		return "merged"
	case VariantTags:
		return "tags"
	case VariantUserList:
		return "user_list"
	case VariantEmpty:
		return "empty"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// VariantPreference breaks ties between variants that accept the same
// object equally well. Earlier entries win.
var VariantPreference = [...]Variant{
	VariantComment,
	VariantCustomField,
	VariantEventDiff,
	VariantMerged,
	VariantTags,
	VariantUserList,
	VariantEmpty,
}

// EventData is the decoded event object. The concrete type is one of the
// *Event structs in this file.
type EventData interface {
	Variant() Variant
	eventData()
}

// CommentEvent is sent when a comment is added or changed.
type CommentEvent struct {
	Comment Comment `json:"comment"`
}

// CustomFieldEvent is sent when a custom field value changes.
type CustomFieldEvent struct {
	Current     CustomFieldValue `json:"current"`
	Previous    CustomFieldValue `json:"previous"`
	CustomField CustomField      `json:"custom_field"`
}

// EventDiff carries the scalar before and after values of a standard field.
type EventDiff struct {
	Current  any `json:"current"`
	Previous any `json:"previous"`
}

// MergedEvent is sent when the ticket is merged into another.
type MergedEvent struct {
	TargetTicketID int64 `json:"target_ticket_id"`
}

// TagsEvent lists tag changes.
type TagsEvent struct {
	TagsAdded   []string `json:"tags_added"`
	TagsRemoved []string `json:"tags_removed"`
}

// UserListEvent lists follower or CC changes by user id.
type UserListEvent struct {
	UsersAdded   []int64 `json:"users_added"`
	UsersRemoved []int64 `json:"users_removed"`
}

// EmptyEvent is an event object with no fields.
type EmptyEvent struct{}

func (CommentEvent) Variant() Variant     { return VariantComment }
func (CustomFieldEvent) Variant() Variant { return VariantCustomField }
func (EventDiff) Variant() Variant        { return VariantEventDiff }
func (MergedEvent) Variant() Variant      { return VariantMerged }
func (TagsEvent) Variant() Variant        { return VariantTags }
func (UserListEvent) Variant() Variant    { return VariantUserList }
func (EmptyEvent) Variant() Variant       { return VariantEmpty }

func (CommentEvent) eventData()     {}
func (CustomFieldEvent) eventData() {}
func (EventDiff) eventData()        {}
func (MergedEvent) eventData()      {}
func (TagsEvent) eventData()        {}
func (UserListEvent) eventData()    {}
func (EmptyEvent) eventData()       {}

type eventFields map[string]json.RawMessage

type variantShape struct {
	known    []string
	required []string
	decode   func(eventFields) (EventData, error)
}

var variantShapes = map[Variant]variantShape{
	VariantComment: {
		known:    []string{"comment"},
		required: []string{"comment"},
		decode: func(f eventFields) (EventData, error) {
			c, err := decodeRequired[Comment]("comment", f["comment"])
			return CommentEvent{Comment: c}, err
		},
	},
	VariantCustomField: {
		known:    []string{"current", "previous", "custom_field"},
		required: []string{"current", "previous", "custom_field"},
		decode: func(f eventFields) (EventData, error) {
			var ev CustomFieldEvent
			var err error
			if ev.Current, err = decodeRequired[CustomFieldValue]("current", f["current"]); err != nil {
				return nil, err
			}
			if ev.Previous, err = decodeRequired[CustomFieldValue]("previous", f["previous"]); err != nil {
				return nil, err
			}
			if ev.CustomField, err = decodeRequired[CustomField]("custom_field", f["custom_field"]); err != nil {
				return nil, err
			}
			return ev, nil
		},
	},
	VariantEventDiff: {
		known: []string{"current", "previous"},
		decode: func(f eventFields) (EventData, error) {
			var ev EventDiff
			var err error
			if ev.Current, err = decodeScalar("current", f["current"]); err != nil {
				return nil, err
			}
			if ev.Previous, err = decodeScalar("previous", f["previous"]); err != nil {
				return nil, err
			}
			return ev, nil
		},
	},
	VariantMerged: {
		known:    []string{"target_ticket_id"},
		required: []string{"target_ticket_id"},
		decode: func(f eventFields) (EventData, error) {
			id, err := coerceInt("target_ticket_id", f["target_ticket_id"])
			return MergedEvent{TargetTicketID: id}, err
		},
	},
	VariantTags: {
		known:    []string{"tags_added", "tags_removed"},
		required: []string{"tags_added", "tags_removed"},
		decode: func(f eventFields) (EventData, error) {
			var ev TagsEvent
			var err error
			if ev.TagsAdded, err = decodeRequired[[]string]("tags_added", f["tags_added"]); err != nil {
				return nil, err
			}
			if ev.TagsRemoved, err = decodeRequired[[]string]("tags_removed", f["tags_removed"]); err != nil {
				return nil, err
			}
			return ev, nil
		},
	},
	VariantUserList: {
		known:    []string{"users_added", "users_removed"},
		required: []string{"users_added", "users_removed"},
		decode: func(f eventFields) (EventData, error) {
			var ev UserListEvent
			var err error
			if ev.UsersAdded, err = coerceIntList("users_added", f["users_added"]); err != nil {
				return nil, err
			}
			if ev.UsersRemoved, err = coerceIntList("users_removed", f["users_removed"]); err != nil {
				return nil, err
			}
			return ev, nil
		},
	},
	VariantEmpty: {
		decode: func(eventFields) (EventData, error) {
			return EmptyEvent{}, nil
		},
	},
}

// ResolveEvent picks the variant that raw represents. A variant is a
// candidate when all of its required keys are present, it knows every key
// in the object, and the values decode. An exact key-set match beats a
// partial one; remaining ties follow VariantPreference.
func ResolveEvent(raw json.RawMessage) (EventData, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &StructureError{Field: "event", Err: errors.New("expected a JSON object")}
	}

	var fields eventFields
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &StructureError{Field: "event", Err: err}
	}

	var partial EventData
	var reasons []string

	for _, v := range VariantPreference {
		shape := variantShapes[v]
		if !shape.accepts(fields) {
			continue
		}

		data, err := shape.decode(fields)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", v, err))
			continue
		}

		if len(fields) == len(shape.known) {
			return data, nil
		}
		if partial == nil {
			partial = data
		}
	}

	if partial != nil {
		return partial, nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return nil, &UnrecognizedEventShapeError{Keys: keys, Reasons: reasons}
}

// accepts reports whether the key set fits the shape. Values are not checked.
func (s variantShape) accepts(fields eventFields) bool {
	for _, k := range s.required {
		if _, ok := fields[k]; !ok {
			return false
		}
	}

	for k := range fields {
		if !slices.Contains(s.known, k) {
			return false
		}
	}

	return true
}

func coerceIntList(field string, raw json.RawMessage) ([]int64, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return nil, &StructureError{Field: field, Err: err}
	}

	out, err := IntList(v)
	if err != nil {
		return nil, &StructureError{Field: field, Err: withField(field, err)}
	}

	return out, nil
}
