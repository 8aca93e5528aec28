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

import "strings"

// EventTypePrefix is carried by every event type and dropped from the bus detail type.
const EventTypePrefix = "zen:event-type:"

// EventType is a ticket event identifier such as "zen:event-type:ticket.created".
type EventType string

const (
	EventTicketAgentAssignmentChanged        EventType = EventTypePrefix + "ticket.agent_assignment_changed"
	EventTicketAttachmentLinkedToComment     EventType = EventTypePrefix + "ticket.attachment_linked_to_comment"
	EventTicketAttachmentRedactedFromComment EventType = EventTypePrefix + "ticket.attachment_redacted_from_comment"
	EventTicketBrandChanged                  EventType = EventTypePrefix + "ticket.brand_changed"
	EventTicketCommentAdded                  EventType = EventTypePrefix + "ticket.comment_added"
	EventTicketCommentMadePrivate            EventType = EventTypePrefix + "ticket.comment_made_private"
	EventTicketCommentRedacted               EventType = EventTypePrefix + "ticket.comment_redacted"
	EventTicketCustomFieldChanged            EventType = EventTypePrefix + "ticket.custom_field_changed"
	EventTicketCustomStatusChanged           EventType = EventTypePrefix + "ticket.custom_status_changed"
	EventTicketDescriptionChanged            EventType = EventTypePrefix + "ticket.description_changed"
	EventTicketExternalIDChanged             EventType = EventTypePrefix + "ticket.external_id_changed"
	EventTicketEmailCCsChanged               EventType = EventTypePrefix + "ticket.email_ccs_changed"
	EventTicketFollowersChanged              EventType = EventTypePrefix + "ticket.followers_changed"
	EventTicketFormChanged                   EventType = EventTypePrefix + "ticket.form_changed"
	EventTicketGroupAssignmentChanged        EventType = EventTypePrefix + "ticket.group_assignment_changed"
	EventTicketOrganizationChanged           EventType = EventTypePrefix + "ticket.organization_changed"
	EventTicketPriorityChanged               EventType = EventTypePrefix + "ticket.priority_changed"
	EventTicketProblemLinkChanged            EventType = EventTypePrefix + "ticket.problem_link_changed"
	EventTicketRequesterChanged              EventType = EventTypePrefix + "ticket.requester_changed"
	EventTicketStatusChanged                 EventType = EventTypePrefix + "ticket.status_changed"
	EventTicketSubjectChanged                EventType = EventTypePrefix + "ticket.subject_changed"
	EventTicketSubmitterChanged              EventType = EventTypePrefix + "ticket.submitter_changed"
	EventTicketTagsChanged                   EventType = EventTypePrefix + "ticket.tags_changed"
	EventTicketTaskDueAtChanged              EventType = EventTypePrefix + "ticket.task_due_at_changed"
	EventTicketCreated                       EventType = EventTypePrefix + "ticket.created"
	EventTicketMarkedAsSpam                  EventType = EventTypePrefix + "ticket.marked_as_spam"
	EventTicketMerged                        EventType = EventTypePrefix + "ticket.merged"
	EventTicketPermanentlyDeleted            EventType = EventTypePrefix + "ticket.permanently_deleted"
	EventTicketSoftDeleted                   EventType = EventTypePrefix + "ticket.soft_deleted"
	EventTicketTypeChanged                   EventType = EventTypePrefix + "ticket.type_changed"
	EventTicketSLAPolicyChanged              EventType = EventTypePrefix + "ticket.sla_policy_changed"
	EventTicketScheduleChanged               EventType = EventTypePrefix + "ticket.schedule_changed"
	EventTicketOLAPolicyChanged              EventType = EventTypePrefix + "ticket.ola_policy_changed"
)

var eventTypes = newSet(
	EventTicketAgentAssignmentChanged,
	EventTicketAttachmentLinkedToComment,
	EventTicketAttachmentRedactedFromComment,
	EventTicketBrandChanged,
	EventTicketCommentAdded,
	EventTicketCommentMadePrivate,
	EventTicketCommentRedacted,
	EventTicketCustomFieldChanged,
	EventTicketCustomStatusChanged,
	EventTicketDescriptionChanged,
	EventTicketExternalIDChanged,
	EventTicketEmailCCsChanged,
	EventTicketFollowersChanged,
	EventTicketFormChanged,
	EventTicketGroupAssignmentChanged,
	EventTicketOrganizationChanged,
	EventTicketPriorityChanged,
	EventTicketProblemLinkChanged,
	EventTicketRequesterChanged,
	EventTicketStatusChanged,
	EventTicketSubjectChanged,
	EventTicketSubmitterChanged,
	EventTicketTagsChanged,
	EventTicketTaskDueAtChanged,
	EventTicketCreated,
	EventTicketMarkedAsSpam,
	EventTicketMerged,
	EventTicketPermanentlyDeleted,
	EventTicketSoftDeleted,
	EventTicketTypeChanged,
	EventTicketSLAPolicyChanged,
	EventTicketScheduleChanged,
	EventTicketOLAPolicyChanged,
)

// ParseEventType accepts only exact catalogue members.
func ParseEventType(s string) (EventType, error) {
	t := EventType(s)
	if _, ok := eventTypes[t]; !ok {
		return "", &UnknownEnumValueError{Domain: "event type", Value: s}
	}

	return t, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *EventType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, ParseEventType)
}

// DetailType returns the identifier without EventTypePrefix, e.g. "ticket.created".
func (t EventType) DetailType() string {
	return strings.TrimPrefix(string(t), EventTypePrefix)
}
