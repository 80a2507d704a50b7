package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventName string

const (
	EventComplaintCreated       EventName = "complaint.created"
	EventComplaintStatusChanged EventName = "complaint.status_changed"
	EventComplaintAssigned      EventName = "complaint.assigned"
	EventComplaintDeleted       EventName = "complaint.deleted"
	EventMessageSent            EventName = "message.sent"
)

// Event is published to the event topic after a successful mutation.
// Key groups events of the same complaint on one partition.
type Event struct {
	Name       EventName          `json:"name"`
	Key        string             `json:"key"`
	ActorID    primitive.ObjectID `json:"actorId"`
	OccurredAt time.Time          `json:"occurredAt"`
	Data       any                `json:"data,omitempty"`
}
