package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryTechnical Category = "technical"
	CategoryBilling   Category = "billing"
	CategoryService   Category = "service"
	CategoryOther     Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBilling, CategoryService, CategoryOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

var Statuses = []Status{StatusPending, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

type Attachment struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Filename    string             `bson:"filename" json:"filename"`
	Path        string             `bson:"path" json:"path"`
	ContentType string             `bson:"content_type,omitempty" json:"contentType,omitempty"`
	Size        int64              `bson:"size" json:"size"`
	UploadedAt  time.Time          `bson:"uploaded_at" json:"uploadedAt"`
}

type Complaint struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title         string              `bson:"title" json:"title"`
	Description   string              `bson:"description" json:"description"`
	Category      Category            `bson:"category" json:"category"`
	Priority      Priority            `bson:"priority" json:"priority"`
	Status        Status              `bson:"status" json:"status"`
	Customer      primitive.ObjectID  `bson:"customer" json:"customer"`
	AssignedAgent *primitive.ObjectID `bson:"assigned_agent,omitempty" json:"assignedAgent,omitempty"`
	AssignedBy    *primitive.ObjectID `bson:"assigned_by,omitempty" json:"assignedBy,omitempty"`
	AssignedAt    *time.Time          `bson:"assigned_at,omitempty" json:"assignedAt,omitempty"`
	ResolvedAt    *time.Time          `bson:"resolved_at,omitempty" json:"resolvedAt,omitempty"`
	Resolution    string              `bson:"resolution,omitempty" json:"resolution,omitempty"`
	Attachments   []Attachment        `bson:"attachments" json:"attachments"`
	CreatedAt     time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updatedAt"`
}

// IsAssignedTo reports whether userID is the complaint's assigned agent.
func (c *Complaint) IsAssignedTo(userID primitive.ObjectID) bool {
	return c.AssignedAgent != nil && *c.AssignedAgent == userID
}

// IsParticipant reports whether userID is the owning customer or the assigned agent.
func (c *Complaint) IsParticipant(userID primitive.ObjectID) bool {
	return c.Customer == userID || c.IsAssignedTo(userID)
}

// Counterpart returns the other participant of the thread for userID.
func (c *Complaint) Counterpart(userID primitive.ObjectID) (primitive.ObjectID, bool) {
	switch {
	case c.Customer == userID && c.AssignedAgent != nil:
		return *c.AssignedAgent, true
	case c.IsAssignedTo(userID):
		return c.Customer, true
	}
	return primitive.NilObjectID, false
}

// ComplaintView is a complaint with its user references populated.
type ComplaintView struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Category      Category           `bson:"category" json:"category"`
	Priority      Priority           `bson:"priority" json:"priority"`
	Status        Status             `bson:"status" json:"status"`
	Customer      *UserSummary       `bson:"customer" json:"customer"`
	AssignedAgent *UserSummary       `bson:"assigned_agent" json:"assignedAgent"`
	AssignedBy    *UserSummary       `bson:"assigned_by" json:"assignedBy"`
	AssignedAt    *time.Time         `bson:"assigned_at,omitempty" json:"assignedAt,omitempty"`
	ResolvedAt    *time.Time         `bson:"resolved_at,omitempty" json:"resolvedAt,omitempty"`
	Resolution    string             `bson:"resolution,omitempty" json:"resolution,omitempty"`
	Attachments   []Attachment       `bson:"attachments" json:"attachments"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ComplaintFilter selects complaints; zero fields are ignored.
type ComplaintFilter struct {
	Customer      *primitive.ObjectID
	AssignedAgent *primitive.ObjectID
	Status        Status
	Unassigned    bool
}

// Assignment is written by Assign and BulkAssign.
type Assignment struct {
	Agent      primitive.ObjectID
	AssignedBy primitive.ObjectID
	AssignedAt time.Time
}

// StatusChange is written by UpdateStatus. ResolvedAt is set only on entry to resolved.
type StatusChange struct {
	Status     Status
	Resolution *string
	ResolvedAt *time.Time
}

type GroupCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

func (Complaint) CollectionName() string {
	return "complaints"
}
