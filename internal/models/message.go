package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeFile  MessageType = "file"
	MessageTypeImage MessageType = "image"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeText, MessageTypeFile, MessageTypeImage:
		return true
	}
	return false
}

type Message struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Complaint   primitive.ObjectID `bson:"complaint" json:"complaint"`
	Sender      primitive.ObjectID `bson:"sender" json:"sender"`
	Receiver    primitive.ObjectID `bson:"receiver" json:"receiver"`
	Content     string             `bson:"content" json:"content"`
	MessageType MessageType        `bson:"message_type" json:"messageType"`
	FileURL     string             `bson:"file_url,omitempty" json:"fileUrl,omitempty"`
	IsRead      bool               `bson:"is_read" json:"isRead"`
	ReadAt      *time.Time         `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

type ComplaintRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
}

// MessageView is a message with sender, receiver and complaint populated.
type MessageView struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Complaint   *ComplaintRef      `bson:"complaint" json:"complaint"`
	Sender      *UserSummary       `bson:"sender" json:"sender"`
	Receiver    *UserSummary       `bson:"receiver" json:"receiver"`
	Content     string             `bson:"content" json:"content"`
	MessageType MessageType        `bson:"message_type" json:"messageType"`
	FileURL     string             `bson:"file_url,omitempty" json:"fileUrl,omitempty"`
	IsRead      bool               `bson:"is_read" json:"isRead"`
	ReadAt      *time.Time         `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

func (Message) CollectionName() string {
	return "messages"
}
