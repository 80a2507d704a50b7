package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/complaint-registry/internal/kafka"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"github.com/nguyentranbao-ct/complaint-registry/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/complaint-registry/pkg/sanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const inboxLimit = 50

type MessageUsecase interface {
	Send(ctx context.Context, actor *models.User, req models.SendMessageRequest) (*models.MessageView, error)
	// ListForComplaint returns the complaint thread oldest first.
	ListForComplaint(ctx context.Context, actor *models.User, complaintID primitive.ObjectID) ([]*models.MessageView, error)
	MarkRead(ctx context.Context, actor *models.User, messageID primitive.ObjectID) (*models.MessageView, error)
	UnreadCount(ctx context.Context, actor *models.User) (int64, error)
	Inbox(ctx context.Context, actor *models.User) ([]*models.MessageView, error)
}

type messageUsecase struct {
	messageRepo   mongodb.MessageRepository
	complaintRepo mongodb.ComplaintRepository
	publisher     kafka.Publisher
}

func NewMessageUsecase(
	messageRepo mongodb.MessageRepository,
	complaintRepo mongodb.ComplaintRepository,
	publisher kafka.Publisher,
) MessageUsecase {
	return &messageUsecase{
		messageRepo:   messageRepo,
		complaintRepo: complaintRepo,
		publisher:     publisher,
	}
}

func (uc *messageUsecase) Send(ctx context.Context, actor *models.User, req models.SendMessageRequest) (*models.MessageView, error) {
	complaintID, err := models.ParseID(req.ComplaintID)
	if err != nil {
		return nil, err
	}
	complaint, err := uc.complaintRepo.GetByID(ctx, complaintID)
	if err != nil {
		return nil, notFoundAs(err, "complaint not found")
	}
	if !canActOnComplaint(actor, complaint) {
		return nil, models.Forbidden("only participants of the complaint can send messages")
	}

	receiver, err := resolveReceiver(actor, complaint, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if !messageType.Valid() {
		return nil, models.BadRequest("invalid message type")
	}
	if messageType != models.MessageTypeText && req.FileURL == "" {
		return nil, models.BadRequest("fileUrl is required for file and image messages")
	}
	content := sanitize.Text(req.Content)
	if content == "" {
		return nil, models.BadRequest("content is required")
	}

	message := &models.Message{
		Complaint:   complaintID,
		Sender:      actor.ID,
		Receiver:    receiver,
		Content:     content,
		MessageType: messageType,
		FileURL:     req.FileURL,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	publish(ctx, uc.publisher, models.EventMessageSent, complaintID.Hex(), actor.ID, map[string]any{
		"message":  message.ID,
		"receiver": receiver,
	})
	return uc.view(ctx, message.ID)
}

func (uc *messageUsecase) ListForComplaint(ctx context.Context, actor *models.User, complaintID primitive.ObjectID) ([]*models.MessageView, error) {
	complaint, err := uc.complaintRepo.GetByID(ctx, complaintID)
	if err != nil {
		return nil, notFoundAs(err, "complaint not found")
	}
	if !canViewComplaint(actor, complaint) {
		return nil, models.ErrForbidden
	}
	return uc.messageRepo.ListByComplaint(ctx, complaintID)
}

func (uc *messageUsecase) MarkRead(ctx context.Context, actor *models.User, messageID primitive.ObjectID) (*models.MessageView, error) {
	message, err := uc.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, notFoundAs(err, "message not found")
	}
	if message.Receiver != actor.ID {
		return nil, models.Forbidden("only the receiver can mark a message as read")
	}
	if err := uc.messageRepo.MarkRead(ctx, messageID, time.Now()); err != nil {
		return nil, notFoundAs(err, "message not found")
	}
	return uc.view(ctx, messageID)
}

func (uc *messageUsecase) UnreadCount(ctx context.Context, actor *models.User) (int64, error) {
	return uc.messageRepo.CountUnread(ctx, actor.ID)
}

func (uc *messageUsecase) Inbox(ctx context.Context, actor *models.User) ([]*models.MessageView, error) {
	return uc.messageRepo.Inbox(ctx, actor.ID, inboxLimit)
}

func (uc *messageUsecase) view(ctx context.Context, id primitive.ObjectID) (*models.MessageView, error) {
	view, err := uc.messageRepo.GetView(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "message not found")
	}
	return view, nil
}

// resolveReceiver picks the other participant of the thread. An explicit
// receiver must be a participant and cannot be the sender.
func resolveReceiver(actor *models.User, complaint *models.Complaint, receiverHex string) (primitive.ObjectID, error) {
	if receiverHex == "" {
		receiver, ok := complaint.Counterpart(actor.ID)
		if !ok {
			return primitive.NilObjectID, models.BadRequest("receiverId is required: the complaint has no other participant yet")
		}
		return receiver, nil
	}

	receiver, err := models.ParseID(receiverHex)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if receiver == actor.ID || !complaint.IsParticipant(receiver) {
		return primitive.NilObjectID, models.BadRequest("receiver must be the other participant of the complaint")
	}
	return receiver, nil
}
