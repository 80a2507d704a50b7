package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	GetView(ctx context.Context, id primitive.ObjectID) (*models.MessageView, error)
	// ListByComplaint returns the thread oldest first.
	ListByComplaint(ctx context.Context, complaintID primitive.ObjectID) ([]*models.MessageView, error)
	// Inbox returns the most recent messages addressed to receiverID.
	Inbox(ctx context.Context, receiverID primitive.ObjectID, limit int64) ([]*models.MessageView, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) error
	CountUnread(ctx context.Context, receiverID primitive.ObjectID) (int64, error)
	DeleteByComplaint(ctx context.Context, complaintID primitive.ObjectID) (int64, error)
}

type messageRepo struct {
	baseRepo[models.Message]
}

func NewMessageRepository(db *DB) MessageRepository {
	return &messageRepo{
		baseRepo: newBaseRepo[models.Message](db),
	}
}

func (r *messageRepo) Create(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()

	if _, err := r.Insert(ctx, message); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	message, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return message, nil
}

func (r *messageRepo) GetView(ctx context.Context, id primitive.ObjectID) (*models.MessageView, error) {
	views, err := aggregate[models.MessageView](ctx, r.coll, messageViewPipeline(bson.M{"_id": id}, 1, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to get message view: %w", err)
	}
	if len(views) == 0 {
		return nil, models.ErrNotFound
	}
	return views[0], nil
}

func (r *messageRepo) ListByComplaint(ctx context.Context, complaintID primitive.ObjectID) ([]*models.MessageView, error) {
	views, err := aggregate[models.MessageView](ctx, r.coll, messageViewPipeline(bson.M{"complaint": complaintID}, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list complaint messages: %w", err)
	}
	return views, nil
}

func (r *messageRepo) Inbox(ctx context.Context, receiverID primitive.ObjectID, limit int64) ([]*models.MessageView, error) {
	views, err := aggregate[models.MessageView](ctx, r.coll, messageViewPipeline(bson.M{"receiver": receiverID}, -1, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	return views, nil
}

func (r *messageRepo) MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": at}}
	if err := r.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

func (r *messageRepo) CountUnread(ctx context.Context, receiverID primitive.ObjectID) (int64, error) {
	n, err := r.Count(ctx, bson.M{"receiver": receiverID, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}

func (r *messageRepo) DeleteByComplaint(ctx context.Context, complaintID primitive.ObjectID) (int64, error) {
	n, err := r.DeleteMany(ctx, bson.M{"complaint": complaintID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete complaint messages: %w", err)
	}
	return n, nil
}

// messageViewPipeline sorts by creation time in the given direction,
// 1 for oldest first and -1 for newest first.
func messageViewPipeline(match bson.M, direction int, limit int64) []bson.M {
	head := []bson.M{
		{"$match": match},
		{"$sort": bson.D{{Key: "created_at", Value: direction}, {Key: "_id", Value: direction}}},
	}
	if limit > 0 {
		head = append(head, bson.M{"$limit": limit})
	}
	return pipeline(
		head,
		lookupUser("sender"),
		lookupUser("receiver"),
		lookupOne("complaint", "complaints", bson.M{"title": 1}),
	)
}
