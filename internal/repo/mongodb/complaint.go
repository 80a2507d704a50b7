package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error)
	GetView(ctx context.Context, id primitive.ObjectID) (*models.ComplaintView, error)
	// ListViews returns matching complaints newest first. A limit of zero
	// returns everything.
	ListViews(ctx context.Context, filter models.ComplaintFilter, limit int64) ([]*models.ComplaintView, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, change models.StatusChange) error
	// Assign writes the assignment to every listed complaint and returns the
	// number of documents modified.
	Assign(ctx context.Context, ids []primitive.ObjectID, assignment models.Assignment) (int64, error)
	AddAttachment(ctx context.Context, id primitive.ObjectID, attachment models.Attachment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context, filter models.ComplaintFilter) (int64, error)
	// CountBy groups all complaints by field and counts each group.
	CountBy(ctx context.Context, field string) ([]models.GroupCount, error)
}

type complaintRepo struct {
	baseRepo[models.Complaint]
}

func NewComplaintRepository(db *DB) ComplaintRepository {
	return &complaintRepo{
		baseRepo: newBaseRepo[models.Complaint](db),
	}
}

func (r *complaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	now := time.Now()
	complaint.ID = primitive.NewObjectID()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	if complaint.Attachments == nil {
		complaint.Attachments = []models.Attachment{}
	}

	if _, err := r.Insert(ctx, complaint); err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

func (r *complaintRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	complaint, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return complaint, nil
}

func (r *complaintRepo) GetView(ctx context.Context, id primitive.ObjectID) (*models.ComplaintView, error) {
	views, err := aggregate[models.ComplaintView](ctx, r.coll, complaintViewPipeline(bson.M{"_id": id}, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint view: %w", err)
	}
	if len(views) == 0 {
		return nil, models.ErrNotFound
	}
	return views[0], nil
}

func (r *complaintRepo) ListViews(ctx context.Context, filter models.ComplaintFilter, limit int64) ([]*models.ComplaintView, error) {
	views, err := aggregate[models.ComplaintView](ctx, r.coll, complaintViewPipeline(complaintFilter(filter), limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return views, nil
}

func (r *complaintRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, change models.StatusChange) error {
	if err := r.UpdateByID(ctx, id, bson.M{"$set": statusChangeSet(change, time.Now())}); err != nil {
		return fmt.Errorf("failed to update complaint status: %w", err)
	}
	return nil
}

func (r *complaintRepo) Assign(ctx context.Context, ids []primitive.ObjectID, assignment models.Assignment) (int64, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}
	update := bson.M{
		"$set": bson.M{
			"assigned_agent": assignment.Agent,
			"assigned_by":    assignment.AssignedBy,
			"assigned_at":    assignment.AssignedAt,
			"status":         models.StatusAssigned,
			"updated_at":     assignment.AssignedAt,
		},
	}
	n, err := r.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to assign complaints: %w", err)
	}
	return n, nil
}

func (r *complaintRepo) AddAttachment(ctx context.Context, id primitive.ObjectID, attachment models.Attachment) error {
	update := bson.M{
		"$push": bson.M{"attachments": attachment},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	if err := r.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("failed to add attachment: %w", err)
	}
	return nil
}

func (r *complaintRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := r.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	return nil
}

func (r *complaintRepo) Count(ctx context.Context, filter models.ComplaintFilter) (int64, error) {
	n, err := r.baseRepo.Count(ctx, complaintFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count complaints: %w", err)
	}
	return n, nil
}

func (r *complaintRepo) CountBy(ctx context.Context, field string) ([]models.GroupCount, error) {
	groups, err := aggregate[models.GroupCount](ctx, r.coll, groupCountPipeline(field))
	if err != nil {
		return nil, fmt.Errorf("failed to count complaints by %s: %w", field, err)
	}
	out := make([]models.GroupCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	return out, nil
}

func complaintFilter(f models.ComplaintFilter) bson.M {
	filter := bson.M{}
	if f.Customer != nil {
		filter["customer"] = *f.Customer
	}
	if f.AssignedAgent != nil {
		filter["assigned_agent"] = *f.AssignedAgent
	} else if f.Unassigned {
		// matches both a missing and a null reference
		filter["assigned_agent"] = nil
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

func complaintViewPipeline(match bson.M, limit int64) []bson.M {
	head := []bson.M{
		{"$match": match},
		{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	}
	if limit > 0 {
		head = append(head, bson.M{"$limit": limit})
	}
	return pipeline(
		head,
		lookupUser("customer"),
		lookupUser("assigned_agent"),
		lookupUser("assigned_by"),
	)
}

func statusChangeSet(change models.StatusChange, now time.Time) bson.M {
	set := bson.M{
		"status":     change.Status,
		"updated_at": now,
	}
	if change.Resolution != nil {
		set["resolution"] = *change.Resolution
	}
	if change.ResolvedAt != nil {
		set["resolved_at"] = *change.ResolvedAt
	}
	return set
}

func groupCountPipeline(field string) []bson.M {
	return []bson.M{
		{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"_id": 1}},
	}
}
