package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/google/uuid"
	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/kafka"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"github.com/nguyentranbao-ct/complaint-registry/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/complaint-registry/internal/repo/storage"
	"github.com/nguyentranbao-ct/complaint-registry/pkg/sanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const recentComplaintsLimit = 10

type ComplaintUsecase interface {
	Create(ctx context.Context, actor *models.User, req models.CreateComplaintRequest) (*models.ComplaintView, error)
	// List returns the complaints visible to actor, newest first.
	List(ctx context.Context, actor *models.User) ([]*models.ComplaintView, error)
	Get(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.ComplaintView, error)
	UpdateStatus(ctx context.Context, actor *models.User, id primitive.ObjectID, status models.Status, resolution *string) (*models.ComplaintView, error)
	Assign(ctx context.Context, actor *models.User, id, agentID primitive.ObjectID) (*models.ComplaintView, error)
	BulkAssign(ctx context.Context, actor *models.User, ids []primitive.ObjectID, agentID primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) error
	ListUnassigned(ctx context.Context) ([]*models.ComplaintView, error)
	AddAttachment(ctx context.Context, actor *models.User, id primitive.ObjectID, upload AttachmentUpload) (*models.Attachment, error)
	AttachmentURL(ctx context.Context, actor *models.User, id, attachmentID primitive.ObjectID) (string, error)
}

type AttachmentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type complaintUsecase struct {
	complaintRepo mongodb.ComplaintRepository
	messageRepo   mongodb.MessageRepository
	userRepo      mongodb.UserRepository
	storage       storage.ObjectStorage
	publisher     kafka.Publisher
	maxUpload     int64
}

func NewComplaintUsecase(
	conf *config.Config,
	complaintRepo mongodb.ComplaintRepository,
	messageRepo mongodb.MessageRepository,
	userRepo mongodb.UserRepository,
	objectStorage storage.ObjectStorage,
	publisher kafka.Publisher,
) ComplaintUsecase {
	return &complaintUsecase{
		complaintRepo: complaintRepo,
		messageRepo:   messageRepo,
		userRepo:      userRepo,
		storage:       objectStorage,
		publisher:     publisher,
		maxUpload:     conf.Storage.MaxBytes,
	}
}

func (uc *complaintUsecase) Create(ctx context.Context, actor *models.User, req models.CreateComplaintRequest) (*models.ComplaintView, error) {
	title := sanitize.Text(req.Title)
	description := sanitize.Text(req.Description)
	if title == "" || description == "" {
		return nil, models.BadRequest("title and description are required")
	}
	if !req.Category.Valid() {
		return nil, models.BadRequest("invalid category")
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, models.BadRequest("invalid priority")
	}

	complaint := &models.Complaint{
		Title:       title,
		Description: description,
		Category:    req.Category,
		Priority:    priority,
		Status:      models.StatusPending,
		Customer:    actor.ID,
	}
	if err := uc.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}
	log.Infow(ctx, "complaint created", "complaint_id", complaint.ID.Hex(), "category", complaint.Category)

	publish(ctx, uc.publisher, models.EventComplaintCreated, complaint.ID.Hex(), actor.ID, complaint)
	return uc.view(ctx, complaint.ID)
}

func (uc *complaintUsecase) List(ctx context.Context, actor *models.User) ([]*models.ComplaintView, error) {
	return uc.complaintRepo.ListViews(ctx, complaintScope(actor), 0)
}

func (uc *complaintUsecase) Get(ctx context.Context, actor *models.User, id primitive.ObjectID) (*models.ComplaintView, error) {
	complaint, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewComplaint(actor, complaint) {
		return nil, models.ErrForbidden
	}
	return uc.view(ctx, id)
}

func (uc *complaintUsecase) UpdateStatus(ctx context.Context, actor *models.User, id primitive.ObjectID, status models.Status, resolution *string) (*models.ComplaintView, error) {
	if !status.Valid() {
		return nil, models.BadRequest("invalid status")
	}
	complaint, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && !complaint.IsAssignedTo(actor.ID) {
		return nil, models.Forbidden("you are not assigned to this complaint")
	}

	change := models.StatusChange{Status: status}
	if status == models.StatusResolved {
		now := time.Now()
		change.ResolvedAt = &now
		change.Resolution = sanitize.Ptr(resolution)
	}
	if err := uc.complaintRepo.UpdateStatus(ctx, id, change); err != nil {
		return nil, notFoundAs(err, "complaint not found")
	}

	publish(ctx, uc.publisher, models.EventComplaintStatusChanged, id.Hex(), actor.ID, map[string]any{
		"from": complaint.Status,
		"to":   status,
	})
	return uc.view(ctx, id)
}

func (uc *complaintUsecase) Assign(ctx context.Context, actor *models.User, id, agentID primitive.ObjectID) (*models.ComplaintView, error) {
	if err := uc.validateAgent(ctx, agentID); err != nil {
		return nil, err
	}
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}

	assignment := models.Assignment{Agent: agentID, AssignedBy: actor.ID, AssignedAt: time.Now()}
	if _, err := uc.complaintRepo.Assign(ctx, []primitive.ObjectID{id}, assignment); err != nil {
		return nil, fmt.Errorf("failed to assign complaint: %w", err)
	}

	publish(ctx, uc.publisher, models.EventComplaintAssigned, id.Hex(), actor.ID, map[string]any{
		"agent": agentID,
	})
	return uc.view(ctx, id)
}

func (uc *complaintUsecase) BulkAssign(ctx context.Context, actor *models.User, ids []primitive.ObjectID, agentID primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, models.BadRequest("complaintIds must not be empty")
	}
	if err := uc.validateAgent(ctx, agentID); err != nil {
		return 0, err
	}

	assignment := models.Assignment{Agent: agentID, AssignedBy: actor.ID, AssignedAt: time.Now()}
	modified, err := uc.complaintRepo.Assign(ctx, ids, assignment)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk assign complaints: %w", err)
	}
	log.Infow(ctx, "bulk assigned complaints", "agent_id", agentID.Hex(), "requested", len(ids), "modified", modified)

	for _, id := range ids {
		publish(ctx, uc.publisher, models.EventComplaintAssigned, id.Hex(), actor.ID, map[string]any{
			"agent": agentID,
		})
	}
	return modified, nil
}

func (uc *complaintUsecase) Delete(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	if err := uc.complaintRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, "complaint not found")
	}
	removed, err := uc.messageRepo.DeleteByComplaint(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete complaint messages: %w", err)
	}
	log.Infow(ctx, "complaint deleted", "complaint_id", id.Hex(), "messages_removed", removed)

	publish(ctx, uc.publisher, models.EventComplaintDeleted, id.Hex(), actor.ID, nil)
	return nil
}

func (uc *complaintUsecase) ListUnassigned(ctx context.Context) ([]*models.ComplaintView, error) {
	filter := models.ComplaintFilter{Status: models.StatusPending, Unassigned: true}
	return uc.complaintRepo.ListViews(ctx, filter, 0)
}

func (uc *complaintUsecase) AddAttachment(ctx context.Context, actor *models.User, id primitive.ObjectID, upload AttachmentUpload) (*models.Attachment, error) {
	if !uc.storage.Enabled() {
		return nil, models.ErrStorageDisabled
	}
	if upload.Size <= 0 {
		return nil, models.BadRequest("file is empty")
	}
	if uc.maxUpload > 0 && upload.Size > uc.maxUpload {
		return nil, models.BadRequest(fmt.Sprintf("file exceeds %d bytes", uc.maxUpload))
	}

	complaint, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canActOnComplaint(actor, complaint) {
		return nil, models.ErrForbidden
	}

	filename := attachmentFilename(upload.Filename)
	attachment := models.Attachment{
		ID:          primitive.NewObjectID(),
		Filename:    filename,
		Path:        path.Join("complaints", id.Hex(), uuid.NewString()+"-"+filename),
		ContentType: upload.ContentType,
		Size:        upload.Size,
		UploadedAt:  time.Now(),
	}
	if err := uc.storage.Put(ctx, attachment.Path, upload.Body, upload.Size, upload.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}
	if err := uc.complaintRepo.AddAttachment(ctx, id, attachment); err != nil {
		return nil, notFoundAs(err, "complaint not found")
	}
	return &attachment, nil
}

func (uc *complaintUsecase) AttachmentURL(ctx context.Context, actor *models.User, id, attachmentID primitive.ObjectID) (string, error) {
	complaint, err := uc.load(ctx, id)
	if err != nil {
		return "", err
	}
	if !canViewComplaint(actor, complaint) {
		return "", models.ErrForbidden
	}
	for _, a := range complaint.Attachments {
		if a.ID == attachmentID {
			return uc.storage.PresignGet(ctx, a.Path, a.Filename)
		}
	}
	return "", models.NotFound("attachment not found")
}

func (uc *complaintUsecase) load(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	complaint, err := uc.complaintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "complaint not found")
	}
	return complaint, nil
}

func (uc *complaintUsecase) view(ctx context.Context, id primitive.ObjectID) (*models.ComplaintView, error) {
	view, err := uc.complaintRepo.GetView(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "complaint not found")
	}
	return view, nil
}

func (uc *complaintUsecase) validateAgent(ctx context.Context, agentID primitive.ObjectID) error {
	agent, err := uc.userRepo.GetByID(ctx, agentID)
	if errors.Is(err, models.ErrNotFound) {
		return models.BadRequest("invalid agent id")
	}
	if err != nil {
		return fmt.Errorf("failed to load agent: %w", err)
	}
	if agent.Role != models.RoleAgent {
		return models.BadRequest("invalid agent id")
	}
	return nil
}

// attachmentFilename keeps the base name only. Object keys stay under the complaint prefix.
func attachmentFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "attachment"
	}
	return name
}

// notFoundAs replaces a bare not found with a message naming the entity.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NotFound(msg)
	}
	return err
}
