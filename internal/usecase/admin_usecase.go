package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"github.com/nguyentranbao-ct/complaint-registry/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/complaint-registry/pkg/sanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type AdminUsecase interface {
	// ListUsers returns users newest first. An empty role lists everyone.
	ListUsers(ctx context.Context, role models.Role) ([]*models.User, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateUser(ctx context.Context, actor *models.User, id primitive.ObjectID, update models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, actor *models.User, id primitive.ObjectID) error
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

type adminUsecase struct {
	userRepo      mongodb.UserRepository
	complaintRepo mongodb.ComplaintRepository
}

func NewAdminUsecase(userRepo mongodb.UserRepository, complaintRepo mongodb.ComplaintRepository) AdminUsecase {
	return &adminUsecase{
		userRepo:      userRepo,
		complaintRepo: complaintRepo,
	}
}

func (uc *adminUsecase) ListUsers(ctx context.Context, role models.Role) ([]*models.User, error) {
	if role != "" && !role.Valid() {
		return nil, models.BadRequest("invalid role")
	}
	return uc.userRepo.List(ctx, role)
}

func (uc *adminUsecase) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "user not found")
	}
	return user, nil
}

func (uc *adminUsecase) UpdateUser(ctx context.Context, actor *models.User, id primitive.ObjectID, update models.UserUpdate) (*models.User, error) {
	if update.Role != nil && !update.Role.Valid() {
		return nil, models.BadRequest("invalid role")
	}
	update.Name = sanitize.Ptr(update.Name)
	update.Phone = sanitize.Ptr(update.Phone)
	update.Address = sanitize.Ptr(update.Address)
	if update.Name != nil && *update.Name == "" {
		return nil, models.BadRequest("name cannot be empty")
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		update.Email = &email
	}

	user, err := uc.userRepo.Update(ctx, id, update)
	if err != nil {
		return nil, notFoundAs(err, "user not found")
	}
	log.Infow(ctx, "user updated by admin", "user_id", id.Hex(), "admin_id", actor.ID.Hex())
	return user, nil
}

// DeleteUser removes the account only. Complaints and messages keep their
// references and populate them as null.
func (uc *adminUsecase) DeleteUser(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	if id == actor.ID {
		return models.BadRequest("admins cannot delete their own account")
	}
	if err := uc.userRepo.Delete(ctx, id); err != nil {
		return notFoundAs(err, "user not found")
	}
	log.Infow(ctx, "user deleted by admin", "user_id", id.Hex(), "admin_id", actor.ID.Hex())
	return nil
}

func (uc *adminUsecase) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var (
		dashboard models.Dashboard
		stats     = &dashboard.Statistics
	)

	g, ctx := errgroup.WithContext(ctx)
	countUsers := func(dst *int64, role models.Role) {
		g.Go(func() error {
			n, err := uc.userRepo.Count(ctx, role)
			*dst = n
			return err
		})
	}
	countComplaints := func(dst *int64, status models.Status) {
		g.Go(func() error {
			n, err := uc.complaintRepo.Count(ctx, models.ComplaintFilter{Status: status})
			*dst = n
			return err
		})
	}

	countUsers(&stats.TotalUsers, "")
	countUsers(&stats.TotalCustomers, models.RoleCustomer)
	countUsers(&stats.TotalAgents, models.RoleAgent)
	countUsers(&stats.TotalAdmins, models.RoleAdmin)
	countComplaints(&stats.TotalComplaints, "")
	countComplaints(&stats.PendingComplaints, models.StatusPending)
	countComplaints(&stats.AssignedComplaints, models.StatusAssigned)
	countComplaints(&stats.InProgressComplaints, models.StatusInProgress)
	countComplaints(&stats.ResolvedComplaints, models.StatusResolved)
	countComplaints(&stats.ClosedComplaints, models.StatusClosed)

	g.Go(func() error {
		recent, err := uc.complaintRepo.ListViews(ctx, models.ComplaintFilter{}, recentComplaintsLimit)
		dashboard.RecentComplaints = recent
		return err
	})
	g.Go(func() error {
		groups, err := uc.complaintRepo.CountBy(ctx, "category")
		dashboard.ComplaintsByCategory = groups
		return err
	})
	g.Go(func() error {
		groups, err := uc.complaintRepo.CountBy(ctx, "status")
		dashboard.ComplaintsByStatus = groups
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return &dashboard, nil
}
