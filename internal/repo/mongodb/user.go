package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update models.UserUpdate) (*models.User, error)
	// Upsert creates the user if no account holds its email yet. Existing
	// accounts keep their password.
	Upsert(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, role models.Role) ([]*models.User, error)
	Count(ctx context.Context, role models.Role) (int64, error)
}

type userRepo struct {
	baseRepo[models.User]
}

func NewUserRepository(db *DB) UserRepository {
	return &userRepo{
		baseRepo: newBaseRepo[models.User](db),
	}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.Insert(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *userRepo) Update(ctx context.Context, id primitive.ObjectID, update models.UserUpdate) (*models.User, error) {
	set := userUpdateSet(update, time.Now())
	user, err := r.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (r *userRepo) Upsert(ctx context.Context, user *models.User) error {
	if user.Email == "" {
		return fmt.Errorf("user must have an email for upsert")
	}
	now := time.Now()

	filter := bson.M{"email": user.Email}
	update := bson.M{
		"$set": bson.M{
			"name":       user.Name,
			"role":       user.Role,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":           primitive.NewObjectID(),
			"password_hash": user.PasswordHash,
			"is_active":     true,
			"created_at":    now,
		},
	}

	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := r.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *userRepo) List(ctx context.Context, role models.Role) ([]*models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	users, err := r.Find(ctx, roleFilter(role), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *userRepo) Count(ctx context.Context, role models.Role) (int64, error) {
	n, err := r.baseRepo.Count(ctx, roleFilter(role))
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func roleFilter(role models.Role) bson.M {
	if role == "" {
		return bson.M{}
	}
	return bson.M{"role": role}
}

func userUpdateSet(u models.UserUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Email != nil {
		set["email"] = *u.Email
	}
	if u.Role != nil {
		set["role"] = *u.Role
	}
	if u.Phone != nil {
		set["phone"] = *u.Phone
	}
	if u.Address != nil {
		set["address"] = *u.Address
	}
	if u.IsActive != nil {
		set["is_active"] = *u.IsActive
	}
	return set
}
