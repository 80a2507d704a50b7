package usecase

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"github.com/nguyentranbao-ct/complaint-registry/internal/repo/mongodb"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed default_users.yaml
var defaultUsersData []byte

type DefaultUser struct {
	Name  string      `yaml:"name"`
	Email string      `yaml:"email"`
	Role  models.Role `yaml:"role"`
}

func loadDefaultUsers(data []byte) ([]DefaultUser, error) {
	var users []DefaultUser
	if err := yaml.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal default users: %w", err)
	}
	for _, u := range users {
		if u.Email == "" || !u.Role.Valid() {
			return nil, fmt.Errorf("invalid default user %q with role %q", u.Email, u.Role)
		}
	}
	return users, nil
}

// InitializeUsers seeds the staff accounts listed in default_users.yaml.
func InitializeUsers(conf *config.Config, userRepo mongodb.UserRepository) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if conf.Seed.Password == "" {
		log.Infow(ctx, "SEED_PASSWORD not set, skipping default users")
		return nil
	}

	defaultUsers, err := loadDefaultUsers(defaultUsersData)
	if err != nil {
		return err
	}
	log.Debugw(ctx, "Loaded users from YAML", "count", len(defaultUsers))

	hash, err := bcrypt.GenerateFromPassword([]byte(conf.Seed.Password), conf.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	for _, defaultUser := range defaultUsers {
		user := &models.User{
			Name:         defaultUser.Name,
			Email:        normalizeEmail(defaultUser.Email),
			Role:         defaultUser.Role,
			PasswordHash: string(hash),
		}
		if err := userRepo.Upsert(ctx, user); err != nil {
			return fmt.Errorf("failed to upsert default user '%s': %w", defaultUser.Email, err)
		}
		log.Infow(ctx, "Ensured default user", "email", user.Email, "role", user.Role)
	}
	return nil
}
