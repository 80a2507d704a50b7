package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"github.com/nguyentranbao-ct/complaint-registry/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/complaint-registry/pkg/sanitize"
	"github.com/nguyentranbao-ct/complaint-registry/pkg/util"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	// ValidateToken resolves the active user a bearer token was issued for.
	ValidateToken(ctx context.Context, token string) (*models.User, error)
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req models.ProfileUpdateRequest) (*models.User, error)
}

type authUsecase struct {
	userRepo    mongodb.UserRepository
	jwtSecret   []byte
	issuer      string
	signupRoles []models.Role
	bcryptCost  int
	now         func() time.Time
}

func NewAuthUsecase(conf *config.Config, userRepo mongodb.UserRepository) AuthUsecase {
	roles := util.ConvertList(conf.Auth.SignupRoles, func(r string) models.Role {
		return models.Role(strings.TrimSpace(r))
	})
	return &authUsecase{
		userRepo:    userRepo,
		jwtSecret:   []byte(conf.Auth.JWTSecret),
		issuer:      conf.Auth.Issuer,
		signupRoles: roles,
		bcryptCost:  conf.Auth.BcryptCost,
		now:         time.Now,
	}
}

func (uc *authUsecase) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.Valid() || !util.SliceIncludes(uc.signupRoles, role) {
		return nil, models.BadRequest(fmt.Sprintf("role %q cannot be chosen at registration", role))
	}

	_, err := uc.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, models.ErrConflict
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         sanitize.Text(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        sanitize.Text(req.Phone),
		Address:      sanitize.Text(req.Address),
		IsActive:     true,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	log.Infow(ctx, "registered user", "user_id", user.ID.Hex(), "role", user.Role)

	return uc.respond("User registered successfully", user)
}

func (uc *authUsecase) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.IsActive {
		log.Warnw(ctx, "login attempt on inactive account", "user_id", user.ID.Hex())
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return uc.respond("Login successful", user)
}

func (uc *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := uc.parseJWT(tokenString)
	if err != nil {
		log.Debugw(ctx, "rejected token", "error", err)
		return nil, models.ErrUnauthorized
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}
	if !user.IsActive {
		return nil, models.ErrAccountInactive
	}
	return user, nil
}

func (uc *authUsecase) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NotFound("user not found")
	}
	return user, err
}

func (uc *authUsecase) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req models.ProfileUpdateRequest) (*models.User, error) {
	update := models.UserUpdate{
		Name:    sanitize.Ptr(req.Name),
		Phone:   sanitize.Ptr(req.Phone),
		Address: sanitize.Ptr(req.Address),
	}
	if update.Name != nil && *update.Name == "" {
		return nil, models.BadRequest("name cannot be empty")
	}

	user, err := uc.userRepo.Update(ctx, userID, update)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return user, nil
}

func (uc *authUsecase) respond(message string, user *models.User) (*models.AuthResponse, error) {
	token, expiresAt, err := uc.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}
	return &models.AuthResponse{
		Message:   message,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Profile(),
	}, nil
}

func (uc *authUsecase) generateJWT(user *models.User) (string, time.Time, error) {
	now := uc.now()
	expiresAt := now.Add(models.TokenTTL)

	claims := models.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			Issuer:    uc.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (uc *authUsecase) parseJWT(tokenString string) (*models.AuthClaims, error) {
	claims := &models.AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return uc.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(uc.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(uc.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
