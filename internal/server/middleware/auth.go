package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
)

const userContextKey = "user"

// TokenValidator resolves a bearer token to the acting user.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

func JWTAuth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return models.ErrUnauthorized
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				return models.ErrUnauthorized
			}

			ctx := c.Request().Context()
			user, err := validator.ValidateToken(ctx, tokenString)
			if err != nil {
				return err
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// RequireCapability gates a route on the acting user's role. It must run after JWTAuth.
func RequireCapability(op models.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return models.ErrUnauthorized
			}
			if !user.Role.Can(op) {
				return models.ErrForbidden
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil on public routes.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// GetUserID returns the hex id of the authenticated user, if any.
func GetUserID(c echo.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.ID.Hex()
	}
	return ""
}
