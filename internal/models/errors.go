package models

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound           = status.Errorf(codes.NotFound, "not found")
	ErrUnauthorized       = status.Errorf(codes.Unauthenticated, "invalid token")
	ErrInvalidCredentials = status.Errorf(codes.Unauthenticated, "invalid credentials")
	ErrAccountInactive    = status.Errorf(codes.Unauthenticated, "account is deactivated")
	ErrForbidden          = status.Errorf(codes.PermissionDenied, "access denied")
	ErrConflict           = status.Errorf(codes.AlreadyExists, "user already exists with this email")
	ErrStorageDisabled    = status.Errorf(codes.Unavailable, "attachment storage is not configured")
	ErrRateLimited        = status.Errorf(codes.ResourceExhausted, "too many requests, please try again later")
)

func NotFound(msg string) error {
	return status.Error(codes.NotFound, msg)
}

func BadRequest(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

func Forbidden(msg string) error {
	return status.Error(codes.PermissionDenied, msg)
}

// IsCode reports whether err carries the given status code.
func IsCode(err error, code codes.Code) bool {
	return err != nil && status.Code(err) == code
}
