package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type errorResponse struct {
	Message string `json:"message"`
}

var httpStatusByCode = map[codes.Code]int{
	codes.InvalidArgument:   http.StatusBadRequest,
	codes.Unauthenticated:   http.StatusUnauthorized,
	codes.PermissionDenied:  http.StatusForbidden,
	codes.NotFound:          http.StatusNotFound,
	codes.AlreadyExists:     http.StatusConflict,
	codes.ResourceExhausted: http.StatusTooManyRequests,
	codes.Unavailable:       http.StatusServiceUnavailable,
}

func errorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		code, message := httpError(err)
		if code == http.StatusNotFound && errors.Is(err, echo.ErrNotFound) {
			message = "route not found"
		}
		if code >= http.StatusInternalServerError {
			log.Errorw(c.Request().Context(), "request failed", "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, errorResponse{Message: message})
		}
		if err != nil {
			log.Errorw(c.Request().Context(), "could not write error response", "code", code, "error", err)
		}
	}
}

// httpError maps an error to a response status and message.
// Unexpected errors degrade to 500 with the underlying message.
func httpError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	var se interface{ GRPCStatus() *status.Status }
	if errors.As(err, &se) {
		st := se.GRPCStatus()
		if code, ok := httpStatusByCode[st.Code()]; ok {
			return code, st.Message()
		}
		return http.StatusInternalServerError, st.Message()
	}

	if errors.Is(err, context.Canceled) {
		return 499, "request canceled"
	}
	return http.StatusInternalServerError, err.Error()
}
