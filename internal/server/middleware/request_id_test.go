package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	echoRequestID := func(c echo.Context) error {
		reqID, ok := c.Get(XRequestID).(string)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "request ID not found in context")
		}
		assert.Equal(t, reqID, GetRequestIDFromContext(c.Request().Context()))
		assert.Equal(t, reqID, GetRequestIDFromEchoContext(c))
		return c.String(http.StatusOK, reqID)
	}

	tests := []struct {
		name   string
		header string
		value  string
	}{
		{name: "request id header", header: XRequestID, value: "custom-request-id"},
		{name: "correlation id header", header: XCorrelationID, value: "upstream-correlation-id"},
		{name: "generated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/complaints", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, RequestID()(echoRequestID)(c))
			assert.Equal(t, http.StatusOK, rec.Code)

			got := rec.Header().Get(XRequestID)
			assert.Equal(t, got, rec.Body.String())
			if tt.value != "" {
				assert.Equal(t, tt.value, got)
			} else {
				assert.NotEmpty(t, got)
			}
		})
	}
}
