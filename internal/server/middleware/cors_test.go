package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"allowed origin", []string{"http://localhost:3000"}, http.MethodGet, "http://localhost:3000", "http://localhost:3000", http.StatusTeapot},
		{"unknown origin", []string{"http://localhost:3000"}, http.MethodGet, "http://evil.test", "", http.StatusTeapot},
		{"wildcard", []string{"*"}, http.MethodGet, "http://any.test", "http://any.test", http.StatusTeapot},
		{"preflight", []string{"*"}, http.MethodOptions, "http://any.test", "http://any.test", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(tt.method, "/api/complaints", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := CORS(tt.origins)(func(c echo.Context) error {
				return c.NoContent(http.StatusTeapot)
			})
			assert.NoError(t, handler(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
