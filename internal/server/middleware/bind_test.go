package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"

	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
)

func TestBindHeader(t *testing.T) {
	type args struct {
		header map[string]string
		out    interface{}
	}

	type normalCase struct {
		App     string `header:"app"`
		Service string `header:"service"`

		Non   string `header:"-"`
		Empty bool
	}

	type complexCase struct {
		Nine              int64   `header:"nine"`
		ThousandAndSeven  uint64  `header:"thousand-and-seven"`
		NegativeThirtyTwo int64   `header:"negative-thirty-two"`
		HundredPointSix   float32 `header:"hundred-point-six"`
		Rose              string  `header:"rose"`
	}

	tests := []struct {
		name    string
		args    args
		want    interface{}
		wantErr error
	}{
		{
			name: "normal bind header",
			args: args{
				header: map[string]string{
					"app":     "registry",
					"service": "support-portal",
					"non":     "non",
					"empty":   "empty",
				},
				out: new(normalCase),
			},
			want: &normalCase{
				App:     "registry",
				Service: "support-portal",
				Non:     "",
				Empty:   false,
			},
			wantErr: nil,
		},
		{
			name: "complex bind header",
			args: args{
				header: map[string]string{
					"nine":                "9",
					"thousand-and-seven":  "1007",
					"negative-thirty-two": "-32",
					"hundred-point-six":   "100.6",
					"rose":                "rose",
				},
				out: new(complexCase),
			},
			want: &complexCase{
				Nine:              9,
				ThousandAndSeven:  1007,
				NegativeThirtyTwo: -32,
				HundredPointSix:   100.6,
				Rose:              "rose",
			},
			wantErr: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			for k, v := range tt.args.header {
				header.Set(k, v)
			}
			err := bindHeader(header, tt.args.out)
			assert.EqualValues(t, err, tt.wantErr)
			assert.EqualValues(t, tt.want, tt.args.out)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	type statusRequest struct {
		ID        string `param:"id" validate:"required"`
		Status    string `json:"status" validate:"required,oneof=pending resolved"`
		RequestID string `header:"x-request-id"`
	}

	newContext := func(body string) echo.Context {
		e := echo.New()
		e.Validator = NewValidator()
		req := httptest.NewRequest(http.MethodPatch, "/api/complaints/abc/status", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(XRequestID, "req-1")
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues("abc")
		return c
	}

	t.Run("binds body params and headers", func(t *testing.T) {
		var req statusRequest
		require.NoError(t, BindAndValidate(newContext(`{"status":"resolved"}`), &req))
		assert.Equal(t, statusRequest{ID: "abc", Status: "resolved", RequestID: "req-1"}, req)
	})

	t.Run("invalid enum", func(t *testing.T) {
		var req statusRequest
		err := BindAndValidate(newContext(`{"status":"unknown"}`), &req)
		assert.True(t, models.IsCode(err, codes.InvalidArgument))
		assert.Contains(t, err.Error(), "status must be one of [pending resolved]")
	})

	t.Run("malformed body", func(t *testing.T) {
		var req statusRequest
		err := BindAndValidate(newContext(`{"status":`), &req)
		assert.True(t, models.IsCode(err, codes.InvalidArgument))
		assert.Contains(t, err.Error(), "invalid request body")
	})
}
