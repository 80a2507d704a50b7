package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/complaint-registry/internal/server/middleware"
	"github.com/nguyentranbao-ct/complaint-registry/internal/usecase"
)

// Handlers groups everything the router needs.
type Handlers struct {
	fx.In

	Health    Controller
	Auth      AuthController
	Complaint ComplaintController
	Message   MessageController
	Admin     AdminController

	AuthUsecase usecase.AuthUsecase
	AuthLimiter *pkgmdw.Limiter
}

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handlers Handlers,
) {
	e := NewEcho(conf, handlers)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					_ = sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func NewEcho(conf *config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = errorHandler()

	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
		// credentials and attachments stay out of the logs
		RequestBody: func(c echo.Context) bool {
			return c.Path() != "/api/auth/login" && c.Path() != "/api/auth/register"
		},
		ResponseBody: func(c echo.Context) bool {
			return false
		},
		FormValues: func(c echo.Context) bool {
			return false
		},
		KeyAndValues: func(c echo.Context) []any {
			if user := pkgmdw.CurrentUser(c); user != nil {
				return []any{"role", user.Role}
			}
			return nil
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.CORS(conf.Server.CORSOrigins))
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	e.GET("/health", h.Health.Health)
	registerRoutes(e.Group("/api"), h)
	return e
}

func registerRoutes(api *echo.Group, h Handlers) {
	authn := pkgmdw.JWTAuth(h.AuthUsecase)
	can := pkgmdw.RequireCapability
	throttle := pkgmdw.RateLimit(h.AuthLimiter)

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register, throttle)
	auth.POST("/login", h.Auth.Login, throttle)
	auth.GET("/profile", h.Auth.GetProfile, authn, can(models.OpViewProfile))
	auth.PUT("/profile", h.Auth.UpdateProfile, authn, can(models.OpUpdateProfile))

	complaints := api.Group("/complaints", authn)
	complaints.POST("", h.Complaint.Create, can(models.OpCreateComplaint))
	complaints.GET("", h.Complaint.List, can(models.OpListComplaints))
	complaints.GET("/:id", h.Complaint.Get, can(models.OpViewComplaint))
	complaints.PATCH("/:id/status", h.Complaint.UpdateStatus, can(models.OpUpdateStatus))
	complaints.PATCH("/:id/assign", h.Complaint.Assign, can(models.OpAssignComplaint))
	complaints.DELETE("/:id", h.Complaint.Delete, can(models.OpDeleteComplaint))
	complaints.POST("/:id/attachments", h.Complaint.UploadAttachment, can(models.OpUploadAttachment))
	complaints.GET("/:id/attachments/:attachmentId", h.Complaint.GetAttachment, can(models.OpViewComplaint))

	messages := api.Group("/messages", authn)
	messages.POST("", h.Message.Send, can(models.OpSendMessage))
	messages.GET("/complaint/:id", h.Message.ListForComplaint, can(models.OpReadMessages))
	messages.PATCH("/:id/read", h.Message.MarkRead, can(models.OpReadMessages))
	messages.GET("/unread/count", h.Message.UnreadCount, can(models.OpReadMessages))
	messages.GET("/inbox", h.Message.Inbox, can(models.OpReadMessages))

	admin := api.Group("/admin", authn)
	admin.GET("/users", h.Admin.ListUsers, can(models.OpManageUsers))
	admin.GET("/users/:id", h.Admin.GetUser, can(models.OpManageUsers))
	admin.PUT("/users/:id", h.Admin.UpdateUser, can(models.OpManageUsers))
	admin.DELETE("/users/:id", h.Admin.DeleteUser, can(models.OpManageUsers))
	admin.GET("/agents", h.Admin.ListAgents, can(models.OpManageUsers))
	admin.GET("/customers", h.Admin.ListCustomers, can(models.OpManageUsers))
	admin.GET("/dashboard", h.Admin.Dashboard, can(models.OpViewDashboard))
	admin.GET("/complaints/unassigned", h.Admin.ListUnassigned, can(models.OpManageAssignments))
	admin.POST("/complaints/bulk-assign", h.Admin.BulkAssign, can(models.OpManageAssignments))
}
