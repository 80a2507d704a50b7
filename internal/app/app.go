package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/complaint-registry/internal/server"
	"github.com/nguyentranbao-ct/complaint-registry/internal/usecase"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded",
		"server_addr", conf.Server.Addr,
		"database", conf.Database.Database,
		"redis_enabled", conf.Redis.Addr != "",
		"storage_enabled", conf.Storage.Endpoint != "",
		"kafka_enabled", conf.Kafka.Enabled,
	)
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newRedisClient,
			newAuthLimiter,
			newObjectStorage,
			newPublisher,

			server.NewHandler,
			server.NewAuthController,
			server.NewComplaintController,
			server.NewMessageController,
			server.NewAdminController,

			usecase.NewAuthUsecase,
			usecase.NewComplaintUsecase,
			usecase.NewMessageUsecase,
			usecase.NewAdminUsecase,

			mongodb.NewUserRepository,
			mongodb.NewComplaintRepository,
			mongodb.NewMessageRepository,
		),
		fx.Supply(conf),
		fx.Invoke(InitializeUsers),
		fx.Invoke(funcs...),
	)
}

// InitializeUsers seeds the default staff accounts once the database is reachable.
func InitializeUsers(
	lc fx.Lifecycle,
	conf *config.Config,
	userRepo mongodb.UserRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return usecase.InitializeUsers(conf, userRepo)
		},
	})
}
