package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/complaint-registry/internal/config"
	"github.com/nguyentranbao-ct/complaint-registry/internal/kafka"
	"github.com/nguyentranbao-ct/complaint-registry/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/complaint-registry/internal/repo/storage"
	pkgmdw "github.com/nguyentranbao-ct/complaint-registry/internal/server/middleware"
)

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := mongodb.NewConnection(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.Ping(ctx); err != nil {
				return err
			}
			return mongodb.EnsureIndexes(ctx, db)
		},
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})

	return db, nil
}

// newRedisClient returns nil when REDIS_ADDR is empty, which disables auth throttling.
func newRedisClient(lc fx.Lifecycle, cfg *config.Config) redis.UniversalClient {
	if cfg.Redis.Addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// throttling fails open, an unreachable redis only warns
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Warnw(ctx, "redis unreachable, auth throttling degraded", "addr", cfg.Redis.Addr, "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return rdb
}

func newAuthLimiter(cfg *config.Config, rdb redis.UniversalClient) *pkgmdw.Limiter {
	if rdb == nil {
		return pkgmdw.NewLimiter(nil, 0, 0, "auth")
	}
	return pkgmdw.NewLimiter(rdb, cfg.Redis.AuthLimit, cfg.Redis.AuthWindow, "auth")
}

func newObjectStorage(lc fx.Lifecycle, cfg *config.Config) (storage.ObjectStorage, error) {
	objectStorage, err := storage.NewObjectStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !objectStorage.Enabled() {
				log.Infow(ctx, "STORAGE_ENDPOINT not set, attachments disabled")
				return nil
			}
			return objectStorage.EnsureBucket(ctx)
		},
	})
	return objectStorage, nil
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config) (kafka.Publisher, error) {
	publisher, err := kafka.NewPublisher(cfg)
	if err != nil {
		return nil, fmt.Errorf("init kafka publisher: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}
