package usecase

import (
	"context"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/complaint-registry/internal/kafka"
	"github.com/nguyentranbao-ct/complaint-registry/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const publishTimeout = 5 * time.Second

// publish emits an event without failing the caller. The mutation it
// describes is already persisted.
func publish(ctx context.Context, publisher kafka.Publisher, name models.EventName, key string, actor primitive.ObjectID, data any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := models.Event{
		Name:       name,
		Key:        key,
		ActorID:    actor,
		OccurredAt: time.Now(),
		Data:       data,
	}
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warnw(ctx, "failed to publish event", "event", name, "key", key, "error", err)
	}
}
