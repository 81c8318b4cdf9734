package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/events"
)

const publishTimeout = 5 * time.Second

// publish отправляет событие после успешной записи. Ошибка публикации
// только логируется, запись не откатывается. Отмена запроса клиентом
// не прерывает отправку уже закоммиченного изменения.
func publish(ctx context.Context, publisher events.Publisher, logger *zap.Logger, event domain.Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("failed to publish event",
			zap.String("type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err),
		)
	}
}
