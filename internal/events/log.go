package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/config"
	"github.com/bagdasarian/leadpipe/internal/domain"
)

// LogPublisher пишет события в лог, используется без брокера
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.Event) error {
	p.logger.Info("domain event",
		zap.String("type", string(event.Type)),
		zap.String("account_id", event.AccountID),
		zap.String("entity_id", event.EntityID),
		zap.Any("payload", event.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}

// New выбирает Kafka, если заданы брокеры, иначе лог
func New(cfg config.KafkaConfig, logger *zap.Logger) Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Info("kafka brokers not configured, events go to log")
		return NewLogPublisher(logger)
	}
	logger.Info("publishing events to kafka", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return NewKafkaPublisher(cfg)
}
