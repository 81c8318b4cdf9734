package events

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"

	"github.com/bagdasarian/leadpipe/internal/config"
	"github.com/bagdasarian/leadpipe/internal/domain"
)

// batchTimeout ограничивает задержку синхронной записи одного сообщения;
// по умолчанию kafka-go ждет заполнения пачки до секунды
const batchTimeout = 10 * time.Millisecond

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...sdk.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &sdk.Writer{
			Addr:                   sdk.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &sdk.Hash{},
			RequiredAcks:           sdk.RequireOne,
			BatchTimeout:           batchTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish пишет событие с ключом EntityID, чтобы события одной сущности
// попадали в одну партицию
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	serialized, err := json.Marshal(ToMessage(event))
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}

	err = p.writer.WriteMessages(ctx, sdk.Message{
		Key:   []byte(event.EntityID),
		Value: serialized,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
