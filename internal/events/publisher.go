// Package events публикует доменные события воронки: создание лида, перенос
// лида между этапами, перестановку этапов и изменение действий этапа.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bagdasarian/leadpipe/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}

// Message - представление события в топике
type Message struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	AccountID  string         `json:"account_id"`
	EntityID   string         `json:"entity_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func ToMessage(event domain.Event) Message {
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return Message{
		ID:         uuid.New(),
		Type:       string(event.Type),
		AccountID:  event.AccountID,
		EntityID:   event.EntityID,
		Payload:    event.Payload,
		OccurredAt: occurredAt,
	}
}
