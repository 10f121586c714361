package ports

import (
	"context"
	"time"
)

// EventPublisher delivers envelopes to the event bus. Used by the worker
// relay, never by the command path (commands only write outbox rows).
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}
