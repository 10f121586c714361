package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "aidvault/contexts/aid-disbursement/escrow-ledger/application"
	"aidvault/contexts/aid-disbursement/escrow-ledger/ports"
)

// OutboxRelay drains pending outbox rows to the event bus. Runs from the
// worker process; a row is marked sent only after a successful publish.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = "escrow.events"
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("outbox list pending failed",
			"event", "escrow_outbox_list_failed",
			"module", "aid-disbursement/escrow-ledger",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, message := range pending {
		var envelope ports.EventEnvelope
		if err := json.Unmarshal(message.Payload, &envelope); err != nil {
			logger.Error("outbox payload decode failed",
				"event", "escrow_outbox_decode_failed",
				"module", "aid-disbursement/escrow-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}

		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("outbox publish failed",
				"event", "escrow_outbox_publish_failed",
				"module", "aid-disbursement/escrow-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, message.OutboxID, now); err != nil {
			logger.Error("outbox mark sent failed",
				"event", "escrow_outbox_mark_sent_failed",
				"module", "aid-disbursement/escrow-ledger",
				"layer", "worker",
				"outbox_id", message.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "escrow_outbox_relay_completed",
			"module", "aid-disbursement/escrow-ledger",
			"layer", "worker",
			"sent_count", len(pending),
		)
	}
	return nil
}
