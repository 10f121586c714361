package workers_test

import (
	"context"
	"errors"
	"testing"

	escrowledger "aidvault/contexts/aid-disbursement/escrow-ledger"
	"aidvault/contexts/aid-disbursement/escrow-ledger/adapters/auth"
	"aidvault/contexts/aid-disbursement/escrow-ledger/application/workers"
	"aidvault/contexts/aid-disbursement/escrow-ledger/ports"
)

type capturingPublisher struct {
	topics []string
	events []ports.EventEnvelope
	fail   bool
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("bus unavailable")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func seedOutbox(t *testing.T) escrowledger.Module {
	t.Helper()

	module := escrowledger.NewInMemoryModule(nil)
	ctx := context.Background()
	if err := module.Service.Init(ctx, "admin-1"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	module.Tokens.Mint("USDC", "donor-1", 1_000)
	if err := module.Service.Fund(auth.WithPrincipal(ctx, "donor-1"), "USDC", "donor-1", 1_000); err != nil {
		t.Fatalf("fund failed: %v", err)
	}
	if _, err := module.Service.CreatePackage(auth.WithPrincipal(ctx, "admin-1"), "admin-1", 1, "recipient-1", 100, "USDC", 0); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return module
}

func TestOutboxRelayPublishesAndMarksSent(t *testing.T) {
	module := seedOutbox(t)
	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
		Topic:     "escrow.events",
	}
	ctx := context.Background()

	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 published events, got %d", len(publisher.events))
	}
	for _, topic := range publisher.topics {
		if topic != "escrow.events" {
			t.Fatalf("unexpected topic %s", topic)
		}
	}

	types := make(map[string]bool)
	for _, event := range publisher.events {
		if event.SourceService != "escrow-ledger" {
			t.Fatalf("unexpected source service: %s", event.SourceService)
		}
		types[event.EventType] = true
	}
	if !types["escrow.funded"] || !types["escrow.package_created"] {
		t.Fatalf("expected funded and package_created events, got %v", types)
	}

	// A second cycle finds nothing pending.
	publisher.events = nil
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("sent rows must not republish, got %d events", len(publisher.events))
	}
}

func TestOutboxRelayKeepsRowsPendingOnPublishFailure(t *testing.T) {
	module := seedOutbox(t)
	publisher := &capturingPublisher{fail: true}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
	}
	ctx := context.Background()

	if err := relay.RunOnce(ctx); err == nil {
		t.Fatalf("expected error from failing publisher")
	}

	publisher.fail = false
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("retry run failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected both rows delivered on retry, got %d", len(publisher.events))
	}
}
