package ports

import (
	"context"
	"time"

	"aidvault/internal/shared/events"
)

// EventEnvelope is the canonical envelope written to the outbox alongside
// every state change.
type EventEnvelope = events.Envelope

// TokenService is the external asset-transfer collaborator. The ledger never
// holds value itself; it only reserves portions of the pool account's balance.
type TokenService interface {
	Balance(ctx context.Context, asset string, account string) (int64, error)
	Transfer(ctx context.Context, asset string, from string, to string, amount int64) error
}

// Authorizer proves that the current invocation is attributable to principal.
// A failed attestation aborts the whole call before any state changes.
type Authorizer interface {
	Attest(ctx context.Context, principal string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
