package ports

import (
	"context"

	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
)

// PackageBatch is one atomic creation write: N package rows, N aggregation
// index entries, a single locked-balance increase, an optional counter
// advance for auto-assigned ids, and the outbox rows for every emitted
// event. The repository commits all of it or none of it.
type PackageBatch struct {
	Packages       []entities.Package
	Asset          string
	LockedIncrease int64
	NextCounter    *uint64
	Events         []EventEnvelope
}

// Repository is the logical keyed-store contract behind the ledger: the
// singleton ledger state (admin, config, pause flag, locked-balance map,
// distributor set, counters), one package entry per id, and one append-only
// index entry per package ever created. Composite writes pair state mutation
// with outbox rows in a single transaction; under the one-call-at-a-time
// execution model this is the only atomicity the core needs.
type Repository interface {
	// InitLedger stores the administrator and default config exactly once.
	InitLedger(ctx context.Context, admin string, cfg entities.Config) error
	GetAdmin(ctx context.Context) (string, error)

	GetConfig(ctx context.Context) (entities.Config, error)
	SetConfig(ctx context.Context, cfg entities.Config) error

	IsPaused(ctx context.Context) (bool, error)
	SetPausedWithOutbox(ctx context.Context, paused bool, event EventEnvelope) error

	SetDistributor(ctx context.Context, principal string, member bool) error
	IsDistributor(ctx context.Context, principal string) (bool, error)

	LockedBalance(ctx context.Context, asset string) (int64, error)

	GetPackage(ctx context.Context, id uint64) (entities.Package, error)
	HasPackage(ctx context.Context, id uint64) (bool, error)
	PackageCounter(ctx context.Context) (uint64, error)
	// ListIndexedPackageIDs returns every package id ever created, in index
	// order. Cost is linear in the total package population.
	ListIndexedPackageIDs(ctx context.Context) ([]uint64, error)

	CreatePackagesWithOutbox(ctx context.Context, batch PackageBatch) error
	// UpdatePackageWithOutbox persists a package transition together with a
	// locked-balance adjustment (negative deltas floor-clamp at zero) and
	// any events the transition emits.
	UpdatePackageWithOutbox(ctx context.Context, pkg entities.Package, lockedDelta int64, evs []EventEnvelope) error
	// AppendOutbox records events for operations that change no ledger rows
	// (funding, surplus withdrawal).
	AppendOutbox(ctx context.Context, event EventEnvelope) error
}
