package application

import (
	"context"
	"strconv"

	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/services"
	"aidvault/contexts/aid-disbursement/escrow-ledger/ports"
)

const (
	eventPackageCreated = "escrow.package_created"
	eventBatchCreated   = "escrow.batch_created"
)

// CreatePackage commits funds to a single recipient under a caller-chosen id.
// Admission order: pause, operator role, config validation, id uniqueness,
// point-in-time solvency. The package row, index entry, locked increase, and
// creation event commit together.
func (s Service) CreatePackage(
	ctx context.Context,
	operator string,
	id uint64,
	recipient string,
	amount int64,
	asset string,
	expiresAt int64,
) (uint64, error) {
	if err := s.checkPaused(ctx); err != nil {
		return 0, err
	}
	if err := s.requireOperator(ctx, operator); err != nil {
		return 0, err
	}
	cfg, err := s.Repo.GetConfig(ctx)
	if err != nil {
		return 0, err
	}

	now := s.nowUnix()
	if err := services.ValidateCreation(cfg, amount, asset, expiresAt, now); err != nil {
		return 0, err
	}

	exists, err := s.Repo.HasPackage(ctx, id)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, domainerrors.ErrPackageIDExists
	}

	if err := s.checkSolvency(ctx, asset, amount); err != nil {
		return 0, err
	}

	pkg, err := entities.NewPackage(id, recipient, amount, asset, now, expiresAt)
	if err != nil {
		return 0, err
	}

	event, err := s.newEnvelope(ctx, eventPackageCreated, "package", formatID(id), map[string]any{
		"id":        id,
		"recipient": recipient,
		"amount":    amount,
		"asset":     asset,
	})
	if err != nil {
		return 0, err
	}

	if err := s.Repo.CreatePackagesWithOutbox(ctx, ports.PackageBatch{
		Packages:       []entities.Package{pkg},
		Asset:          asset,
		LockedIncrease: amount,
		Events:         []ports.EventEnvelope{event},
	}); err != nil {
		return 0, err
	}

	s.logger().Info("package created",
		"event", "escrow_package_created",
		"module", moduleName,
		"layer", "application",
		"package_id", id,
		"recipient", recipient,
		"asset", asset,
		"amount", amount,
	)
	return id, nil
}

// BatchCreatePackages commits one package per recipient with auto-assigned
// ids from the package counter. The batch is atomic: solvency is re-checked
// per entry against a running locked total, and any validation failure
// discards every entry.
//
// Auto-assigned ids and manual create ids share one id space with no
// reservation; a manual id taken ahead of the counter surfaces here as
// ErrPackageIDExists for the whole batch.
func (s Service) BatchCreatePackages(
	ctx context.Context,
	operator string,
	recipients []string,
	amounts []int64,
	asset string,
	expiresIn int64,
) ([]uint64, error) {
	if err := s.checkPaused(ctx); err != nil {
		return nil, err
	}
	if err := s.requireOperator(ctx, operator); err != nil {
		return nil, err
	}
	if len(recipients) != len(amounts) {
		return nil, domainerrors.ErrMismatchedArrays
	}

	balance, err := s.Tokens.Balance(ctx, asset, s.PoolAccount)
	if err != nil {
		return nil, err
	}
	locked, err := s.Repo.LockedBalance(ctx, asset)
	if err != nil {
		return nil, err
	}
	counter, err := s.Repo.PackageCounter(ctx)
	if err != nil {
		return nil, err
	}

	createdAt := s.nowUnix()
	expiresAt := createdAt + expiresIn

	packages := make([]entities.Package, 0, len(recipients))
	createdIDs := make([]uint64, 0, len(recipients))
	evs := make([]ports.EventEnvelope, 0, len(recipients)+1)
	var totalAmount int64

	for i := range recipients {
		amount := amounts[i]
		if amount <= 0 {
			return nil, domainerrors.ErrInvalidAmount
		}
		if balance < locked+amount {
			return nil, domainerrors.ErrInsufficientFunds
		}

		id := counter
		counter++

		pkg, err := entities.NewPackage(id, recipients[i], amount, asset, createdAt, expiresAt)
		if err != nil {
			return nil, err
		}
		event, err := s.newEnvelope(ctx, eventPackageCreated, "package", formatID(id), map[string]any{
			"id":        id,
			"recipient": recipients[i],
			"amount":    amount,
			"asset":     asset,
		})
		if err != nil {
			return nil, err
		}

		packages = append(packages, pkg)
		createdIDs = append(createdIDs, id)
		evs = append(evs, event)
		locked += amount
		totalAmount += amount
	}

	batchEvent, err := s.newEnvelope(ctx, eventBatchCreated, "ledger", sourceService, map[string]any{
		"ids":          createdIDs,
		"operator":     operator,
		"total_amount": totalAmount,
		"asset":        asset,
	})
	if err != nil {
		return nil, err
	}
	evs = append(evs, batchEvent)

	if err := s.Repo.CreatePackagesWithOutbox(ctx, ports.PackageBatch{
		Packages:       packages,
		Asset:          asset,
		LockedIncrease: totalAmount,
		NextCounter:    &counter,
		Events:         evs,
	}); err != nil {
		return nil, err
	}

	s.logger().Info("package batch created",
		"event", "escrow_batch_created",
		"module", moduleName,
		"layer", "application",
		"count", len(createdIDs),
		"asset", asset,
		"total_amount", totalAmount,
	)
	return createdIDs, nil
}

// checkSolvency is the single admission-control gate for new commitments:
// the pool must cover everything already locked plus the new amount at the
// moment of the call.
func (s Service) checkSolvency(ctx context.Context, asset string, amount int64) error {
	balance, err := s.Tokens.Balance(ctx, asset, s.PoolAccount)
	if err != nil {
		return err
	}
	locked, err := s.Repo.LockedBalance(ctx, asset)
	if err != nil {
		return err
	}
	if balance < locked+amount {
		return domainerrors.ErrInsufficientFunds
	}
	return nil
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
