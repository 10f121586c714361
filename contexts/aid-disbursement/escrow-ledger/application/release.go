package application

import (
	"context"

	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/services"
	"aidvault/contexts/aid-disbursement/escrow-ledger/ports"
)

const (
	eventPackageClaimed   = "escrow.package_claimed"
	eventPackageDisbursed = "escrow.package_disbursed"
	eventPackageRevoked   = "escrow.package_revoked"
	eventPackageRefunded  = "escrow.package_refunded"
	eventPackageExtended  = "escrow.package_extended"
)

// Claim releases a package to its recipient. Status is persisted before the
// transfer is issued so a re-entrant call cannot observe a still-open
// package. A bounded package touched past its expiry is persisted as Expired
// (funds unlocked) and the claim fails with ErrPackageExpired.
func (s Service) Claim(ctx context.Context, id uint64) error {
	if err := s.checkPaused(ctx); err != nil {
		return err
	}
	pkg, err := s.Repo.GetPackage(ctx, id)
	if err != nil {
		return err
	}
	if pkg.Status != entities.PackageStatusCreated {
		return domainerrors.ErrPackageNotActive
	}

	expired, err := s.materialize(ctx, pkg)
	if err != nil {
		return err
	}
	if expired {
		return domainerrors.ErrPackageExpired
	}

	if err := s.attest(ctx, pkg.Recipient); err != nil {
		return err
	}

	claimed, err := services.BeginPayout(pkg)
	if err != nil {
		return err
	}
	event, err := s.newEnvelope(ctx, eventPackageClaimed, "package", formatID(id), map[string]any{
		"id":        id,
		"recipient": pkg.Recipient,
		"amount":    pkg.Amount,
	})
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePackageWithOutbox(ctx, claimed, -pkg.Amount, []ports.EventEnvelope{event}); err != nil {
		return err
	}

	if err := s.Tokens.Transfer(ctx, pkg.Asset, s.PoolAccount, pkg.Recipient, pkg.Amount); err != nil {
		return err
	}

	s.logger().Info("package claimed",
		"event", "escrow_package_claimed",
		"module", moduleName,
		"layer", "application",
		"package_id", id,
		"recipient", pkg.Recipient,
		"amount", pkg.Amount,
	)
	return nil
}

// Disburse is the administrator-forced payout: same ordering and accounting
// as Claim without recipient attestation. Not gated by pause so commitments
// can be unwound during an incident.
func (s Service) Disburse(ctx context.Context, id uint64) error {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	pkg, err := s.Repo.GetPackage(ctx, id)
	if err != nil {
		return err
	}

	claimed, err := services.BeginPayout(pkg)
	if err != nil {
		return err
	}
	event, err := s.newEnvelope(ctx, eventPackageDisbursed, "package", formatID(id), map[string]any{
		"id":     id,
		"admin":  admin,
		"amount": pkg.Amount,
	})
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePackageWithOutbox(ctx, claimed, -pkg.Amount, []ports.EventEnvelope{event}); err != nil {
		return err
	}

	if err := s.Tokens.Transfer(ctx, pkg.Asset, s.PoolAccount, pkg.Recipient, pkg.Amount); err != nil {
		return err
	}

	s.logger().Info("package disbursed",
		"event", "escrow_package_disbursed",
		"module", moduleName,
		"layer", "application",
		"package_id", id,
		"recipient", pkg.Recipient,
		"amount", pkg.Amount,
	)
	return nil
}

// Revoke cancels an open package and returns its amount to the pool. A
// past-expiry package is cancelled silently; non-Created statuses fail with
// ErrInvalidState.
func (s Service) Revoke(ctx context.Context, id uint64) error {
	return s.cancel(ctx, id, true)
}

// CancelPackage cancels an open package like Revoke but rejects a package
// already past its expiry with ErrPackageExpired instead of cancelling it.
func (s Service) CancelPackage(ctx context.Context, id uint64) error {
	return s.cancel(ctx, id, false)
}

func (s Service) cancel(ctx context.Context, id uint64, allowExpired bool) error {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	pkg, err := s.Repo.GetPackage(ctx, id)
	if err != nil {
		return err
	}

	cancelled, err := services.Cancel(pkg, s.nowUnix(), allowExpired)
	if err != nil {
		return err
	}
	event, err := s.newEnvelope(ctx, eventPackageRevoked, "package", formatID(id), map[string]any{
		"id":     id,
		"admin":  admin,
		"amount": pkg.Amount,
	})
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePackageWithOutbox(ctx, cancelled, -pkg.Amount, []ports.EventEnvelope{event}); err != nil {
		return err
	}

	s.logger().Info("package cancelled",
		"event", "escrow_package_revoked",
		"module", moduleName,
		"layer", "application",
		"package_id", id,
		"amount", pkg.Amount,
	)
	return nil
}

// Refund returns a dead package's amount from the pool to the administrator.
// A Created package past its expiry is lazily expired inside this call, so
// its funds are unlocked exactly once before the refund transfer.
func (s Service) Refund(ctx context.Context, id uint64) error {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	pkg, err := s.Repo.GetPackage(ctx, id)
	if err != nil {
		return err
	}

	refunded, unlock, err := services.Refund(pkg, s.nowUnix())
	if err != nil {
		return err
	}
	var lockedDelta int64
	if unlock {
		lockedDelta = -pkg.Amount
	}
	event, err := s.newEnvelope(ctx, eventPackageRefunded, "package", formatID(id), map[string]any{
		"id":     id,
		"admin":  admin,
		"amount": pkg.Amount,
	})
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePackageWithOutbox(ctx, refunded, lockedDelta, []ports.EventEnvelope{event}); err != nil {
		return err
	}

	if err := s.Tokens.Transfer(ctx, pkg.Asset, s.PoolAccount, admin, pkg.Amount); err != nil {
		return err
	}

	s.logger().Info("package refunded",
		"event", "escrow_package_refunded",
		"module", moduleName,
		"layer", "application",
		"package_id", id,
		"amount", pkg.Amount,
	)
	return nil
}

// ExtendExpiration pushes a bounded, unexpired package's expiry forward by
// additionalTime seconds, subject to the configured horizon.
func (s Service) ExtendExpiration(ctx context.Context, id uint64, additionalTime int64) error {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	cfg, err := s.Repo.GetConfig(ctx)
	if err != nil {
		return err
	}
	pkg, err := s.Repo.GetPackage(ctx, id)
	if err != nil {
		return err
	}

	extended, oldExpiresAt, newExpiresAt, err := services.Extend(pkg, additionalTime, s.nowUnix(), cfg.MaxExpiresIn)
	if err != nil {
		return err
	}
	event, err := s.newEnvelope(ctx, eventPackageExtended, "package", formatID(id), map[string]any{
		"id":             id,
		"admin":          admin,
		"old_expires_at": oldExpiresAt,
		"new_expires_at": newExpiresAt,
	})
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePackageWithOutbox(ctx, extended, 0, []ports.EventEnvelope{event}); err != nil {
		return err
	}

	s.logger().Info("package expiration extended",
		"event", "escrow_package_extended",
		"module", moduleName,
		"layer", "application",
		"package_id", id,
		"new_expires_at", newExpiresAt,
	)
	return nil
}

// materialize persists the lazy-expiry transition when the package is past
// its bounded expiry, unlocking its funds in the same write. The first return
// reports whether the package expired; the second carries any persistence
// failure.
func (s Service) materialize(ctx context.Context, pkg entities.Package) (bool, error) {
	expired, changed := services.Materialize(pkg, s.nowUnix())
	if !changed {
		return false, nil
	}
	if err := s.Repo.UpdatePackageWithOutbox(ctx, expired, -pkg.Amount, nil); err != nil {
		return true, err
	}
	return true, nil
}
