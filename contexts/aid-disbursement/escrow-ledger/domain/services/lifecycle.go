package services

import (
	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
)

// This file is the single home of the package state machine. Every operation
// that depends on expiry materializes the effective status here first, so the
// lazy-expiry side effect lives in exactly one place.

// Materialize evaluates the lazy-expiry predicate. A Created package whose
// bounded expiry has elapsed becomes Expired; the second return reports
// whether a transition happened (and therefore whether the caller must
// persist the package and unlock its funds).
func Materialize(pkg entities.Package, nowUnix int64) (entities.Package, bool) {
	if pkg.Status == entities.PackageStatusCreated && pkg.PastExpiry(nowUnix) {
		pkg.Status = entities.PackageStatusExpired
		return pkg, true
	}
	return pkg, false
}

// BeginPayout moves Created to Claimed. Both claim and disburse go through
// here; status must be persisted before any transfer is issued.
func BeginPayout(pkg entities.Package) (entities.Package, error) {
	if pkg.Status != entities.PackageStatusCreated {
		return entities.Package{}, domainerrors.ErrPackageNotActive
	}
	pkg.Status = entities.PackageStatusClaimed
	return pkg, nil
}

// Cancel moves Created to Cancelled. allowExpired keeps the two admin
// cancellation surfaces on one transition: revoke cancels a past-expiry
// package silently, cancel_package rejects it with ErrPackageExpired. The
// two surfaces also differ in how a non-Created status is reported.
func Cancel(pkg entities.Package, nowUnix int64, allowExpired bool) (entities.Package, error) {
	if pkg.Status != entities.PackageStatusCreated {
		if allowExpired {
			return entities.Package{}, domainerrors.ErrInvalidState
		}
		return entities.Package{}, domainerrors.ErrPackageNotActive
	}
	if !allowExpired && pkg.PastExpiry(nowUnix) {
		return entities.Package{}, domainerrors.ErrPackageExpired
	}
	pkg.Status = entities.PackageStatusCancelled
	return pkg, nil
}

// Refund moves {Created-but-past-expiry, Expired, Cancelled} to Refunded.
// unlock reports whether the package was lazily expired inside this call and
// its amount must still be released from the locked balance; Expired and
// Cancelled packages were unlocked when they left Created.
func Refund(pkg entities.Package, nowUnix int64) (refunded entities.Package, unlock bool, err error) {
	switch pkg.Status {
	case entities.PackageStatusCreated:
		if !pkg.PastExpiry(nowUnix) {
			return entities.Package{}, false, domainerrors.ErrInvalidState
		}
		unlock = true
	case entities.PackageStatusExpired, entities.PackageStatusCancelled:
	default:
		return entities.Package{}, false, domainerrors.ErrInvalidState
	}
	pkg.Status = entities.PackageStatusRefunded
	return pkg, unlock, nil
}

// Extend pushes a bounded, not-yet-expired Created package's expiry forward.
func Extend(
	pkg entities.Package,
	additionalTime int64,
	nowUnix int64,
	maxExpiresIn int64,
) (extended entities.Package, oldExpiresAt int64, newExpiresAt int64, err error) {
	if pkg.Status != entities.PackageStatusCreated {
		return entities.Package{}, 0, 0, domainerrors.ErrPackageNotActive
	}
	if additionalTime <= 0 {
		return entities.Package{}, 0, 0, domainerrors.ErrInvalidAmount
	}
	if pkg.Unbounded() {
		return entities.Package{}, 0, 0, domainerrors.ErrInvalidState
	}
	if pkg.PastExpiry(nowUnix) {
		return entities.Package{}, 0, 0, domainerrors.ErrPackageExpired
	}

	oldExpiresAt = pkg.ExpiresAt
	newExpiresAt = oldExpiresAt + additionalTime
	if maxExpiresIn > 0 {
		if newExpiresAt <= nowUnix || newExpiresAt-nowUnix > maxExpiresIn {
			return entities.Package{}, 0, 0, domainerrors.ErrInvalidState
		}
	}
	pkg.ExpiresAt = newExpiresAt
	return pkg, oldExpiresAt, newExpiresAt, nil
}

// ValidateCreation runs the config-level admission checks for a new package.
func ValidateCreation(cfg entities.Config, amount int64, asset string, expiresAt int64, nowUnix int64) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	if amount < cfg.MinAmount {
		return domainerrors.ErrInvalidAmount
	}
	if !cfg.AssetAllowed(asset) {
		return domainerrors.ErrInvalidState
	}
	if cfg.MaxExpiresIn > 0 {
		if expiresAt == 0 || expiresAt <= nowUnix || expiresAt-nowUnix > cfg.MaxExpiresIn {
			return domainerrors.ErrInvalidState
		}
	}
	return nil
}
