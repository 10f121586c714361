package entities

import (
	"strings"

	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
)

type PackageStatus string

const (
	PackageStatusCreated   PackageStatus = "created"
	PackageStatusClaimed   PackageStatus = "claimed"
	PackageStatusExpired   PackageStatus = "expired"
	PackageStatusCancelled PackageStatus = "cancelled"
	PackageStatusRefunded  PackageStatus = "refunded"
)

// Package is a single fund commitment earmarked for one recipient.
// Amount, recipient, and asset are immutable after creation; only status and
// expires_at (via extension) ever change.
type Package struct {
	ID        uint64
	Recipient string
	Amount    int64
	Asset     string
	Status    PackageStatus
	CreatedAt int64
	ExpiresAt int64
	Metadata  map[string]string
}

// NewPackage validates the immutable fields. Config-level checks (min amount,
// allowlist, expiry horizon) belong to the application layer; this constructor
// only guards structural validity.
func NewPackage(
	id uint64,
	recipient string,
	amount int64,
	asset string,
	createdAt int64,
	expiresAt int64,
) (Package, error) {
	if strings.TrimSpace(recipient) == "" || strings.TrimSpace(asset) == "" {
		return Package{}, domainerrors.ErrInvalidAmount
	}
	if amount <= 0 {
		return Package{}, domainerrors.ErrInvalidAmount
	}
	return Package{
		ID:        id,
		Recipient: recipient,
		Amount:    amount,
		Asset:     asset,
		Status:    PackageStatusCreated,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
		Metadata:  map[string]string{},
	}, nil
}

// Unbounded reports whether the package has no expiry (expires_at == 0).
func (p Package) Unbounded() bool {
	return p.ExpiresAt == 0
}

// PastExpiry reports whether a bounded package's expiry has elapsed.
func (p Package) PastExpiry(nowUnix int64) bool {
	return p.ExpiresAt > 0 && nowUnix > p.ExpiresAt
}

// Terminal reports whether the status admits no further transitions.
func (p Package) Terminal() bool {
	return p.Status == PackageStatusClaimed || p.Status == PackageStatusRefunded
}
