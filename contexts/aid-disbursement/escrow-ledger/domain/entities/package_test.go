package entities_test

import (
	"errors"
	"testing"

	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
)

func TestNewPackageGuardsStructuralValidity(t *testing.T) {
	pkg, err := entities.NewPackage(1, "recipient-1", 100, "USDC", 1_000, 2_000)
	if err != nil {
		t.Fatalf("valid package rejected: %v", err)
	}
	if pkg.Status != entities.PackageStatusCreated {
		t.Fatalf("new package must start created, got %s", pkg.Status)
	}

	if _, err := entities.NewPackage(1, "  ", 100, "USDC", 1_000, 0); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected error for blank recipient, got %v", err)
	}
	if _, err := entities.NewPackage(1, "recipient-1", 100, "", 1_000, 0); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected error for blank asset, got %v", err)
	}
	if _, err := entities.NewPackage(1, "recipient-1", 0, "USDC", 1_000, 0); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected error for non-positive amount, got %v", err)
	}
}

func TestExpiryPredicates(t *testing.T) {
	bounded := entities.Package{ExpiresAt: 2_000}
	if bounded.Unbounded() {
		t.Fatalf("bounded package reported unbounded")
	}
	if bounded.PastExpiry(2_000) {
		t.Fatalf("package at its exact deadline must still be live")
	}
	if !bounded.PastExpiry(2_001) {
		t.Fatalf("package one past its deadline must be expired")
	}

	unbounded := entities.Package{}
	if !unbounded.Unbounded() || unbounded.PastExpiry(1<<40) {
		t.Fatalf("zero expiry must mean no deadline")
	}
}

func TestAssetAllowlist(t *testing.T) {
	open := entities.Config{}
	if !open.AssetAllowed("anything") {
		t.Fatalf("empty allowlist must allow every asset")
	}

	strict := entities.Config{AllowedAssets: []string{"USDC", "EURC"}}
	if !strict.AssetAllowed("EURC") {
		t.Fatalf("listed asset rejected")
	}
	if strict.AssetAllowed("DOGE") {
		t.Fatalf("unlisted asset allowed")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := entities.DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if err := (entities.Config{}).Validate(); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero minimum, got %v", err)
	}
}
