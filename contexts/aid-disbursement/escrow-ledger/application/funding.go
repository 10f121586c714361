package application

import (
	"context"

	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
)

const (
	eventFunded           = "escrow.funded"
	eventSurplusWithdrawn = "escrow.surplus_withdrawn"
)

// Fund moves value from an external account into the shared pool. The pool
// model holds one balance per asset; packages merely reserve portions of it.
func (s Service) Fund(ctx context.Context, asset string, from string, amount int64) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	if err := s.attest(ctx, from); err != nil {
		return err
	}

	if err := s.Tokens.Transfer(ctx, asset, from, s.PoolAccount, amount); err != nil {
		return err
	}

	event, err := s.newEnvelope(ctx, eventFunded, "ledger", sourceService, map[string]any{
		"from":   from,
		"asset":  asset,
		"amount": amount,
	})
	if err != nil {
		return err
	}
	if err := s.Repo.AppendOutbox(ctx, event); err != nil {
		return err
	}

	s.logger().Info("pool funded",
		"event", "escrow_funded",
		"module", moduleName,
		"layer", "application",
		"asset", asset,
		"from", from,
		"amount", amount,
	)
	return nil
}

// WithdrawSurplus returns unlocked pool funds to the administrator. Surplus
// is the pool balance minus the locked total at the moment of the call; the
// locked map itself never changes here.
func (s Service) WithdrawSurplus(ctx context.Context, amount int64, asset string) error {
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}

	balance, err := s.Tokens.Balance(ctx, asset, s.PoolAccount)
	if err != nil {
		return err
	}
	locked, err := s.Repo.LockedBalance(ctx, asset)
	if err != nil {
		return err
	}
	if balance-locked < amount {
		return domainerrors.ErrInsufficientSurplus
	}

	if err := s.Tokens.Transfer(ctx, asset, s.PoolAccount, admin, amount); err != nil {
		return err
	}

	event, err := s.newEnvelope(ctx, eventSurplusWithdrawn, "ledger", sourceService, map[string]any{
		"admin":  admin,
		"asset":  asset,
		"amount": amount,
	})
	if err != nil {
		return err
	}
	if err := s.Repo.AppendOutbox(ctx, event); err != nil {
		return err
	}

	s.logger().Info("surplus withdrawn",
		"event", "escrow_surplus_withdrawn",
		"module", moduleName,
		"layer", "application",
		"asset", asset,
		"amount", amount,
	)
	return nil
}
