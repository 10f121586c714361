package application

import (
	"context"
	"strings"

	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
)

const (
	eventPaused   = "escrow.paused"
	eventUnpaused = "escrow.unpaused"
)

// Init stores the administrator and the default config. Callable by anyone,
// exactly once.
func (s Service) Init(ctx context.Context, admin string) error {
	if strings.TrimSpace(admin) == "" {
		return domainerrors.ErrInvalidState
	}
	if err := s.Repo.InitLedger(ctx, admin, entities.DefaultConfig()); err != nil {
		return err
	}
	s.logger().Info("escrow ledger initialized",
		"event", "escrow_initialized",
		"module", moduleName,
		"layer", "application",
		"admin", admin,
	)
	return nil
}

func (s Service) GetAdmin(ctx context.Context) (string, error) {
	return s.Repo.GetAdmin(ctx)
}

// AddDistributor registers a principal as a package issuer. Idempotent.
func (s Service) AddDistributor(ctx context.Context, principal string) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.Repo.SetDistributor(ctx, principal, true); err != nil {
		return err
	}
	s.logger().Info("distributor added",
		"event", "escrow_distributor_added",
		"module", moduleName,
		"layer", "application",
		"principal", principal,
	)
	return nil
}

// RemoveDistributor drops a principal from the distributor set. Idempotent.
func (s Service) RemoveDistributor(ctx context.Context, principal string) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.Repo.SetDistributor(ctx, principal, false); err != nil {
		return err
	}
	s.logger().Info("distributor removed",
		"event", "escrow_distributor_removed",
		"module", moduleName,
		"layer", "application",
		"principal", principal,
	)
	return nil
}

// SetConfig replaces the tunables wholesale.
func (s Service) SetConfig(ctx context.Context, cfg entities.Config) error {
	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.Repo.SetConfig(ctx, cfg)
}

// Pause halts new commitments and claims. Administrative release operations
// stay available so commitments can be unwound during an incident.
func (s Service) Pause(ctx context.Context) error {
	return s.setPaused(ctx, true)
}

func (s Service) Unpause(ctx context.Context) error {
	return s.setPaused(ctx, false)
}

func (s Service) setPaused(ctx context.Context, paused bool) error {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return err
	}
	eventType := eventUnpaused
	if paused {
		eventType = eventPaused
	}
	event, err := s.newEnvelope(ctx, eventType, "ledger", sourceService, map[string]any{
		"admin": admin,
	})
	if err != nil {
		return err
	}
	if err := s.Repo.SetPausedWithOutbox(ctx, paused, event); err != nil {
		return err
	}
	s.logger().Info("pause flag set",
		"event", "escrow_pause_toggled",
		"module", moduleName,
		"layer", "application",
		"paused", paused,
	)
	return nil
}
