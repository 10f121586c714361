package application

import (
	"context"
	"log/slog"
	"time"

	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
	"aidvault/contexts/aid-disbursement/escrow-ledger/ports"
)

const (
	sourceService = "escrow-ledger"
	moduleName    = "aid-disbursement/escrow-ledger"
)

// Service runs every ledger operation. Execution is one call at a time per
// ledger instance; all cross-package state (locked balances, counters) is
// mutated through composite repository writes so each call either completes
// fully or leaves nothing behind.
type Service struct {
	Repo        ports.Repository
	Tokens      ports.TokenService
	Auth        ports.Authorizer
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	PoolAccount string
	Logger      *slog.Logger
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) nowUnix() int64 {
	return s.now().Unix()
}

func (s Service) logger() *slog.Logger {
	return ResolveLogger(s.Logger)
}

// attest maps any attestation failure to the single authorization error of
// the taxonomy; callers never see transport-specific detail.
func (s Service) attest(ctx context.Context, principal string) error {
	if err := s.Auth.Attest(ctx, principal); err != nil {
		return domainerrors.ErrNotAuthorized
	}
	return nil
}

// requireAdmin resolves the stored administrator and attests the invocation
// against it. Fails with ErrNotInitialized before init.
func (s Service) requireAdmin(ctx context.Context) (string, error) {
	admin, err := s.Repo.GetAdmin(ctx)
	if err != nil {
		return "", err
	}
	if err := s.attest(ctx, admin); err != nil {
		return "", err
	}
	return admin, nil
}

// requireOperator attests the acting party and checks it is the administrator
// or a registered distributor.
func (s Service) requireOperator(ctx context.Context, operator string) error {
	if err := s.attest(ctx, operator); err != nil {
		return err
	}
	admin, err := s.Repo.GetAdmin(ctx)
	if err != nil {
		return err
	}
	if operator == admin {
		return nil
	}
	member, err := s.Repo.IsDistributor(ctx, operator)
	if err != nil {
		return err
	}
	if !member {
		return domainerrors.ErrNotAuthorized
	}
	return nil
}

func (s Service) checkPaused(ctx context.Context) error {
	paused, err := s.Repo.IsPaused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return domainerrors.ErrContractPaused
	}
	return nil
}

func (s Service) newEnvelope(ctx context.Context, eventType string, entityType string, entityID string, payload any) (ports.EventEnvelope, error) {
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:        eventID,
		EventType:      eventType,
		SourceService:  sourceService,
		OccurredAtUTC:  s.now(),
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	}, nil
}
