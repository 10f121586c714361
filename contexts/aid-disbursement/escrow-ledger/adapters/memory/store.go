package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
	"aidvault/contexts/aid-disbursement/escrow-ledger/ports"
	"aidvault/internal/shared/outbox"

	"github.com/google/uuid"
)

var errOutboxNotFound = errors.New("outbox message not found")

// Store is the in-memory Repository. One mutex guards the whole ledger
// state, which matches the one-call-at-a-time execution model the core
// assumes: every composite write happens under a single lock hold.
type Store struct {
	mu sync.RWMutex

	initialized  bool
	admin        string
	cfg          entities.Config
	paused       bool
	distributors map[string]bool
	locked       map[string]int64
	packages     map[uint64]entities.Package
	index        []uint64
	counter      uint64
	outbox       []outboxRecord
}

type outboxRecord struct {
	message ports.OutboxMessage
	status  string
	sentAt  *time.Time
}

func NewStore() *Store {
	return &Store{
		distributors: make(map[string]bool),
		locked:       make(map[string]int64),
		packages:     make(map[uint64]entities.Package),
	}
}

func (s *Store) InitLedger(_ context.Context, admin string, cfg entities.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return domainerrors.ErrAlreadyInitialized
	}
	s.initialized = true
	s.admin = admin
	s.cfg = cfg
	return nil
}

func (s *Store) GetAdmin(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return "", domainerrors.ErrNotInitialized
	}
	return s.admin, nil
}

func (s *Store) GetConfig(_ context.Context) (entities.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return entities.DefaultConfig(), nil
	}
	return s.cfg, nil
}

func (s *Store) SetConfig(_ context.Context, cfg entities.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	return nil
}

func (s *Store) IsPaused(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.paused, nil
}

func (s *Store) SetPausedWithOutbox(_ context.Context, paused bool, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.appendOutboxLocked(event); err != nil {
		return err
	}
	s.paused = paused
	return nil
}

func (s *Store) SetDistributor(_ context.Context, principal string, member bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if member {
		s.distributors[principal] = true
	} else {
		delete(s.distributors, principal)
	}
	return nil
}

func (s *Store) IsDistributor(_ context.Context, principal string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.distributors[principal], nil
}

func (s *Store) LockedBalance(_ context.Context, asset string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.locked[asset], nil
}

func (s *Store) GetPackage(_ context.Context, id uint64) (entities.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pkg, ok := s.packages[id]
	if !ok {
		return entities.Package{}, domainerrors.ErrPackageNotFound
	}
	return pkg, nil
}

func (s *Store) HasPackage(_ context.Context, id uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.packages[id]
	return ok, nil
}

func (s *Store) PackageCounter(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.counter, nil
}

func (s *Store) ListIndexedPackageIDs(_ context.Context) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]uint64(nil), s.index...), nil
}

func (s *Store) CreatePackagesWithOutbox(_ context.Context, batch ports.PackageBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pkg := range batch.Packages {
		if _, exists := s.packages[pkg.ID]; exists {
			return domainerrors.ErrPackageIDExists
		}
	}
	for _, event := range batch.Events {
		if err := s.appendOutboxLocked(event); err != nil {
			return err
		}
	}
	for _, pkg := range batch.Packages {
		s.packages[pkg.ID] = pkg
		s.index = append(s.index, pkg.ID)
	}
	s.locked[batch.Asset] += batch.LockedIncrease
	if batch.NextCounter != nil {
		s.counter = *batch.NextCounter
	}
	return nil
}

func (s *Store) UpdatePackageWithOutbox(_ context.Context, pkg entities.Package, lockedDelta int64, evs []ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[pkg.ID]; !ok {
		return domainerrors.ErrPackageNotFound
	}
	for _, event := range evs {
		if err := s.appendOutboxLocked(event); err != nil {
			return err
		}
	}
	s.packages[pkg.ID] = pkg
	s.applyLockedDeltaLocked(pkg.Asset, lockedDelta)
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendOutboxLocked(event)
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.status != outbox.StatusPending {
			continue
		}
		items = append(items, row.message)
		if len(items) == limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			ts := sentAt.UTC()
			s.outbox[i].status = outbox.StatusSent
			s.outbox[i].sentAt = &ts
			return nil
		}
	}
	return errOutboxNotFound
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// appendOutboxLocked serializes the envelope into a pending outbox row.
// Caller holds the write lock.
func (s *Store) appendOutboxLocked(event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
			CreatedAt: event.OccurredAtUTC.UTC(),
		},
		status: outbox.StatusPending,
	})
	return nil
}

// applyLockedDeltaLocked floor-clamps releases at zero so accounting drift
// can never underflow the locked total. Caller holds the write lock.
func (s *Store) applyLockedDeltaLocked(asset string, delta int64) {
	next := s.locked[asset] + delta
	if next < 0 {
		next = 0
	}
	s.locked[asset] = next
}
