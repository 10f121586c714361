package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
	"aidvault/contexts/aid-disbursement/escrow-ledger/ports"
	"aidvault/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ledgerStateID = 1

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// Migrate creates the ledger tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ledgerStateModel{},
		&packageModel{},
		&lockedBalanceModel{},
		&distributorModel{},
		&indexEntryModel{},
		&outboxModel{},
	)
}

func (r *Repository) InitLedger(ctx context.Context, admin string, cfg entities.Config) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ledgerStateModel{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domainerrors.ErrAlreadyInitialized
		}
		row, err := ledgerStateFrom(admin, cfg)
		if err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyInitialized
			}
			return err
		}
		return nil
	})
}

func (r *Repository) GetAdmin(ctx context.Context) (string, error) {
	state, err := r.loadState(ctx, r.db)
	if err != nil {
		return "", err
	}
	return state.Admin, nil
}

func (r *Repository) GetConfig(ctx context.Context) (entities.Config, error) {
	state, err := r.loadState(ctx, r.db)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotInitialized) {
			return entities.DefaultConfig(), nil
		}
		return entities.Config{}, err
	}
	return state.toConfig()
}

func (r *Repository) SetConfig(ctx context.Context, cfg entities.Config) error {
	allowed, err := json.Marshal(cfg.AllowedAssets)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&ledgerStateModel{}).
		Where("id = ?", ledgerStateID).
		Updates(map[string]any{
			"min_amount":     cfg.MinAmount,
			"max_expires_in": cfg.MaxExpiresIn,
			"allowed_assets": string(allowed),
		}).Error
}

func (r *Repository) IsPaused(ctx context.Context) (bool, error) {
	state, err := r.loadState(ctx, r.db)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotInitialized) {
			return false, nil
		}
		return false, err
	}
	return state.Paused, nil
}

func (r *Repository) SetPausedWithOutbox(ctx context.Context, paused bool, event ports.EventEnvelope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ledgerStateModel{}).
			Where("id = ?", ledgerStateID).
			Update("paused", paused).Error; err != nil {
			return err
		}
		return appendOutbox(tx, event)
	})
}

func (r *Repository) SetDistributor(ctx context.Context, principal string, member bool) error {
	if member {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&distributorModel{Principal: principal}).Error
	}
	return r.db.WithContext(ctx).
		Where("principal = ?", principal).
		Delete(&distributorModel{}).Error
}

func (r *Repository) IsDistributor(ctx context.Context, principal string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&distributorModel{}).
		Where("principal = ?", principal).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) LockedBalance(ctx context.Context, asset string) (int64, error) {
	var row lockedBalanceModel
	err := r.db.WithContext(ctx).
		Where("asset = ?", asset).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return row.Amount, nil
}

func (r *Repository) GetPackage(ctx context.Context, id uint64) (entities.Package, error) {
	var row packageModel
	err := r.db.WithContext(ctx).
		Where("package_id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Package{}, domainerrors.ErrPackageNotFound
		}
		return entities.Package{}, err
	}
	return row.toEntity()
}

func (r *Repository) HasPackage(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&packageModel{}).
		Where("package_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) PackageCounter(ctx context.Context) (uint64, error) {
	state, err := r.loadState(ctx, r.db)
	if err != nil {
		return 0, err
	}
	return state.PackageCounter, nil
}

func (r *Repository) ListIndexedPackageIDs(ctx context.Context) ([]uint64, error) {
	var rows []indexEntryModel
	if err := r.db.WithContext(ctx).
		Order("ordinal ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PackageID)
	}
	return ids, nil
}

// CreatePackagesWithOutbox is the single write boundary for issuance: package
// rows, index entries, locked increase, counter advance, and outbox rows
// commit in one transaction. The state row is locked for the duration so the
// counters and the locked map keep single-writer semantics.
func (r *Repository) CreatePackagesWithOutbox(ctx context.Context, batch ports.PackageBatch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state, err := r.loadStateForUpdate(tx)
		if err != nil {
			return err
		}

		for _, pkg := range batch.Packages {
			row, err := packageModelFrom(pkg)
			if err != nil {
				return err
			}
			if err := tx.Create(&row).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrPackageIDExists
				}
				return err
			}
			if err := tx.Create(&indexEntryModel{
				Ordinal:   state.IndexCounter,
				PackageID: pkg.ID,
			}).Error; err != nil {
				return err
			}
			state.IndexCounter++
		}

		if err := adjustLocked(tx, batch.Asset, batch.LockedIncrease); err != nil {
			return err
		}

		updates := map[string]any{"index_counter": state.IndexCounter}
		if batch.NextCounter != nil {
			updates["package_counter"] = *batch.NextCounter
		}
		if err := tx.Model(&ledgerStateModel{}).
			Where("id = ?", ledgerStateID).
			Updates(updates).Error; err != nil {
			return err
		}

		for _, event := range batch.Events {
			if err := appendOutbox(tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) UpdatePackageWithOutbox(ctx context.Context, pkg entities.Package, lockedDelta int64, evs []ports.EventEnvelope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := packageModelFrom(pkg)
		if err != nil {
			return err
		}
		result := tx.Model(&packageModel{}).
			Where("package_id = ?", pkg.ID).
			Updates(map[string]any{
				"status":     row.Status,
				"expires_at": row.ExpiresAt,
				"metadata":   row.Metadata,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPackageNotFound
		}

		if lockedDelta != 0 {
			if err := adjustLocked(tx, pkg.Asset, lockedDelta); err != nil {
				return err
			}
		}
		for _, event := range evs {
			if err := appendOutbox(tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) AppendOutbox(ctx context.Context, event ports.EventEnvelope) error {
	return appendOutbox(r.db.WithContext(ctx), event)
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	ts := sentAt.UTC()
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outbox.StatusSent,
			"sent_at": &ts,
		}).Error
}

func (r *Repository) loadState(ctx context.Context, db *gorm.DB) (ledgerStateModel, error) {
	var state ledgerStateModel
	err := db.WithContext(ctx).
		Where("id = ?", ledgerStateID).
		First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ledgerStateModel{}, domainerrors.ErrNotInitialized
		}
		return ledgerStateModel{}, err
	}
	return state, nil
}

func (r *Repository) loadStateForUpdate(tx *gorm.DB) (ledgerStateModel, error) {
	var state ledgerStateModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", ledgerStateID).
		First(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ledgerStateModel{}, domainerrors.ErrNotInitialized
		}
		return ledgerStateModel{}, err
	}
	return state, nil
}

// adjustLocked applies a locked-balance delta, floor-clamping releases at
// zero.
func adjustLocked(tx *gorm.DB, asset string, delta int64) error {
	var row lockedBalanceModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("asset = ?", asset).
		First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row = lockedBalanceModel{Asset: asset}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	next := row.Amount + delta
	if next < 0 {
		next = 0
	}
	return tx.Model(&lockedBalanceModel{}).
		Where("asset = ?", asset).
		Update("amount", next).Error
}

func appendOutbox(tx *gorm.DB, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return tx.Create(&outboxModel{
		OutboxID:  event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		Status:    outbox.StatusPending,
		CreatedAt: event.OccurredAtUTC.UTC(),
	}).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
