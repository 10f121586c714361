package postgresadapter

import (
	"encoding/json"
	"time"

	"aidvault/contexts/aid-disbursement/escrow-ledger/domain/entities"
)

// ledgerStateModel is the singleton ledger-state aggregate: administrator,
// tunables, pause flag, and both counters live in one row so composite
// writes can lock them together.
type ledgerStateModel struct {
	ID             int    `gorm:"column:id;primaryKey"`
	Admin          string `gorm:"column:admin"`
	Paused         bool   `gorm:"column:paused"`
	MinAmount      int64  `gorm:"column:min_amount"`
	MaxExpiresIn   int64  `gorm:"column:max_expires_in"`
	AllowedAssets  string `gorm:"column:allowed_assets"`
	PackageCounter uint64 `gorm:"column:package_counter"`
	IndexCounter   uint64 `gorm:"column:index_counter"`
}

func (ledgerStateModel) TableName() string {
	return "escrow_ledger_state"
}

func ledgerStateFrom(admin string, cfg entities.Config) (ledgerStateModel, error) {
	allowed, err := json.Marshal(cfg.AllowedAssets)
	if err != nil {
		return ledgerStateModel{}, err
	}
	return ledgerStateModel{
		ID:            ledgerStateID,
		Admin:         admin,
		MinAmount:     cfg.MinAmount,
		MaxExpiresIn:  cfg.MaxExpiresIn,
		AllowedAssets: string(allowed),
	}, nil
}

func (m ledgerStateModel) toConfig() (entities.Config, error) {
	var allowed []string
	if m.AllowedAssets != "" {
		if err := json.Unmarshal([]byte(m.AllowedAssets), &allowed); err != nil {
			return entities.Config{}, err
		}
	}
	return entities.Config{
		MinAmount:     m.MinAmount,
		MaxExpiresIn:  m.MaxExpiresIn,
		AllowedAssets: allowed,
	}, nil
}

type packageModel struct {
	PackageID uint64 `gorm:"column:package_id;primaryKey;autoIncrement:false"`
	Recipient string `gorm:"column:recipient"`
	Amount    int64  `gorm:"column:amount"`
	Asset     string `gorm:"column:asset"`
	Status    string `gorm:"column:status"`
	CreatedAt int64  `gorm:"column:created_at"`
	ExpiresAt int64  `gorm:"column:expires_at"`
	Metadata  string `gorm:"column:metadata"`
}

func (packageModel) TableName() string {
	return "escrow_packages"
}

func packageModelFrom(pkg entities.Package) (packageModel, error) {
	metadata, err := json.Marshal(pkg.Metadata)
	if err != nil {
		return packageModel{}, err
	}
	return packageModel{
		PackageID: pkg.ID,
		Recipient: pkg.Recipient,
		Amount:    pkg.Amount,
		Asset:     pkg.Asset,
		Status:    string(pkg.Status),
		CreatedAt: pkg.CreatedAt,
		ExpiresAt: pkg.ExpiresAt,
		Metadata:  string(metadata),
	}, nil
}

func (m packageModel) toEntity() (entities.Package, error) {
	metadata := map[string]string{}
	if m.Metadata != "" {
		if err := json.Unmarshal([]byte(m.Metadata), &metadata); err != nil {
			return entities.Package{}, err
		}
	}
	return entities.Package{
		ID:        m.PackageID,
		Recipient: m.Recipient,
		Amount:    m.Amount,
		Asset:     m.Asset,
		Status:    entities.PackageStatus(m.Status),
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		Metadata:  metadata,
	}, nil
}

type lockedBalanceModel struct {
	Asset  string `gorm:"column:asset;primaryKey"`
	Amount int64  `gorm:"column:amount"`
}

func (lockedBalanceModel) TableName() string {
	return "escrow_locked_balances"
}

type distributorModel struct {
	Principal string `gorm:"column:principal;primaryKey"`
}

func (distributorModel) TableName() string {
	return "escrow_distributors"
}

type indexEntryModel struct {
	Ordinal   uint64 `gorm:"column:ordinal;primaryKey;autoIncrement:false"`
	PackageID uint64 `gorm:"column:package_id"`
}

func (indexEntryModel) TableName() string {
	return "escrow_package_index"
}

type outboxModel struct {
	OutboxID  string     `gorm:"column:outbox_id;primaryKey"`
	EventType string     `gorm:"column:event_type"`
	Payload   []byte     `gorm:"column:payload"`
	Status    string     `gorm:"column:status"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "escrow_outbox"
}
