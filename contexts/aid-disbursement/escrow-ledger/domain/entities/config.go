package entities

import (
	domainerrors "aidvault/contexts/aid-disbursement/escrow-ledger/domain/errors"
)

// Config holds the operator tunables. MaxExpiresIn == 0 means no horizon
// limit; an empty AllowedAssets list allows every asset.
type Config struct {
	MinAmount     int64
	MaxExpiresIn  int64
	AllowedAssets []string
}

func DefaultConfig() Config {
	return Config{MinAmount: 1}
}

func (c Config) Validate() error {
	if c.MinAmount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	return nil
}

// AssetAllowed checks membership against the allowlist.
func (c Config) AssetAllowed(asset string) bool {
	if len(c.AllowedAssets) == 0 {
		return true
	}
	for _, allowed := range c.AllowedAssets {
		if allowed == asset {
			return true
		}
	}
	return false
}

// Aggregates bucket the full package population of one asset by status.
// Derived on demand; never stored.
type Aggregates struct {
	TotalCommitted        int64
	TotalClaimed          int64
	TotalExpiredCancelled int64
}
