package memory

import (
	"context"
	"errors"
	"sync"
)

// TokenLedger is an in-process asset-transfer collaborator: per-asset
// account balances with mint for test and local setup. Production wiring
// swaps in a client for the real transfer service.
type TokenLedger struct {
	mu       sync.RWMutex
	balances map[string]map[string]int64
}

func NewTokenLedger() *TokenLedger {
	return &TokenLedger{balances: make(map[string]map[string]int64)}
}

// Mint credits an account out of thin air. Setup helper, not a ledger
// operation.
func (t *TokenLedger) Mint(asset string, account string, amount int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[asset] == nil {
		t.balances[asset] = make(map[string]int64)
	}
	t.balances[asset][account] += amount
}

func (t *TokenLedger) Balance(_ context.Context, asset string, account string) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.balances[asset][account], nil
}

func (t *TokenLedger) Transfer(_ context.Context, asset string, from string, to string, amount int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if amount <= 0 {
		return errors.New("transfer amount must be positive")
	}
	if t.balances[asset][from] < amount {
		return errors.New("insufficient token balance")
	}
	if t.balances[asset] == nil {
		t.balances[asset] = make(map[string]int64)
	}
	t.balances[asset][from] -= amount
	t.balances[asset][to] += amount
	return nil
}
