// Package ledger provides an in-memory value-transfer ledger. It backs the
// engine's tests and the worker's dry-run mode; production deployments
// point the engine at the real ledger service instead.
package ledger

import (
	"context"
	"fmt"
	"sync"

	domain "rebill/internal/domain/ledger"
)

// MemoryLedger is a process-local implementation of the value-transfer
// ledger. The configured native asset carries no authorization concept:
// AuthorizedAmount reports zero and Pull always fails for it, so plans
// denominated in the native asset cannot auto-renew.
type MemoryLedger struct {
	mu          sync.RWMutex
	nativeAsset string
	balances    map[string]int64
	allowances  map[string]int64
}

// NewMemoryLedger creates an empty ledger with the given native asset.
func NewMemoryLedger(nativeAsset string) *MemoryLedger {
	return &MemoryLedger{
		nativeAsset: nativeAsset,
		balances:    make(map[string]int64),
		allowances:  make(map[string]int64),
	}
}

func balanceKey(holder, asset string) string {
	return holder + "\x00" + asset
}

func allowanceKey(holder, spender, asset string) string {
	return holder + "\x00" + spender + "\x00" + asset
}

// Credit adds funds to a holder's balance.
func (l *MemoryLedger) Credit(holder, asset string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[balanceKey(holder, asset)] += amount
}

// Approve grants spender the right to pull up to amount from holder.
// Approving the native asset has no effect on Pull, which is defined to
// fail for it.
func (l *MemoryLedger) Approve(holder, spender, asset string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[allowanceKey(holder, spender, asset)] = amount
}

// BalanceOf returns the available balance of holder for the asset.
func (l *MemoryLedger) BalanceOf(ctx context.Context, holder, asset string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[balanceKey(holder, asset)], nil
}

// AuthorizedAmount returns how much spender may pull from holder. The
// native asset has no authorization concept and always reports zero.
func (l *MemoryLedger) AuthorizedAmount(ctx context.Context, holder, spender, asset string) (int64, error) {
	if asset == l.nativeAsset {
		return 0, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowances[allowanceKey(holder, spender, asset)], nil
}

// Pull transfers amount from `from` to `to` against the allowance granted
// to spender. The transfer fully succeeds or fully fails.
func (l *MemoryLedger) Pull(ctx context.Context, spender, from, to, asset string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: non-positive amount", domain.ErrTransferFailed)
	}
	if asset == l.nativeAsset {
		return fmt.Errorf("%w: native asset cannot be pulled", domain.ErrTransferFailed)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ak := allowanceKey(from, spender, asset)
	if l.allowances[ak] < amount {
		return fmt.Errorf("%w: authorized amount too low", domain.ErrTransferFailed)
	}

	bk := balanceKey(from, asset)
	if l.balances[bk] < amount {
		return fmt.Errorf("%w: insufficient balance", domain.ErrTransferFailed)
	}

	l.allowances[ak] -= amount
	l.balances[bk] -= amount
	l.balances[balanceKey(to, asset)] += amount

	return nil
}

// Push transfers amount of the caller-supplied provided funds from `from`
// to `to`. Excess stays with the payer; underfunding fails the transfer.
func (l *MemoryLedger) Push(ctx context.Context, from, to, asset string, amount, provided int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: non-positive amount", domain.ErrTransferFailed)
	}
	if provided < amount {
		return fmt.Errorf("%w: provided funds below amount", domain.ErrTransferFailed)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bk := balanceKey(from, asset)
	if l.balances[bk] < amount {
		return fmt.Errorf("%w: insufficient balance", domain.ErrTransferFailed)
	}

	l.balances[bk] -= amount
	l.balances[balanceKey(to, asset)] += amount

	return nil
}

var _ domain.Ledger = (*MemoryLedger)(nil)
