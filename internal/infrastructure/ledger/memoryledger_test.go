package ledger

import (
	"context"
	"testing"

	domain "rebill/internal/domain/ledger"
)

func TestMemoryLedger_Pull(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger("NATIVE")
	l.Credit("U1", "USDT", 1000)
	l.Approve("U1", "engine", "USDT", 600)

	if err := l.Pull(ctx, "engine", "U1", "M1", "USDT", 500); err != nil {
		t.Fatalf("Pull() error = %v", err)
	}

	balance, _ := l.BalanceOf(ctx, "U1", "USDT")
	if balance != 500 {
		t.Errorf("payer balance = %d, want 500", balance)
	}
	balance, _ = l.BalanceOf(ctx, "M1", "USDT")
	if balance != 500 {
		t.Errorf("merchant balance = %d, want 500", balance)
	}
	authorized, _ := l.AuthorizedAmount(ctx, "U1", "engine", "USDT")
	if authorized != 100 {
		t.Errorf("remaining allowance = %d, want 100", authorized)
	}
}

func TestMemoryLedger_PullFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(*MemoryLedger)
		asset string
	}{
		{
			name:  "no allowance",
			setup: func(l *MemoryLedger) { l.Credit("U1", "USDT", 1000) },
			asset: "USDT",
		},
		{
			name: "insufficient balance",
			setup: func(l *MemoryLedger) {
				l.Credit("U1", "USDT", 100)
				l.Approve("U1", "engine", "USDT", 1000)
			},
			asset: "USDT",
		},
		{
			name: "native asset never pulls",
			setup: func(l *MemoryLedger) {
				l.Credit("U1", "NATIVE", 1000)
				l.Approve("U1", "engine", "NATIVE", 1000)
			},
			asset: "NATIVE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewMemoryLedger("NATIVE")
			tt.setup(l)

			err := l.Pull(ctx, "engine", "U1", "M1", tt.asset, 500)
			if !domain.IsTransferFailure(err) {
				t.Errorf("Pull() error = %v, want transfer failure", err)
			}

			// A failed pull moves nothing
			balance, _ := l.BalanceOf(ctx, "M1", tt.asset)
			if balance != 0 {
				t.Errorf("merchant balance after failed pull = %d, want 0", balance)
			}
		})
	}
}

func TestMemoryLedger_Push(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger("NATIVE")
	l.Credit("U1", "USDT", 1000)

	// Overpayment: only the amount moves, the excess stays with the payer
	if err := l.Push(ctx, "U1", "M1", "USDT", 300, 500); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	balance, _ := l.BalanceOf(ctx, "U1", "USDT")
	if balance != 700 {
		t.Errorf("payer balance = %d, want 700", balance)
	}

	// Underfunding fails with no transfer
	err := l.Push(ctx, "U1", "M1", "USDT", 300, 200)
	if !domain.IsTransferFailure(err) {
		t.Errorf("underfunded Push() error = %v, want transfer failure", err)
	}
	balance, _ = l.BalanceOf(ctx, "M1", "USDT")
	if balance != 300 {
		t.Errorf("merchant balance = %d, want 300", balance)
	}
}

func TestMemoryLedger_NativeAssetAuthorization(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger("NATIVE")
	l.Approve("U1", "engine", "NATIVE", 1000)

	authorized, err := l.AuthorizedAmount(ctx, "U1", "engine", "NATIVE")
	if err != nil {
		t.Fatalf("AuthorizedAmount() error = %v", err)
	}
	if authorized != 0 {
		t.Errorf("native asset authorization = %d, want 0", authorized)
	}
}
