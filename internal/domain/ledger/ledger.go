// Package ledger defines the external value-transfer ledger consumed by the
// billing engine. The engine never retries a transfer and treats any error
// from the ledger identically to a failed transfer.
package ledger

import (
	"context"
	"errors"
)

// ErrTransferFailed is returned (possibly wrapped) when a push or pull
// transfer is rejected by the ledger. Callers distinguish it from
// programming errors with errors.Is.
var ErrTransferFailed = errors.New("ledger transfer failed")

// IsTransferFailure reports whether err represents a rejected transfer.
func IsTransferFailure(err error) bool {
	return errors.Is(err, ErrTransferFailed)
}

// Ledger is the value-transfer ledger the engine charges against.
//
// Pull draws pre-authorized funds from a payer; the payer must have granted
// an allowance to the engine's spender identity beforehand. For the asset
// the ledger designates as native there is no authorization concept, so
// Pull on the native asset always fails.
//
// Push moves caller-supplied funds: the caller attaches `provided` units
// with the call, the ledger transfers `amount` of them to the recipient and
// returns the excess to the caller. Underfunding fails the transfer.
//
// Transfers are synchronous and atomic: they fully succeed or fully fail,
// with no partial application.
type Ledger interface {
	// BalanceOf returns the available balance of holder for the asset.
	BalanceOf(ctx context.Context, holder, asset string) (int64, error)

	// AuthorizedAmount returns how much spender may pull from holder.
	AuthorizedAmount(ctx context.Context, holder, spender, asset string) (int64, error)

	// Pull transfers amount from `from` to `to` using a prior authorization
	// granted to spender. Returns ErrTransferFailed (wrapped) on rejection.
	Pull(ctx context.Context, spender, from, to, asset string, amount int64) error

	// Push transfers amount of the caller-supplied `provided` funds from
	// `from` to `to`, refunding any excess to `from`. Returns
	// ErrTransferFailed (wrapped) on rejection, including underfunding.
	Push(ctx context.Context, from, to, asset string, amount, provided int64) error
}
