package payment

import "context"

// Repository persists one-time payments keyed by order identifier.
// GetByOrderID returns (nil, nil) when the order does not exist.
type Repository interface {
	Create(ctx context.Context, payment *OneTimePayment) error
	GetByOrderID(ctx context.Context, orderID string) (*OneTimePayment, error)
	Exists(ctx context.Context, orderID string) (bool, error)
}
