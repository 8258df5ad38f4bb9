package payment

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderAlreadyPaid = errors.New("order already paid")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrMerchantRequired = errors.New("merchant is required")
)
