package billing

import (
	"errors"
	"fmt"
)

var (
	ErrPlanNotFound            = errors.New("plan not found")
	ErrPlanAlreadyExists       = errors.New("plan already exists")
	ErrPlanInactive            = errors.New("plan inactive")
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrInvalidInterval         = errors.New("interval must be at least one day")
	ErrMerchantRequired        = errors.New("merchant is required")
	ErrAssetNotSupported       = errors.New("asset not supported")
	ErrInvalidTrial            = errors.New("trial must be at least one day")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
