package billing

import (
	"context"
)

// PlanRepository persists plans. Get methods return (nil, nil) when the
// plan does not exist.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id string) (*Plan, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, plan *Plan) error
}

// SubscriptionRepository persists subscriptions. Subscriptions are never
// deleted; terminal statuses are retained for audit.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, subscription *Subscription) error

	GetBySubscriber(ctx context.Context, subscriber string) ([]*Subscription, error)
	ListByPlan(ctx context.Context, planID string, offset, limit int) ([]*Subscription, int64, error)

	// ListActive returns all non-terminal active subscriptions ordered by
	// current period end, then ID. Backing stores should index on the
	// period end column; the pending-charge scan pages over this set.
	ListActive(ctx context.Context) ([]*Subscription, error)
}

// PaymentRecordRepository persists the append-only charge history.
type PaymentRecordRepository interface {
	Append(ctx context.Context, record *PaymentRecord) error

	// ListBySubscription returns records in charge order with the true
	// total size of the history, regardless of the page requested.
	ListBySubscription(ctx context.Context, subscriptionID string, offset, limit int) ([]*PaymentRecord, int64, error)

	CountBySubscription(ctx context.Context, subscriptionID string) (int64, error)
}
