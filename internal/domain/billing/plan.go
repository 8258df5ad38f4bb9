package billing

import (
	"fmt"
	"strings"
	"time"
)

// MinInterval is the shortest allowed charge interval for a plan.
const MinInterval = 24 * time.Hour

// Plan represents a recurring charge template: amount, asset, interval and
// the merchant that collects the charges. Plans are never physically
// deleted; the merchant or administrator may deactivate them.
type Plan struct {
	id              string
	amount          int64
	asset           string
	interval        time.Duration
	merchant        string
	active          bool
	subscriberCount uint64
	version         int
	createdAt       time.Time
	updatedAt       time.Time
}

// NewPlan creates a new active plan. The amount is in the asset's smallest
// unit. Asset registration is validated by the caller against the registry.
func NewPlan(id string, amount int64, assetID string, interval time.Duration, merchant string, now time.Time) (*Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if interval < MinInterval {
		return nil, ErrInvalidInterval
	}
	if strings.TrimSpace(merchant) == "" {
		return nil, ErrMerchantRequired
	}
	if strings.TrimSpace(assetID) == "" {
		return nil, ErrAssetNotSupported
	}

	return &Plan{
		id:        id,
		amount:    amount,
		asset:     assetID,
		interval:  interval,
		merchant:  merchant,
		active:    true,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPlan reconstructs a plan from persistence
func ReconstructPlan(
	id string,
	amount int64,
	assetID string,
	interval time.Duration,
	merchant string,
	active bool,
	subscriberCount uint64,
	version int,
	createdAt, updatedAt time.Time,
) (*Plan, error) {
	if id == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	return &Plan{
		id:              id,
		amount:          amount,
		asset:           assetID,
		interval:        interval,
		merchant:        merchant,
		active:          active,
		subscriberCount: subscriberCount,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

// ID returns the plan identifier
func (p *Plan) ID() string {
	return p.id
}

// Amount returns the charge amount in the asset's smallest unit
func (p *Plan) Amount() int64 {
	return p.amount
}

// Asset returns the asset identifier charges are taken in
func (p *Plan) Asset() string {
	return p.asset
}

// Interval returns the charge interval
func (p *Plan) Interval() time.Duration {
	return p.interval
}

// Merchant returns the merchant identifier
func (p *Plan) Merchant() string {
	return p.merchant
}

// IsActive returns whether the plan accepts new activity
func (p *Plan) IsActive() bool {
	return p.active
}

// SubscriberCount returns the number of subscriptions ever created on the
// plan. The count never decreases.
func (p *Plan) SubscriberCount() uint64 {
	return p.subscriberCount
}

// Version returns the aggregate version for optimistic locking
func (p *Plan) Version() int {
	return p.version
}

// CreatedAt returns when the plan was created
func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns when the plan was last updated
func (p *Plan) UpdatedAt() time.Time {
	return p.updatedAt
}

// SetActive updates the active flag
func (p *Plan) SetActive(active bool, now time.Time) {
	if p.active == active {
		return
	}

	p.active = active
	p.updatedAt = now
	p.version++
}

// IncrementSubscribers records a new enrollment on the plan
func (p *Plan) IncrementSubscribers(now time.Time) {
	p.subscriberCount++
	p.updatedAt = now
	p.version++
}

// IsManagedBy reports whether caller is the plan's merchant
func (p *Plan) IsManagedBy(caller string) bool {
	return caller != "" && caller == p.merchant
}
