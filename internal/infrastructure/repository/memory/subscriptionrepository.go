package memory

import (
	"context"
	"sort"
	"sync"

	"rebill/internal/domain/billing"
	vo "rebill/internal/domain/billing/valueobjects"
)

type SubscriptionRepository struct {
	mu            sync.RWMutex
	subscriptions map[string]*billing.Subscription
}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{
		subscriptions: make(map[string]*billing.Subscription),
	}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subscriptions[sub.ID()] = sub
	return nil
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*billing.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.subscriptions[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.subscriptions[id]
	return ok, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *billing.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subscriptions[sub.ID()]; !ok {
		return billing.ErrSubscriptionNotFound
	}
	r.subscriptions[sub.ID()] = sub
	return nil
}

func (r *SubscriptionRepository) GetBySubscriber(ctx context.Context, subscriber string) ([]*billing.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*billing.Subscription
	for _, s := range r.subscriptions {
		if s.Subscriber() == subscriber {
			out = append(out, s)
		}
	}
	sortByPeriodEnd(out)
	return out, nil
}

func (r *SubscriptionRepository) ListByPlan(ctx context.Context, planID string, offset, limit int) ([]*billing.Subscription, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*billing.Subscription
	for _, s := range r.subscriptions {
		if s.PlanID() == planID {
			all = append(all, s)
		}
	}
	sortByPeriodEnd(all)

	total := int64(len(all))
	page := paginate(all, offset, limit)
	return page, total, nil
}

func (r *SubscriptionRepository) ListActive(ctx context.Context) ([]*billing.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*billing.Subscription
	for _, s := range r.subscriptions {
		if s.Status() == vo.StatusActive {
			out = append(out, s)
		}
	}
	sortByPeriodEnd(out)
	return out, nil
}

func sortByPeriodEnd(subs []*billing.Subscription) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].CurrentPeriodEnd().Equal(subs[j].CurrentPeriodEnd()) {
			return subs[i].ID() < subs[j].ID()
		}
		return subs[i].CurrentPeriodEnd().Before(subs[j].CurrentPeriodEnd())
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
