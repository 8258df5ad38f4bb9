package memory

import (
	"context"
	"sync"

	"rebill/internal/domain/billing"
)

type PaymentRecordRepository struct {
	mu      sync.RWMutex
	records map[string][]*billing.PaymentRecord
}

func NewPaymentRecordRepository() *PaymentRecordRepository {
	return &PaymentRecordRepository{
		records: make(map[string][]*billing.PaymentRecord),
	}
}

func (r *PaymentRecordRepository) Append(ctx context.Context, record *billing.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.SubscriptionID()] = append(r.records[record.SubscriptionID()], record)
	return nil
}

func (r *PaymentRecordRepository) ListBySubscription(ctx context.Context, subscriptionID string, offset, limit int) ([]*billing.PaymentRecord, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.records[subscriptionID]
	total := int64(len(history))
	page := paginate(history, offset, limit)
	return page, total, nil
}

func (r *PaymentRecordRepository) CountBySubscription(ctx context.Context, subscriptionID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.records[subscriptionID])), nil
}
