package memory

import (
	"context"
	"sync"

	"rebill/internal/domain/payment"
)

type OneTimePaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*payment.OneTimePayment
}

func NewOneTimePaymentRepository() *OneTimePaymentRepository {
	return &OneTimePaymentRepository{
		payments: make(map[string]*payment.OneTimePayment),
	}
}

func (r *OneTimePaymentRepository) Create(ctx context.Context, p *payment.OneTimePayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[p.OrderID()]; ok {
		return payment.ErrOrderAlreadyPaid
	}
	r.payments[p.OrderID()] = p
	return nil
}

func (r *OneTimePaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*payment.OneTimePayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[orderID]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *OneTimePaymentRepository) Exists(ctx context.Context, orderID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.payments[orderID]
	return ok, nil
}
