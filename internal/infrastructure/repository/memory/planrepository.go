package memory

import (
	"context"
	"sync"

	"rebill/internal/domain/billing"
)

type PlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*billing.Plan
}

func NewPlanRepository() *PlanRepository {
	return &PlanRepository{
		plans: make(map[string]*billing.Plan),
	}
}

func (r *PlanRepository) Create(ctx context.Context, plan *billing.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[plan.ID()]; ok {
		return billing.ErrPlanAlreadyExists
	}
	r.plans[plan.ID()] = plan
	return nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id string) (*billing.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *PlanRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plans[id]
	return ok, nil
}

func (r *PlanRepository) Update(ctx context.Context, plan *billing.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[plan.ID()]; !ok {
		return billing.ErrPlanNotFound
	}
	r.plans[plan.ID()] = plan
	return nil
}
