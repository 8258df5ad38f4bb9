// Package repository provides the GORM-backed implementations of the
// domain repository interfaces.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rebill/internal/domain/billing"
	"rebill/internal/infrastructure/persistence/mappers"
	"rebill/internal/infrastructure/persistence/models"
	"rebill/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) billing.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *billing.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		r.logger.Errorw("failed to map plan entity to model", "error", err)
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan in database", "plan_id", plan.ID(), "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id string) (*billing.Plan, error) {
	var model models.PlanModel

	if err := r.db.WithContext(ctx).Where("plan_id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by ID", "plan_id", id, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map plan model to entity", "plan_id", id, "error", err)
		return nil, fmt.Errorf("failed to map plan: %w", err)
	}

	return entity, nil
}

func (r *PlanRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&models.PlanModel{}).Where("plan_id = ?", id).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check plan existence", "plan_id", id, "error", err)
		return false, fmt.Errorf("failed to check plan existence: %w", err)
	}

	return count > 0, nil
}

func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *billing.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		r.logger.Errorw("failed to map plan entity to model", "error", err)
		return fmt.Errorf("failed to map plan entity: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.PlanModel{}).
		Where("plan_id = ?", plan.ID()).
		Updates(map[string]any{
			"amount":           model.Amount,
			"asset":            model.Asset,
			"interval_seconds": model.IntervalSeconds,
			"merchant":         model.Merchant,
			"active":           model.Active,
			"subscriber_count": model.SubscriberCount,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update plan in database", "plan_id", plan.ID(), "error", result.Error)
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("plan not found: %s", plan.ID())
	}

	return nil
}
