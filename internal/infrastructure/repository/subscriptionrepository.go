package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rebill/internal/domain/billing"
	vo "rebill/internal/domain/billing/valueobjects"
	"rebill/internal/infrastructure/persistence/mappers"
	"rebill/internal/infrastructure/persistence/models"
	"rebill/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) billing.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscription *billing.Subscription) error {
	model, err := r.mapper.ToModel(subscription)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "sid", subscription.ID(), "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id string) (*billing.Subscription, error) {
	var model models.SubscriptionModel

	if err := r.db.WithContext(ctx).Where("sid = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription by ID", "sid", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map subscription model to entity", "sid", id, "error", err)
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}

	return entity, nil
}

func (r *SubscriptionRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&models.SubscriptionModel{}).Where("sid = ?", id).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check subscription existence", "sid", id, "error", err)
		return false, fmt.Errorf("failed to check subscription existence: %w", err)
	}

	return count > 0, nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscription *billing.Subscription) error {
	model, err := r.mapper.ToModel(subscription)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("sid = ?", subscription.ID()).
		Updates(map[string]any{
			"status":               model.Status,
			"current_period_start": model.CurrentPeriodStart,
			"current_period_end":   model.CurrentPeriodEnd,
			"cancel_at_period_end": model.CancelAtPeriodEnd,
			"paused_at":            model.PausedAt,
			"payment_count":        model.PaymentCount,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription in database", "sid", subscription.ID(), "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("subscription not found: %s", subscription.ID())
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) GetBySubscriber(ctx context.Context, subscriber string) ([]*billing.Subscription, error) {
	var subModels []*models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Where("subscriber = ?", subscriber).
		Order("created_at ASC, id ASC").
		Find(&subModels).Error; err != nil {
		r.logger.Errorw("failed to get subscriptions by subscriber", "subscriber", subscriber, "error", err)
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}

	return r.mapper.ToEntities(subModels)
}

func (r *SubscriptionRepositoryImpl) ListByPlan(ctx context.Context, planID string, offset, limit int) ([]*billing.Subscription, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.SubscriptionModel{}).
		Where("plan_id = ?", planID).
		Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count subscriptions by plan", "plan_id", planID, "error", err)
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var subModels []*models.SubscriptionModel
	query := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("created_at ASC, id ASC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&subModels).Error; err != nil {
		r.logger.Errorw("failed to list subscriptions by plan", "plan_id", planID, "error", err)
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(subModels)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

func (r *SubscriptionRepositoryImpl) ListActive(ctx context.Context) ([]*billing.Subscription, error) {
	var subModels []*models.SubscriptionModel

	if err := r.db.WithContext(ctx).
		Where("status = ?", vo.StatusActive.String()).
		Order("current_period_end ASC, sid ASC").
		Find(&subModels).Error; err != nil {
		r.logger.Errorw("failed to list active subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	return r.mapper.ToEntities(subModels)
}
