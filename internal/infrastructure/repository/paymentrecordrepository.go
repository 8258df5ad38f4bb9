package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rebill/internal/domain/billing"
	"rebill/internal/infrastructure/persistence/mappers"
	"rebill/internal/infrastructure/persistence/models"
	"rebill/internal/shared/logger"
)

type PaymentRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PaymentRecordMapper
	logger logger.Interface
}

func NewPaymentRecordRepository(db *gorm.DB, logger logger.Interface) billing.PaymentRecordRepository {
	return &PaymentRecordRepositoryImpl{
		db:     db,
		mapper: mappers.NewPaymentRecordMapper(),
		logger: logger,
	}
}

func (r *PaymentRecordRepositoryImpl) Append(ctx context.Context, record *billing.PaymentRecord) error {
	model, err := r.mapper.ToModel(record)
	if err != nil {
		r.logger.Errorw("failed to map payment record entity to model", "error", err)
		return fmt.Errorf("failed to map payment record entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append payment record", "record_id", record.ID(), "error", err)
		return fmt.Errorf("failed to append payment record: %w", err)
	}

	return nil
}

func (r *PaymentRecordRepositoryImpl) ListBySubscription(ctx context.Context, subscriptionID string, offset, limit int) ([]*billing.PaymentRecord, int64, error) {
	total, err := r.CountBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, 0, err
	}

	var recordModels []*models.PaymentRecordModel
	query := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("charged_at ASC, id ASC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recordModels).Error; err != nil {
		r.logger.Errorw("failed to list payment records", "subscription_id", subscriptionID, "error", err)
		return nil, 0, fmt.Errorf("failed to list payment records: %w", err)
	}

	entities, err := r.mapper.ToEntities(recordModels)
	if err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

func (r *PaymentRecordRepositoryImpl) CountBySubscription(ctx context.Context, subscriptionID string) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&models.PaymentRecordModel{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count payment records", "subscription_id", subscriptionID, "error", err)
		return 0, fmt.Errorf("failed to count payment records: %w", err)
	}

	return count, nil
}
