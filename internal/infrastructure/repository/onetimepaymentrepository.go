package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rebill/internal/domain/payment"
	"rebill/internal/infrastructure/persistence/mappers"
	"rebill/internal/infrastructure/persistence/models"
	"rebill/internal/shared/logger"
)

type OneTimePaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.OneTimePaymentMapper
	logger logger.Interface
}

func NewOneTimePaymentRepository(db *gorm.DB, logger logger.Interface) payment.Repository {
	return &OneTimePaymentRepositoryImpl{
		db:     db,
		mapper: mappers.NewOneTimePaymentMapper(),
		logger: logger,
	}
}

func (r *OneTimePaymentRepositoryImpl) Create(ctx context.Context, otp *payment.OneTimePayment) error {
	model, err := r.mapper.ToModel(otp)
	if err != nil {
		r.logger.Errorw("failed to map payment entity to model", "error", err)
		return fmt.Errorf("failed to map payment entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create payment in database", "order_id", otp.OrderID(), "error", err)
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *OneTimePaymentRepositoryImpl) GetByOrderID(ctx context.Context, orderID string) (*payment.OneTimePayment, error) {
	var model models.OneTimePaymentModel

	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get payment by order ID", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map payment model to entity", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to map payment: %w", err)
	}

	return entity, nil
}

func (r *OneTimePaymentRepositoryImpl) Exists(ctx context.Context, orderID string) (bool, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&models.OneTimePaymentModel{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check payment existence", "order_id", orderID, "error", err)
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}

	return count > 0, nil
}
