package mappers

import (
	"fmt"

	"rebill/internal/domain/payment"
	"rebill/internal/infrastructure/persistence/models"
)

type OneTimePaymentMapper interface {
	ToEntity(model *models.OneTimePaymentModel) (*payment.OneTimePayment, error)
	ToModel(entity *payment.OneTimePayment) (*models.OneTimePaymentModel, error)
}

type OneTimePaymentMapperImpl struct{}

func NewOneTimePaymentMapper() OneTimePaymentMapper {
	return &OneTimePaymentMapperImpl{}
}

func (m *OneTimePaymentMapperImpl) ToEntity(model *models.OneTimePaymentModel) (*payment.OneTimePayment, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := payment.ReconstructOneTimePayment(
		model.OrderID,
		model.Payer,
		model.Merchant,
		model.Amount,
		model.Asset,
		model.Paid,
		model.PaidAt,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct one-time payment entity: %w", err)
	}

	return entity, nil
}

func (m *OneTimePaymentMapperImpl) ToModel(entity *payment.OneTimePayment) (*models.OneTimePaymentModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.OneTimePaymentModel{
		OrderID:   entity.OrderID(),
		Payer:     entity.Payer(),
		Merchant:  entity.Merchant(),
		Amount:    entity.Amount(),
		Asset:     entity.Asset(),
		Paid:      entity.IsPaid(),
		PaidAt:    entity.PaidAt(),
		CreatedAt: entity.CreatedAt(),
	}, nil
}
