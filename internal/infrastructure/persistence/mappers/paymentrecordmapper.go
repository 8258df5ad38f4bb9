package mappers

import (
	"fmt"

	"rebill/internal/domain/billing"
	"rebill/internal/infrastructure/persistence/models"
)

type PaymentRecordMapper interface {
	ToEntity(model *models.PaymentRecordModel) (*billing.PaymentRecord, error)
	ToModel(entity *billing.PaymentRecord) (*models.PaymentRecordModel, error)
	ToEntities(models []*models.PaymentRecordModel) ([]*billing.PaymentRecord, error)
}

type PaymentRecordMapperImpl struct{}

func NewPaymentRecordMapper() PaymentRecordMapper {
	return &PaymentRecordMapperImpl{}
}

func (m *PaymentRecordMapperImpl) ToEntity(model *models.PaymentRecordModel) (*billing.PaymentRecord, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := billing.ReconstructPaymentRecord(
		model.RecordID,
		model.SubscriptionID,
		model.Amount,
		model.ChargedAt,
		model.PeriodStart,
		model.PeriodEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct payment record entity: %w", err)
	}

	return entity, nil
}

func (m *PaymentRecordMapperImpl) ToModel(entity *billing.PaymentRecord) (*models.PaymentRecordModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.PaymentRecordModel{
		RecordID:       entity.ID(),
		SubscriptionID: entity.SubscriptionID(),
		Amount:         entity.Amount(),
		ChargedAt:      entity.ChargedAt(),
		PeriodStart:    entity.PeriodStart(),
		PeriodEnd:      entity.PeriodEnd(),
	}, nil
}

func (m *PaymentRecordMapperImpl) ToEntities(recordModels []*models.PaymentRecordModel) ([]*billing.PaymentRecord, error) {
	entities := make([]*billing.PaymentRecord, 0, len(recordModels))
	for _, model := range recordModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
