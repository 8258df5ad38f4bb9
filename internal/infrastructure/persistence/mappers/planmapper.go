package mappers

import (
	"fmt"
	"time"

	"rebill/internal/domain/billing"
	"rebill/internal/infrastructure/persistence/models"
)

type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*billing.Plan, error)
	ToModel(entity *billing.Plan) (*models.PlanModel, error)
	ToEntities(models []*models.PlanModel) ([]*billing.Plan, error)
}

type PlanMapperImpl struct{}

func NewPlanMapper() PlanMapper {
	return &PlanMapperImpl{}
}

func (m *PlanMapperImpl) ToEntity(model *models.PlanModel) (*billing.Plan, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := billing.ReconstructPlan(
		model.PlanID,
		model.Amount,
		model.Asset,
		time.Duration(model.IntervalSeconds)*time.Second,
		model.Merchant,
		model.Active,
		model.SubscriberCount,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}

	return entity, nil
}

func (m *PlanMapperImpl) ToModel(entity *billing.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.PlanModel{
		PlanID:          entity.ID(),
		Amount:          entity.Amount(),
		Asset:           entity.Asset(),
		IntervalSeconds: int64(entity.Interval() / time.Second),
		Merchant:        entity.Merchant(),
		Active:          entity.IsActive(),
		SubscriberCount: entity.SubscriberCount(),
		Version:         entity.Version(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

func (m *PlanMapperImpl) ToEntities(planModels []*models.PlanModel) ([]*billing.Plan, error) {
	entities := make([]*billing.Plan, 0, len(planModels))
	for _, model := range planModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
