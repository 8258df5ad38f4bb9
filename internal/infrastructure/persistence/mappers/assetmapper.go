package mappers

import (
	"fmt"

	"rebill/internal/domain/asset"
	"rebill/internal/infrastructure/persistence/models"
)

type AssetMapper interface {
	ToEntity(model *models.AssetModel) (*asset.Asset, error)
	ToModel(entity *asset.Asset) (*models.AssetModel, error)
	ToEntities(models []*models.AssetModel) ([]*asset.Asset, error)
}

type AssetMapperImpl struct{}

func NewAssetMapper() AssetMapper {
	return &AssetMapperImpl{}
}

func (m *AssetMapperImpl) ToEntity(model *models.AssetModel) (*asset.Asset, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := asset.ReconstructAsset(model.AssetID, model.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct asset entity: %w", err)
	}

	return entity, nil
}

func (m *AssetMapperImpl) ToModel(entity *asset.Asset) (*models.AssetModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.AssetModel{
		AssetID: entity.ID(),
		AddedAt: entity.AddedAt(),
	}, nil
}

func (m *AssetMapperImpl) ToEntities(assetModels []*models.AssetModel) ([]*asset.Asset, error) {
	entities := make([]*asset.Asset, 0, len(assetModels))
	for _, model := range assetModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
