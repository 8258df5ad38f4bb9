package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rebill/internal/domain/asset"
	"rebill/internal/infrastructure/persistence/mappers"
	"rebill/internal/infrastructure/persistence/models"
	"rebill/internal/shared/logger"
)

type AssetRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AssetMapper
	logger logger.Interface
}

func NewAssetRepository(db *gorm.DB, logger logger.Interface) asset.Repository {
	return &AssetRepositoryImpl{
		db:     db,
		mapper: mappers.NewAssetMapper(),
		logger: logger,
	}
}

func (r *AssetRepositoryImpl) Add(ctx context.Context, a *asset.Asset) error {
	model, err := r.mapper.ToModel(a)
	if err != nil {
		r.logger.Errorw("failed to map asset entity to model", "error", err)
		return fmt.Errorf("failed to map asset entity: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to add asset to database", "asset_id", a.ID(), "error", err)
		return fmt.Errorf("failed to add asset: %w", err)
	}

	return nil
}

func (r *AssetRepositoryImpl) Remove(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("asset_id = ?", id).Delete(&models.AssetModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to remove asset from database", "asset_id", id, "error", result.Error)
		return fmt.Errorf("failed to remove asset: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("asset not found: %s", id)
	}

	return nil
}

func (r *AssetRepositoryImpl) GetByID(ctx context.Context, id string) (*asset.Asset, error) {
	var model models.AssetModel

	if err := r.db.WithContext(ctx).Where("asset_id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get asset by ID", "asset_id", id, "error", err)
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map asset model to entity", "asset_id", id, "error", err)
		return nil, fmt.Errorf("failed to map asset: %w", err)
	}

	return entity, nil
}

func (r *AssetRepositoryImpl) Exists(ctx context.Context, id string) (bool, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&models.AssetModel{}).Where("asset_id = ?", id).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check asset existence", "asset_id", id, "error", err)
		return false, fmt.Errorf("failed to check asset existence: %w", err)
	}

	return count > 0, nil
}

func (r *AssetRepositoryImpl) List(ctx context.Context) ([]*asset.Asset, error) {
	var assetModels []*models.AssetModel

	if err := r.db.WithContext(ctx).Order("id ASC").Find(&assetModels).Error; err != nil {
		r.logger.Errorw("failed to list assets", "error", err)
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	return r.mapper.ToEntities(assetModels)
}
