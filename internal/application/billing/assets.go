package billing

import (
	"context"
	"fmt"

	"rebill/internal/domain/asset"
	apperrors "rebill/internal/shared/errors"
)

// AddAsset registers an asset identifier for payments.
func (e *Engine) AddAsset(ctx context.Context, assetID string) error {
	return e.guard.Do(func() error {
		now := e.now()

		a, err := asset.NewAsset(assetID, now)
		if err != nil {
			return apperrors.NewValidationError("invalid asset", err.Error())
		}

		exists, err := e.assets.Exists(ctx, a.ID())
		if err != nil {
			return fmt.Errorf("failed to check asset: %w", err)
		}
		if exists {
			return apperrors.NewValidationError("asset already registered", a.ID())
		}

		if err := e.assets.Add(ctx, a); err != nil {
			return fmt.Errorf("failed to add asset: %w", err)
		}

		e.logger.Infow("asset registered", "asset_id", a.ID())
		e.publish(asset.NewAssetAddedEvent(a.ID(), now))
		return nil
	})
}

// RemoveAsset removes an asset identifier from the registry. The
// configured native asset can never be removed.
func (e *Engine) RemoveAsset(ctx context.Context, assetID string) error {
	return e.guard.Do(func() error {
		now := e.now()

		if assetID == e.cfg.NativeAsset {
			return apperrors.NewValidationError("native asset cannot be removed", assetID)
		}

		exists, err := e.assets.Exists(ctx, assetID)
		if err != nil {
			return fmt.Errorf("failed to check asset: %w", err)
		}
		if !exists {
			return apperrors.NewNotFoundError("asset not found", assetID)
		}

		if err := e.assets.Remove(ctx, assetID); err != nil {
			return fmt.Errorf("failed to remove asset: %w", err)
		}

		e.logger.Infow("asset removed", "asset_id", assetID)
		e.publish(asset.NewAssetRemovedEvent(assetID, now))
		return nil
	})
}

// IsAssetSupported reports whether the asset is registered.
func (e *Engine) IsAssetSupported(ctx context.Context, assetID string) (bool, error) {
	var supported bool
	err := e.guard.DoRead(func() error {
		var err error
		supported, err = e.assets.Exists(ctx, assetID)
		return err
	})
	return supported, err
}

// GetSupportedAssets returns registered asset identifiers in registration
// order.
func (e *Engine) GetSupportedAssets(ctx context.Context) ([]string, error) {
	var ids []string
	err := e.guard.DoRead(func() error {
		assets, err := e.assets.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list assets: %w", err)
		}
		ids = make([]string, 0, len(assets))
		for _, a := range assets {
			ids = append(ids, a.ID())
		}
		return nil
	})
	return ids, err
}
