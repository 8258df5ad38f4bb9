// Package memory provides in-memory repository implementations. They back
// unit tests and the worker's dry-run mode; the durable path lives in the
// GORM repositories.
package memory

import (
	"context"
	"sync"

	"rebill/internal/domain/asset"
)

type AssetRepository struct {
	mu     sync.RWMutex
	assets map[string]*asset.Asset
	order  []string
}

func NewAssetRepository() *AssetRepository {
	return &AssetRepository{
		assets: make(map[string]*asset.Asset),
	}
}

func (r *AssetRepository) Add(ctx context.Context, a *asset.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[a.ID()]; ok {
		return asset.ErrAssetAlreadyExists
	}
	r.assets[a.ID()] = a
	r.order = append(r.order, a.ID())
	return nil
}

func (r *AssetRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[id]; !ok {
		return asset.ErrAssetNotFound
	}
	delete(r.assets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *AssetRepository) GetByID(ctx context.Context, id string) (*asset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assets[id]
	if !ok {
		return nil, nil
	}
	return a, nil
}

func (r *AssetRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.assets[id]
	return ok, nil
}

func (r *AssetRepository) List(ctx context.Context) ([]*asset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*asset.Asset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.assets[id])
	}
	return out, nil
}
