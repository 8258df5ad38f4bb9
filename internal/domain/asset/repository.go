package asset

import "context"

// Repository persists registered assets. List returns assets in
// registration order.
type Repository interface {
	Add(ctx context.Context, asset *Asset) error
	Remove(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Asset, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*Asset, error)
}
