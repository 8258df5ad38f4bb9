// Package asset tracks which asset identifiers the billing engine accepts
// for plans and one-time payments.
package asset

import (
	"fmt"
	"strings"
	"time"
)

// Asset represents a registered payment asset
type Asset struct {
	id      string
	addedAt time.Time
}

// NewAsset creates a new registered asset
func NewAsset(id string, now time.Time) (*Asset, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("asset ID is required")
	}

	return &Asset{
		id:      id,
		addedAt: now,
	}, nil
}

// ReconstructAsset reconstructs an asset from persistence
func ReconstructAsset(id string, addedAt time.Time) (*Asset, error) {
	if id == "" {
		return nil, fmt.Errorf("asset ID is required")
	}
	return &Asset{
		id:      id,
		addedAt: addedAt,
	}, nil
}

// ID returns the asset identifier
func (a *Asset) ID() string {
	return a.id
}

// AddedAt returns when the asset was registered
func (a *Asset) AddedAt() time.Time {
	return a.addedAt
}
