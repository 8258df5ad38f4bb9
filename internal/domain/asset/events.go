package asset

import "time"

// Event types emitted by the asset registry.
const (
	EventTypeAssetAdded   = "asset.added"
	EventTypeAssetRemoved = "asset.removed"
)

// AssetAddedEvent represents registration of a payment asset
type AssetAddedEvent struct {
	AssetID   string
	Timestamp time.Time
}

func NewAssetAddedEvent(assetID string, now time.Time) *AssetAddedEvent {
	return &AssetAddedEvent{
		AssetID:   assetID,
		Timestamp: now,
	}
}

func (e *AssetAddedEvent) GetEventType() string {
	return EventTypeAssetAdded
}

func (e *AssetAddedEvent) GetAggregateID() string {
	return e.AssetID
}

func (e *AssetAddedEvent) GetOccurredAt() time.Time {
	return e.Timestamp
}

// AssetRemovedEvent represents removal of a payment asset
type AssetRemovedEvent struct {
	AssetID   string
	Timestamp time.Time
}

func NewAssetRemovedEvent(assetID string, now time.Time) *AssetRemovedEvent {
	return &AssetRemovedEvent{
		AssetID:   assetID,
		Timestamp: now,
	}
}

func (e *AssetRemovedEvent) GetEventType() string {
	return EventTypeAssetRemoved
}

func (e *AssetRemovedEvent) GetAggregateID() string {
	return e.AssetID
}

func (e *AssetRemovedEvent) GetOccurredAt() time.Time {
	return e.Timestamp
}
