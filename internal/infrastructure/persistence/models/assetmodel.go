package models

import (
	"time"

	"rebill/internal/shared/constants"
)

// AssetModel is the database persistence model for registered assets.
type AssetModel struct {
	ID      uint   `gorm:"primarykey"`
	AssetID string `gorm:"uniqueIndex;not null;size:100"`
	AddedAt time.Time
}

// TableName specifies the table name for GORM
func (AssetModel) TableName() string {
	return constants.TableAssets
}
