package models

import (
	"time"

	"gorm.io/gorm"

	"rebill/internal/shared/constants"
)

// PlanModel is the database persistence model for billing plans. It is the
// anti-corruption layer between domain and database.
type PlanModel struct {
	ID              uint   `gorm:"primarykey"`
	PlanID          string `gorm:"uniqueIndex;not null;size:100;comment:caller-supplied plan identifier"`
	Amount          int64  `gorm:"not null"`
	Asset           string `gorm:"not null;size:100;index:idx_plan_asset"`
	IntervalSeconds int64  `gorm:"not null"`
	Merchant        string `gorm:"not null;size:100;index:idx_plan_merchant"`
	Active          bool   `gorm:"not null;default:true"`
	SubscriberCount uint64 `gorm:"not null;default:0"`
	Version         int    `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}

// BeforeCreate hook for GORM
func (p *PlanModel) BeforeCreate(tx *gorm.DB) error {
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}
