package models

import (
	"time"

	"gorm.io/datatypes"
)

// AutoPoolLevel is catalog data describing one group-completion tier
// (4-Star, 16-Star, ...). Seeded once, edited by admins.
type AutoPoolLevel struct {
	ID                  uint    `gorm:"primarykey"`
	Level               int     `gorm:"uniqueIndex;not null"` // 4, 16, 64, 256, 1024
	Name                string  `gorm:"not null"`
	BonusAmount         float64 `gorm:"not null"`
	RequiredPackageTier int     `gorm:"not null"`
	RequiredDirects     int     `gorm:"not null"`
	RequiredGroupSize   int     `gorm:"not null"`
	IsActive            bool    `gorm:"default:true"`
	Description         string
	SortOrder           int `gorm:"default:0"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// GroupCompletion is the permanent proof that a user completed an auto-pool
// level. The (user, level) pair is unique at the storage layer so a level is
// awarded exactly once even under concurrent triggers.
type GroupCompletion struct {
	ID                uint `gorm:"primarykey"`
	UserID            uint `gorm:"not null;uniqueIndex:idx_group_completions_user_level,priority:1"`
	AutoPoolLevel     int  `gorm:"not null;uniqueIndex:idx_group_completions_user_level,priority:2"`
	GroupSize         int
	DirectsCount      int
	TotalNetworkSize  int
	BonusAmount       float64
	BonusPaid         bool `gorm:"default:false"`
	CompletedAt       time.Time
	CompletionDetails datatypes.JSONMap
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Auto-pool bonus statuses.
const (
	BonusPending   = "pending"
	BonusPaid      = "paid"
	BonusFailed    = "failed"
	BonusCancelled = "cancelled"
)

// AutoPoolBonus is created alongside its GroupCompletion in the same atomic
// unit and flipped to paid once the wallet credit lands.
type AutoPoolBonus struct {
	ID                uint    `gorm:"primarykey"`
	UserID            uint    `gorm:"not null;index"`
	GroupCompletionID uint    `gorm:"not null;index"`
	AutoPoolLevel     int     `gorm:"not null"`
	Amount            float64 `gorm:"not null"`
	Status            string  `gorm:"not null;default:'pending'"`
	PaidAt            *time.Time
	PaymentReference  string
	Notes             string
	Metadata          datatypes.JSONMap
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
