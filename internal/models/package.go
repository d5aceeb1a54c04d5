package models

import "gorm.io/gorm"

// Package is a purchasable tier. Packages unlock level income depth and
// must be bought sequentially by level_unlock.
type Package struct {
	gorm.Model
	Name        string  `gorm:"uniqueIndex;not null"`
	Price       float64 `gorm:"not null"`
	LevelUnlock int     `gorm:"not null"` // 1..10

	// Per-package income rate overrides, kept for reporting. The
	// distribution tables in the income service are the canonical rates.
	DirectIncomeRate float64 `gorm:"default:0"`
	LevelIncomeRate  float64 `gorm:"default:0"`
	ClubIncomeRate   float64 `gorm:"default:0"`
}
