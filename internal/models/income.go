package models

import "time"

// Income types for the legacy income log.
const (
	IncomeDirect   = "direct"
	IncomeLevel    = "level"
	IncomeClub     = "club"
	IncomeAutoPool = "auto_pool"
)

// Income is the simple income log kept alongside the wallet ledger. Every
// commission payment writes both.
type Income struct {
	ID        uint    `gorm:"primarykey"`
	UserID    uint    `gorm:"not null;index"`
	Type      string  `gorm:"not null;index"`
	Amount    float64 `gorm:"not null"`
	Remark    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
