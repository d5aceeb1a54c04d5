package models

import (
	"time"

	"gorm.io/datatypes"
)

// Purchase transaction types and statuses.
const (
	TransactionTypePurchase = "purchase"

	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Payment methods for package purchases. Opaque labels only; no gateway
// integration.
const (
	PaymentCash          = "cash"
	PaymentBankTransfer  = "bank_transfer"
	PaymentCreditCard    = "credit_card"
	PaymentDigitalWallet = "digital_wallet"
)

// Transaction records a package purchase.
type Transaction struct {
	ID            uint    `gorm:"primarykey"`
	UserID        uint    `gorm:"not null;index"`
	PackageID     uint    `gorm:"not null;index"`
	Amount        float64 `gorm:"not null"`
	Type          string  `gorm:"not null"`
	Status        string  `gorm:"not null;default:'pending'"`
	PaymentMethod string
	TransactionID string `gorm:"uniqueIndex;not null"`
	Description   string
	Metadata      datatypes.JSONMap
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
