package models

import (
	"time"

	"gorm.io/datatypes"
)

// Withdrawal methods and their fee rates.
const (
	MethodBankTransfer   = "bank_transfer"
	MethodDigitalWallet  = "digital_wallet"
	MethodCryptocurrency = "cryptocurrency"
	MethodCheck          = "check"
	MethodCashPickup     = "cash_pickup"
)

// WithdrawalFeeRates maps a payout method to its fee percentage.
var WithdrawalFeeRates = map[string]float64{
	MethodBankTransfer:   0.02,
	MethodDigitalWallet:  0.03,
	MethodCryptocurrency: 0.05,
	MethodCheck:          0.01,
	MethodCashPickup:     0.04,
}

// Withdrawal statuses.
const (
	WithdrawalPending    = "pending"
	WithdrawalApproved   = "approved"
	WithdrawalProcessing = "processing"
	WithdrawalCompleted  = "completed"
	WithdrawalFailed     = "failed"
	WithdrawalRejected   = "rejected"
	WithdrawalCancelled  = "cancelled"
)

// Withdrawal owns the pending-balance hold it created until it reaches a
// terminal state.
type Withdrawal struct {
	ID             uint    `gorm:"primarykey"`
	UserID         uint    `gorm:"not null;index:idx_withdrawals_user_status,priority:1"`
	WalletID       uint    `gorm:"not null;index"`
	WithdrawalID   string  `gorm:"uniqueIndex;not null"`
	Amount         float64 `gorm:"not null"`
	Fee            float64
	NetAmount      float64
	Method         string `gorm:"not null"`
	PaymentDetails datatypes.JSONMap
	Status         string `gorm:"not null;default:'pending';index:idx_withdrawals_user_status,priority:2;index:idx_withdrawals_status_created,priority:1"`
	UserNotes      string
	AdminNotes     string
	ProcessedBy    *uint
	ProcessedAt    *time.Time
	Metadata       datatypes.JSONMap
	CreatedAt      time.Time `gorm:"index:idx_withdrawals_status_created,priority:2"`
	UpdatedAt      time.Time
}

// IsTerminal reports whether the withdrawal can no longer change state.
func (w *Withdrawal) IsTerminal() bool {
	switch w.Status {
	case WithdrawalCompleted, WithdrawalFailed, WithdrawalRejected, WithdrawalCancelled:
		return true
	}
	return false
}
