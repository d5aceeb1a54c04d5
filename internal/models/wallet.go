package models

import (
	"time"

	"gorm.io/datatypes"
)

// Wallet types. Every user has at most one wallet per type.
const (
	WalletTypeEarning    = "earning"
	WalletTypeBonus      = "bonus"
	WalletTypeReward     = "reward"
	WalletTypeHolding    = "holding"
	WalletTypeCommission = "commission"
)

// WalletTypes lists all wallet categories in provisioning order.
var WalletTypes = []string{
	WalletTypeEarning,
	WalletTypeBonus,
	WalletTypeReward,
	WalletTypeHolding,
	WalletTypeCommission,
}

// WalletSettings is the per-wallet withdrawal policy stored as a JSON column.
type WalletSettings struct {
	WithdrawalEnabled bool    `json:"withdrawal_enabled"`
	MinWithdrawal     float64 `json:"min_withdrawal"`
	MaxWithdrawal     float64 `json:"max_withdrawal"`
	DailyLimit        float64 `json:"daily_limit"`
	MonthlyLimit      float64 `json:"monthly_limit"`
}

// Wallet holds one balance bucket for a user. Pending balance is carved out
// of Balance when a withdrawal is requested, so AvailableBalance == Balance.
type Wallet struct {
	ID               uint    `gorm:"primarykey"`
	UserID           uint    `gorm:"not null;uniqueIndex:idx_wallets_user_type,priority:1"`
	Type             string  `gorm:"not null;uniqueIndex:idx_wallets_user_type,priority:2"`
	Balance          float64 `gorm:"default:0"`
	PendingBalance   float64 `gorm:"default:0"`
	WithdrawnBalance float64 `gorm:"default:0"`
	IsActive         bool    `gorm:"default:true"`
	Settings         datatypes.JSONType[WalletSettings]
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableBalance is the amount spendable right now. Withdrawal holds are
// already subtracted from Balance.
func (w *Wallet) AvailableBalance() float64 {
	return w.Balance
}

// TotalBalance includes funds held for withdrawal review.
func (w *Wallet) TotalBalance() float64 {
	return w.Balance + w.PendingBalance
}
