package models

import (
	"time"

	"gorm.io/datatypes"
)

// Ledger entry types. Credit-like types increase the balance, debit-like
// types decrease it.
const (
	WalletTxCredit      = "credit"
	WalletTxDebit       = "debit"
	WalletTxTransferIn  = "transfer_in"
	WalletTxTransferOut = "transfer_out"
	WalletTxWithdrawal  = "withdrawal"
	WalletTxRefund      = "refund"
	WalletTxFee         = "fee"
	WalletTxPenalty     = "penalty"
)

// Ledger entry categories.
const (
	CategoryDirectIncome    = "direct_income"
	CategoryLevelIncome     = "level_income"
	CategoryClubIncome      = "club_income"
	CategoryAutoPool        = "auto_pool"
	CategoryBonus           = "bonus"
	CategoryPackagePurchase = "package_purchase"
	CategoryWithdrawal      = "withdrawal"
	CategoryTransfer        = "transfer"
	CategoryAdminCredit     = "admin_credit"
	CategoryAdminDebit      = "admin_debit"
	CategoryFee             = "fee"
	CategoryPenalty         = "penalty"
)

// Ledger entry statuses.
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"
)

// WalletTransaction is an append-only ledger entry with before/after balance
// snapshots. Rows are never mutated after creation; the admin-driven status
// change is the one exception.
type WalletTransaction struct {
	ID            uint   `gorm:"primarykey"`
	WalletID      uint   `gorm:"not null;index:idx_wallet_tx_wallet_type,priority:1"`
	UserID        uint   `gorm:"not null;index:idx_wallet_tx_user_created,priority:1"`
	Type          string `gorm:"not null;index:idx_wallet_tx_wallet_type,priority:2"`
	Category      string `gorm:"not null;index:idx_wallet_tx_category_status,priority:1"`
	Amount        float64
	BalanceBefore float64
	BalanceAfter  float64
	ReferenceID   string `gorm:"uniqueIndex;not null"`
	Description   string
	Metadata      datatypes.JSONMap
	Status        string    `gorm:"not null;default:'pending';index:idx_wallet_tx_category_status,priority:2"`
	CreatedAt     time.Time `gorm:"index:idx_wallet_tx_user_created,priority:2"`
	UpdatedAt     time.Time
}

// IsCreditType reports whether the entry type increases the wallet balance.
func IsCreditType(txType string) bool {
	switch txType {
	case WalletTxCredit, WalletTxTransferIn, WalletTxRefund:
		return true
	}
	return false
}
