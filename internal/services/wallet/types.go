package wallet

import (
	"context"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
)

// WalletBalance is the per-type balance view returned to callers. Amounts
// are plain numbers; formatting is a presentation concern.
type WalletBalance struct {
	Type              string  `json:"type"`
	Balance           float64 `json:"balance"`
	PendingBalance    float64 `json:"pending_balance"`
	WithdrawnBalance  float64 `json:"withdrawn_balance"`
	AvailableBalance  float64 `json:"available_balance"`
	TotalBalance      float64 `json:"total_balance"`
	IsActive          bool    `json:"is_active"`
	WithdrawalEnabled bool    `json:"withdrawal_enabled"`
}

// TransferResult carries both legs of a wallet-to-wallet transfer.
type TransferResult struct {
	Debit  *models.WalletTransaction `json:"debit"`
	Credit *models.WalletTransaction `json:"credit"`
}

// CacheOperator is the wallet read-cache contract.
type CacheOperator interface {
	GetWallet(ctx context.Context, userID uint, walletType string) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint, walletType string) error
}
