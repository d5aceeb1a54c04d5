package wallet

import (
	"context"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
)

// Service is the wallet ledger contract.
type Service interface {
	// Ledger operations. Each runs in its own transaction.
	Credit(ctx context.Context, userID uint, walletType string, amount float64, category, description string, metadata map[string]interface{}) (*models.WalletTransaction, error)
	Debit(ctx context.Context, userID uint, walletType string, amount float64, category, description string, metadata map[string]interface{}) (*models.WalletTransaction, error)
	Transfer(ctx context.Context, userID uint, fromType, toType string, amount float64, description string) (*TransferResult, error)

	// Withdrawal lifecycle.
	CreateWithdrawal(ctx context.Context, userID uint, walletType string, amount float64, method string, paymentDetails map[string]interface{}, notes string) (*models.Withdrawal, error)
	ProcessWithdrawal(ctx context.Context, withdrawalID uint, newStatus string, adminID uint, notes string) (*models.Withdrawal, error)

	// Reads.
	GetWallet(ctx context.Context, userID uint, walletType string) (*models.Wallet, error)
	GetUserWalletBalances(ctx context.Context, userID uint) ([]WalletBalance, error)
	GetTransactionHistory(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, int64, error)
	GetWithdrawals(ctx context.Context, userID uint, limit, offset int) ([]models.Withdrawal, int64, error)

	// UpdateTransactionStatus is the one permitted ledger mutation,
	// admin-driven.
	UpdateTransactionStatus(ctx context.Context, transactionID uint, status string) (*models.WalletTransaction, error)

	// Transaction-scoped variants for composition into a caller's unit of
	// work (income distribution, auto-pool payouts). They do not touch the
	// read cache; the composer must call Invalidate for every touched
	// wallet once its transaction commits.
	CreditInTx(repo repositories.WalletRepository, userID uint, walletType string, amount float64, category, description string, metadata map[string]interface{}) (*models.WalletTransaction, error)
	DebitInTx(repo repositories.WalletRepository, userID uint, walletType string, amount float64, category, description string, metadata map[string]interface{}) (*models.WalletTransaction, error)
	Invalidate(ctx context.Context, userID uint, walletType string)
}
