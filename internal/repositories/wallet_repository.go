package repositories

import (
	"errors"
	"time"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWithdrawalNotFound  = errors.New("withdrawal not found")
	ErrTransactionNotFound = errors.New("wallet transaction not found")
)

// WalletRepository defines wallet, ledger and withdrawal persistence.
// The ForUpdate variants take a row-level lock and only make sense inside
// ExecuteInTransaction.
type WalletRepository interface {
	GetByUserAndType(userID uint, walletType string) (*models.Wallet, error)
	GetByUserAndTypeForUpdate(userID uint, walletType string) (*models.Wallet, error)
	GetByUser(userID uint) ([]models.Wallet, error)
	Create(wallet *models.Wallet) error
	Save(wallet *models.Wallet) error

	CreateTransaction(txn *models.WalletTransaction) error
	GetTransactionByID(id uint) (*models.WalletTransaction, error)
	GetTransactionsByUser(userID uint, limit, offset int) ([]models.WalletTransaction, int64, error)
	SaveTransaction(txn *models.WalletTransaction) error

	CreateWithdrawal(w *models.Withdrawal) error
	GetWithdrawalByID(id uint) (*models.Withdrawal, error)
	GetWithdrawalByIDForUpdate(id uint) (*models.Withdrawal, error)
	GetWithdrawalsByUser(userID uint, limit, offset int) ([]models.Withdrawal, int64, error)
	GetWithdrawalsByStatus(status string, limit, offset int) ([]models.Withdrawal, int64, error)
	SaveWithdrawal(w *models.Withdrawal) error

	// WithdrawalTotalSince sums withdrawal amounts requested on a wallet
	// since a point in time, excluding refunded (rejected/cancelled) ones.
	// Used for daily and monthly limit checks.
	WithdrawalTotalSince(walletID uint, since time.Time) (float64, error)

	// ExecuteInTransaction runs fn against a transaction-scoped repository.
	// Any error rolls back everything fn did.
	ExecuteInTransaction(fn func(WalletRepository) error) error
}
