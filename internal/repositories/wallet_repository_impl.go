package repositories

import (
	"fmt"
	"time"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetByUserAndType(userID uint, walletType string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Where("user_id = ? AND type = ?", userID, walletType).First(&wallet).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserAndTypeForUpdate(userID uint, walletType string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND type = ?", userID, walletType).
		First(&wallet).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUser(userID uint) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := r.db.Where("user_id = ?", userID).Order("type").Find(&wallets).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

func (r *walletRepository) Create(wallet *models.Wallet) error {
	if err := r.db.Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) Save(wallet *models.Wallet) error {
	if err := r.db.Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) CreateTransaction(txn *models.WalletTransaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create wallet transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) GetTransactionByID(id uint) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	if err := r.db.First(&txn, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get wallet transaction: %w", err)
	}
	return &txn, nil
}

func (r *walletRepository) GetTransactionsByUser(userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	var txns []models.WalletTransaction
	var total int64

	q := r.db.Model(&models.WalletTransaction{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wallet transactions: %w", err)
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txns, total, nil
}

func (r *walletRepository) SaveTransaction(txn *models.WalletTransaction) error {
	if err := r.db.Save(txn).Error; err != nil {
		return fmt.Errorf("failed to save wallet transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) CreateWithdrawal(w *models.Withdrawal) error {
	if err := r.db.Create(w).Error; err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *walletRepository) SaveWithdrawal(w *models.Withdrawal) error {
	if err := r.db.Save(w).Error; err != nil {
		return fmt.Errorf("failed to save withdrawal: %w", err)
	}
	return nil
}

func (r *walletRepository) GetWithdrawalByID(id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := r.db.First(&w, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return &w, nil
}

func (r *walletRepository) GetWithdrawalByIDForUpdate(id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to lock withdrawal: %w", err)
	}
	return &w, nil
}

func (r *walletRepository) GetWithdrawalsByUser(userID uint, limit, offset int) ([]models.Withdrawal, int64, error) {
	return r.listWithdrawals(r.db.Where("user_id = ?", userID), limit, offset)
}

func (r *walletRepository) GetWithdrawalsByStatus(status string, limit, offset int) ([]models.Withdrawal, int64, error) {
	return r.listWithdrawals(r.db.Where("status = ?", status), limit, offset)
}

func (r *walletRepository) listWithdrawals(q *gorm.DB, limit, offset int) ([]models.Withdrawal, int64, error) {
	var ws []models.Withdrawal
	var total int64

	q = q.Model(&models.Withdrawal{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawals: %w", err)
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ws).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return ws, total, nil
}

func (r *walletRepository) WithdrawalTotalSince(walletID uint, since time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&models.Withdrawal{}).
		Where("wallet_id = ? AND created_at >= ?", walletID, since).
		Where("status NOT IN ?", []string{models.WithdrawalRejected, models.WithdrawalCancelled}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum withdrawals: %w", err)
	}
	return total, nil
}

func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewWalletRepository(tx))
	})
}
