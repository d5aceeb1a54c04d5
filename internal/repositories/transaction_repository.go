package repositories

import (
	"errors"
	"fmt"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"

	"gorm.io/gorm"
)

var ErrPurchaseNotFound = errors.New("purchase transaction not found")

// TransactionRepository persists package-purchase records.
type TransactionRepository interface {
	Create(txn *models.Transaction) error
	GetByID(id uint) (*models.Transaction, error)
	ByUser(userID uint, limit, offset int) ([]models.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(txn *models.Transaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create purchase transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.First(&txn, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to get purchase transaction: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepository) ByUser(userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	var txns []models.Transaction
	var total int64

	q := r.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count purchase transactions: %w", err)
	}
	if limit <= 0 {
		limit = 15
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchase transactions: %w", err)
	}
	return txns, total, nil
}
