package repositories

import (
	"fmt"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"

	"gorm.io/gorm"
)

// IncomeRepository persists the legacy income log written alongside every
// ledger credit.
type IncomeRepository interface {
	Create(income *models.Income) error
	ByUser(userID uint, limit, offset int) ([]models.Income, int64, error)
	TotalByType(userID uint, incomeType string) (float64, error)
}

type incomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(income *models.Income) error {
	if err := r.db.Create(income).Error; err != nil {
		return fmt.Errorf("failed to create income record: %w", err)
	}
	return nil
}

func (r *incomeRepository) ByUser(userID uint, limit, offset int) ([]models.Income, int64, error) {
	var incomes []models.Income
	var total int64

	q := r.db.Model(&models.Income{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count incomes: %w", err)
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&incomes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list incomes: %w", err)
	}
	return incomes, total, nil
}

func (r *incomeRepository) TotalByType(userID uint, incomeType string) (float64, error) {
	var total float64
	err := r.db.Model(&models.Income{}).
		Where("user_id = ? AND type = ?", userID, incomeType).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum incomes: %w", err)
	}
	return total, nil
}
