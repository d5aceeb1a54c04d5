package repositories

import (
	"errors"
	"fmt"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrLevelNotFound      = errors.New("auto pool level not found")
	ErrCompletionNotFound = errors.New("group completion not found")
	// ErrDuplicateCompletion maps the storage-layer unique constraint on
	// (user_id, auto_pool_level). Losing this race means another trigger
	// already awarded the level.
	ErrDuplicateCompletion = errors.New("group completion already recorded")
)

// AutoPoolRepository defines persistence for the auto-pool level catalog,
// group completions and bonuses.
type AutoPoolRepository interface {
	ActiveLevels() ([]models.AutoPoolLevel, error)
	GetLevel(level int) (*models.AutoPoolLevel, error)

	GetCompletion(userID uint, level int) (*models.GroupCompletion, error)
	CreateCompletion(gc *models.GroupCompletion) error
	SaveCompletion(gc *models.GroupCompletion) error
	CompletionsByUser(userID uint) ([]models.GroupCompletion, error)
	CompletionsCount() (int64, error)

	CreateBonus(b *models.AutoPoolBonus) error
	SaveBonus(b *models.AutoPoolBonus) error
	BonusesByUser(userID uint) ([]models.AutoPoolBonus, error)
	BonusTotalByStatus(status string) (float64, error)
}

type autoPoolRepository struct {
	db *gorm.DB
}

func NewAutoPoolRepository(db *gorm.DB) AutoPoolRepository {
	return &autoPoolRepository{db: db}
}

func (r *autoPoolRepository) ActiveLevels() ([]models.AutoPoolLevel, error) {
	var levels []models.AutoPoolLevel
	err := r.db.Where("is_active = ?", true).
		Order("sort_order").Order("level").
		Find(&levels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list auto pool levels: %w", err)
	}
	return levels, nil
}

func (r *autoPoolRepository) GetLevel(level int) (*models.AutoPoolLevel, error) {
	var lvl models.AutoPoolLevel
	err := r.db.Where("level = ?", level).First(&lvl).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get auto pool level: %w", err)
	}
	return &lvl, nil
}

func (r *autoPoolRepository) GetCompletion(userID uint, level int) (*models.GroupCompletion, error) {
	var gc models.GroupCompletion
	err := r.db.Where("user_id = ? AND auto_pool_level = ?", userID, level).First(&gc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCompletionNotFound
		}
		return nil, fmt.Errorf("failed to get group completion: %w", err)
	}
	return &gc, nil
}

func (r *autoPoolRepository) CreateCompletion(gc *models.GroupCompletion) error {
	if err := r.db.Create(gc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateCompletion
		}
		return fmt.Errorf("failed to create group completion: %w", err)
	}
	return nil
}

func (r *autoPoolRepository) SaveCompletion(gc *models.GroupCompletion) error {
	if err := r.db.Save(gc).Error; err != nil {
		return fmt.Errorf("failed to save group completion: %w", err)
	}
	return nil
}

func (r *autoPoolRepository) CompletionsByUser(userID uint) ([]models.GroupCompletion, error) {
	var gcs []models.GroupCompletion
	err := r.db.Where("user_id = ?", userID).Order("auto_pool_level").Find(&gcs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list group completions: %w", err)
	}
	return gcs, nil
}

func (r *autoPoolRepository) CompletionsCount() (int64, error) {
	var count int64
	if err := r.db.Model(&models.GroupCompletion{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count group completions: %w", err)
	}
	return count, nil
}

func (r *autoPoolRepository) CreateBonus(b *models.AutoPoolBonus) error {
	if err := r.db.Create(b).Error; err != nil {
		return fmt.Errorf("failed to create auto pool bonus: %w", err)
	}
	return nil
}

func (r *autoPoolRepository) SaveBonus(b *models.AutoPoolBonus) error {
	if err := r.db.Save(b).Error; err != nil {
		return fmt.Errorf("failed to save auto pool bonus: %w", err)
	}
	return nil
}

func (r *autoPoolRepository) BonusesByUser(userID uint) ([]models.AutoPoolBonus, error) {
	var bs []models.AutoPoolBonus
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&bs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list auto pool bonuses: %w", err)
	}
	return bs, nil
}

func (r *autoPoolRepository) BonusTotalByStatus(status string) (float64, error) {
	var total float64
	err := r.db.Model(&models.AutoPoolBonus{}).
		Where("status = ?", status).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum auto pool bonuses: %w", err)
	}
	return total, nil
}
