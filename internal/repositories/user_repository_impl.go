package repositories

import (
	"fmt"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Package").First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDForUpdate(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByReferralCode(code string) (*models.User, error) {
	var user models.User
	err := r.db.Where("referral_code = ?", code).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by referral code: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Save(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(id uint) error {
	directs, err := r.DirectsCount(id)
	if err != nil {
		return err
	}
	if directs > 0 {
		return ErrUserHasDirects
	}
	if err := r.db.Delete(&models.User{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *userRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	q := r.db.Model(&models.User{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR referral_code ILIKE ?", like, like, like)
	}
	if filter.PackageID != 0 {
		q = q.Where("package_id = ?", filter.PackageID)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 15
	}
	err := q.Preload("Package").Preload("Sponsor").
		Order("created_at DESC").Limit(limit).Offset(filter.Offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment token version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) DirectsCount(userID uint) (int, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("sponsor_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count directs: %w", err)
	}
	return int(count), nil
}

func (r *userRepository) DirectIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.User{}).
		Where("sponsor_id = ?", userID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list direct ids: %w", err)
	}
	return ids, nil
}

func (r *userRepository) QualifyingDirects(userID uint, limit int) ([]models.User, error) {
	var directs []models.User
	q := r.db.Preload("Package").Where("sponsor_id = ? AND package_id >= 1", userID).Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&directs).Error; err != nil {
		return nil, fmt.Errorf("failed to list qualifying directs: %w", err)
	}
	return directs, nil
}

func (r *userRepository) QualifyingDirectsCount(userID uint) (int, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("sponsor_id = ? AND package_id >= 1", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count qualifying directs: %w", err)
	}
	return int(count), nil
}

func (r *userRepository) PackageHolderIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.User{}).
		Where("package_id >= 1").
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list package holders: %w", err)
	}
	return ids, nil
}
