package repositories

import (
	"errors"
	"fmt"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPackageNotFound = errors.New("package not found")
	ErrPackageInUse    = errors.New("package is held by users")
)

// PackageRepository defines package catalog persistence.
type PackageRepository interface {
	GetByID(id uint) (*models.Package, error)
	GetByLevelUnlock(level int) (*models.Package, error)
	List() ([]models.Package, error)
	Create(pkg *models.Package) error
	Save(pkg *models.Package) error
	// Delete fails with ErrPackageInUse while any user holds the package.
	Delete(id uint) error
	HoldersCount(packageID uint) (int64, error)
}

type packageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) GetByID(id uint) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.First(&pkg, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return &pkg, nil
}

func (r *packageRepository) GetByLevelUnlock(level int) (*models.Package, error) {
	var pkg models.Package
	err := r.db.Where("level_unlock = ?", level).First(&pkg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to get package by level: %w", err)
	}
	return &pkg, nil
}

func (r *packageRepository) List() ([]models.Package, error) {
	var pkgs []models.Package
	if err := r.db.Order("level_unlock").Find(&pkgs).Error; err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return pkgs, nil
}

func (r *packageRepository) Create(pkg *models.Package) error {
	if err := r.db.Create(pkg).Error; err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

func (r *packageRepository) Save(pkg *models.Package) error {
	if err := r.db.Save(pkg).Error; err != nil {
		return fmt.Errorf("failed to save package: %w", err)
	}
	return nil
}

func (r *packageRepository) Delete(id uint) error {
	holders, err := r.HoldersCount(id)
	if err != nil {
		return err
	}
	if holders > 0 {
		return ErrPackageInUse
	}
	if err := r.db.Delete(&models.Package{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	return nil
}

func (r *packageRepository) HoldersCount(packageID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("package_id = ?", packageID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count package holders: %w", err)
	}
	return count, nil
}
