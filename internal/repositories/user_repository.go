package repositories

import (
	"errors"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserHasDirects = errors.New("user has direct referrals")
)

// UserListFilter narrows admin user listings.
type UserListFilter struct {
	Search    string
	PackageID uint
	Role      string
	Limit     int
	Offset    int
}

// UserRepository defines user persistence and the sponsor-tree reads the
// network analyzer depends on.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByIDForUpdate(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByReferralCode(code string) (*models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
	// Delete removes a user; it fails with ErrUserHasDirects while direct
	// referrals exist.
	Delete(id uint) error
	List(filter UserListFilter) ([]models.User, int64, error)
	IncrementTokenVersion(userID uint) error

	// DirectsCount counts all immediate children, qualified or not.
	DirectsCount(userID uint) (int, error)
	// DirectIDs lists immediate children ids ordered by creation.
	DirectIDs(userID uint) ([]uint, error)
	// QualifyingDirects returns the immediate children holding a package,
	// ordered by creation. limit <= 0 returns all of them.
	QualifyingDirects(userID uint, limit int) ([]models.User, error)
	QualifyingDirectsCount(userID uint) (int, error)
	// PackageHolderIDs lists ids of every user holding a package, for bulk
	// auto-pool rescans.
	PackageHolderIDs() ([]uint, error)
}
