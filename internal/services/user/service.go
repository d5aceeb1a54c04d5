// Package user handles registration and account management. Registration is
// where the sponsor tree grows, so the fan-out cap is enforced here with the
// sponsor row locked.
package user

import (
	"errors"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	// ErrSponsorFull rejects a registration under a sponsor that already
	// has the maximum number of direct referrals.
	ErrSponsorFull  = errors.New("sponsor already has the maximum number of directs")
	ErrWeakPassword = errors.New("password must be at least 8 characters and contain a special character")
)

// RegisterInput is the registration payload.
type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

type Service interface {
	Register(input RegisterInput) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	List(filter repositories.UserListFilter) ([]models.User, int64, error)
	Update(user *models.User) error
	Delete(id uint) error
	ChangePassword(userID uint, oldPassword, newPassword string) error
}

type service struct {
	manager repositories.Manager
}

func NewService(manager repositories.Manager) Service {
	if manager == nil {
		panic("user service requires a repository manager")
	}
	return &service{manager: manager}
}

// Register creates a user under an optional sponsor. The sponsor row is
// locked while its direct count is checked so concurrent registrations
// cannot both take the last slot. The referral code is generated as an
// explicit step after creation, not a storage-layer hook.
func (s *service) Register(input RegisterInput) (*models.User, error) {
	if input.Email == "" || input.Name == "" {
		return nil, errors.New("name and email are required")
	}
	if len(input.Password) < 8 || !utils.HasSpecialChar(input.Password) {
		return nil, ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.manager.ExecuteInTransaction(func(r repositories.Repositories) error {
		if existing, _ := r.Users.GetByEmail(input.Email); existing != nil {
			return ErrEmailTaken
		}

		var sponsorID *uint
		if input.ReferralCode != "" {
			sponsor, err := r.Users.GetByReferralCode(input.ReferralCode)
			if err != nil {
				return ErrInvalidReferralCode
			}
			if _, err := r.Users.GetByIDForUpdate(sponsor.ID); err != nil {
				return err
			}
			directs, err := r.Users.DirectsCount(sponsor.ID)
			if err != nil {
				return err
			}
			if directs >= models.MaxDirects {
				return ErrSponsorFull
			}
			sponsorID = &sponsor.ID
		}

		user = &models.User{
			Name:      input.Name,
			Email:     input.Email,
			Password:  string(hashed),
			Role:      models.RoleUser,
			SponsorID: sponsorID,
		}
		if err := r.Users.Create(user); err != nil {
			return err
		}

		user.ReferralCode = utils.NewReferralCode()
		return r.Users.Save(user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetByID(id uint) (*models.User, error) {
	return s.manager.Repos().Users.GetByID(id)
}

func (s *service) List(filter repositories.UserListFilter) ([]models.User, int64, error) {
	return s.manager.Repos().Users.List(filter)
}

func (s *service) Update(user *models.User) error {
	return s.manager.Repos().Users.Save(user)
}

// Delete removes a user. The repository blocks deletion while the user has
// direct referrals.
func (s *service) Delete(id uint) error {
	return s.manager.Repos().Users.Delete(id)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	repos := s.manager.Repos()

	user, err := repos.Users.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("invalid old password")
	}
	if len(newPassword) < 8 || !utils.HasSpecialChar(newPassword) {
		return ErrWeakPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	user.TokenVersion++ // invalidate existing tokens
	return repos.Users.Save(user)
}
