// Package purchase runs the package-buy flow: guards, purchase record,
// package assignment and income distribution in one transaction, then an
// auto-pool scan for the buyer after commit.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/autopool"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/income"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/wallet"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"gorm.io/datatypes"
)

var (
	// ErrDuplicatePackage rejects buying the package already owned.
	ErrDuplicatePackage = errors.New("package already owned")
	// ErrSequentialPurchase rejects skipping a tier. Packages unlock one
	// level at a time.
	ErrSequentialPurchase = errors.New("packages must be purchased sequentially")
	ErrUnknownPayment     = errors.New("unknown payment method")
)

// Result is everything one purchase produced.
type Result struct {
	Transaction *models.Transaction         `json:"transaction"`
	Package     *models.Package             `json:"package"`
	Payments    []income.Payment            `json:"payments"`
	PoolResults []autopool.CompletionResult `json:"pool_results,omitempty"`
}

// Service is the purchase flow contract.
type Service interface {
	PurchasePackage(ctx context.Context, userID, packageID uint, paymentMethod string) (*Result, error)
	History(userID uint, limit, offset int) ([]models.Transaction, int64, error)
}

type service struct {
	manager     repositories.Manager
	distributor income.Distributor
	pool        autopool.Engine
	wallets     wallet.Service
}

func NewService(manager repositories.Manager, distributor income.Distributor, pool autopool.Engine, wallets wallet.Service) Service {
	if manager == nil || distributor == nil || pool == nil || wallets == nil {
		panic("purchase service requires a repository manager, distributor, auto pool engine and wallet service")
	}
	return &service{manager: manager, distributor: distributor, pool: pool, wallets: wallets}
}

func validPaymentMethod(method string) bool {
	switch method {
	case models.PaymentCash, models.PaymentBankTransfer, models.PaymentCreditCard, models.PaymentDigitalWallet:
		return true
	}
	return false
}

// PurchasePackage assigns the package and distributes income in a single
// transaction; a distribution failure unwinds the assignment too. The
// auto-pool scan runs after commit because its awards are independently
// atomic and idempotent; a pool failure never unwinds a committed purchase.
func (s *service) PurchasePackage(ctx context.Context, userID, packageID uint, paymentMethod string) (*Result, error) {
	if paymentMethod == "" {
		paymentMethod = models.PaymentCash
	}
	if !validPaymentMethod(paymentMethod) {
		return nil, ErrUnknownPayment
	}

	result := &Result{}
	err := s.manager.ExecuteInTransaction(func(r repositories.Repositories) error {
		user, err := r.Users.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		pkg, err := r.Packages.GetByID(packageID)
		if err != nil {
			return err
		}

		if err := s.checkTier(r, user, pkg); err != nil {
			return err
		}

		txn := &models.Transaction{
			UserID:        userID,
			PackageID:     pkg.ID,
			Amount:        pkg.Price,
			Type:          models.TransactionTypePurchase,
			Status:        models.TransactionStatusCompleted,
			PaymentMethod: paymentMethod,
			TransactionID: utils.NewReferenceID("TXN"),
			Description:   fmt.Sprintf("Purchase of %s", pkg.Name),
			Metadata:      datatypes.JSONMap{"level_unlock": pkg.LevelUnlock},
		}
		if err := r.Transactions.Create(txn); err != nil {
			return err
		}

		// Assign before distributing so the sponsor's qualifying-direct
		// count includes this buyer.
		user.PackageID = &pkg.ID
		user.Package = pkg
		if err := r.Users.Save(user); err != nil {
			return err
		}

		payments, err := s.distributor.Distribute(r, user, pkg)
		if err != nil {
			return err
		}

		result.Transaction = txn
		result.Package = pkg
		result.Payments = payments
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The commissions were credited through the tx-scoped wallet API, so
	// the recipients' cached earning wallets are stale until dropped here.
	invalidated := make(map[uint]bool, len(result.Payments))
	for _, p := range result.Payments {
		if invalidated[p.UserID] {
			continue
		}
		invalidated[p.UserID] = true
		s.wallets.Invalidate(ctx, p.UserID, models.WalletTypeEarning)
	}

	poolResults, err := s.pool.ProcessCompletions(ctx, userID)
	if err != nil {
		log.Printf("auto pool scan after purchase failed for user %d: %v", userID, err)
	} else {
		result.PoolResults = poolResults
	}

	return result, nil
}

func (s *service) checkTier(r repositories.Repositories, user *models.User, pkg *models.Package) error {
	if user.PackageID != nil && *user.PackageID == pkg.ID {
		return ErrDuplicatePackage
	}

	currentLevel := 0
	if user.PackageID != nil {
		current, err := r.Packages.GetByID(*user.PackageID)
		if err != nil {
			return err
		}
		currentLevel = current.LevelUnlock
	}
	if pkg.LevelUnlock != currentLevel+1 {
		return fmt.Errorf("%w: next allowed tier is %d", ErrSequentialPurchase, currentLevel+1)
	}
	return nil
}

func (s *service) History(userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	return s.manager.Repos().Transactions.ByUser(userID, limit, offset)
}
