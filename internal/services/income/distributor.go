package income

import (
	"fmt"
	"math"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/wallet"
)

// directRates keys the sponsor's commission percentage by how many
// qualifying directs the sponsor has at payment time, the buyer included.
// A fifth direct and beyond earns nothing.
var directRates = map[int]float64{
	1: 0.06,
	2: 0.09,
	3: 0.12,
	4: 0.15,
}

const (
	// Level income reaches at most ten levels up the chain.
	maxLevelDepth = 10
	// Club income is a flat amount per package-holding upline.
	clubAmount = 0.50
	// Hard bound on any chain walk. The tree is acyclic by construction;
	// this is the depth guard, not a business rule.
	maxChainDepth = 100
)

// Payment describes one commission paid during a distribution.
type Payment struct {
	UserID uint    `json:"user_id"`
	Type   string  `json:"type"`
	Level  int     `json:"level,omitempty"`
	Amount float64 `json:"amount"`
}

// Distributor pays purchase commissions inside the caller's transaction.
type Distributor interface {
	Distribute(r repositories.Repositories, buyer *models.User, pkg *models.Package) ([]Payment, error)
}

type distributor struct {
	wallets wallet.Service
}

func NewDistributor(wallets wallet.Service) Distributor {
	if wallets == nil {
		panic("income distributor requires the wallet service")
	}
	return &distributor{wallets: wallets}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Distribute pays direct, level and club income for one purchase. The buyer
// must already hold the purchased package so the sponsor's qualifying-direct
// count includes them.
func (d *distributor) Distribute(r repositories.Repositories, buyer *models.User, pkg *models.Package) ([]Payment, error) {
	if buyer.SponsorID == nil {
		return nil, nil
	}

	var payments []Payment

	direct, err := d.payDirect(r, buyer, pkg)
	if err != nil {
		return nil, err
	}
	if direct != nil {
		payments = append(payments, *direct)
	}

	levels, err := d.payLevels(r, buyer, pkg)
	if err != nil {
		return nil, err
	}
	payments = append(payments, levels...)

	club, err := d.payClub(r, buyer, pkg)
	if err != nil {
		return nil, err
	}
	payments = append(payments, club...)

	return payments, nil
}

// payDirect pays the immediate sponsor. The sponsor row is locked so two
// simultaneous purchases under the same sponsor cannot both read the same
// direct count.
func (d *distributor) payDirect(r repositories.Repositories, buyer *models.User, pkg *models.Package) (*Payment, error) {
	sponsor, err := r.Users.GetByIDForUpdate(*buyer.SponsorID)
	if err != nil {
		return nil, err
	}
	if !sponsor.HasPackage() {
		return nil, nil
	}

	count, err := r.Users.QualifyingDirectsCount(sponsor.ID)
	if err != nil {
		return nil, err
	}
	rate := directRates[count]
	if rate == 0 {
		return nil, nil
	}

	amount := round2(pkg.Price * rate)
	remark := fmt.Sprintf("Direct income for referral purchase of %s", pkg.Name)
	if err := d.pay(r, sponsor.ID, models.IncomeDirect, models.CategoryDirectIncome, amount, remark, map[string]interface{}{
		"buyer_id":   buyer.ID,
		"package_id": pkg.ID,
		"direct_no":  count,
	}); err != nil {
		return nil, err
	}
	return &Payment{UserID: sponsor.ID, Type: models.IncomeDirect, Amount: amount}, nil
}

// payLevels walks the chain starting at the sponsor with the level counter
// at 2. An upline is paid level percent of the price only while its package
// unlocks that depth.
func (d *distributor) payLevels(r repositories.Repositories, buyer *models.User, pkg *models.Package) ([]Payment, error) {
	var payments []Payment

	uplineID := buyer.SponsorID
	for level := 2; level <= maxLevelDepth && uplineID != nil; level++ {
		upline, err := r.Users.GetByID(*uplineID)
		if err != nil {
			return nil, err
		}

		if upline.PackageLevel() >= level {
			amount := round2(pkg.Price * float64(level) / 100)
			remark := fmt.Sprintf("Level %d income for purchase of %s", level, pkg.Name)
			if err := d.pay(r, upline.ID, models.IncomeLevel, models.CategoryLevelIncome, amount, remark, map[string]interface{}{
				"buyer_id": buyer.ID,
				"level":    level,
			}); err != nil {
				return nil, err
			}
			payments = append(payments, Payment{UserID: upline.ID, Type: models.IncomeLevel, Level: level, Amount: amount})
		}

		uplineID = upline.SponsorID
	}
	return payments, nil
}

// payClub pays the flat club amount to every package-holding upline all the
// way to the root.
func (d *distributor) payClub(r repositories.Repositories, buyer *models.User, pkg *models.Package) ([]Payment, error) {
	var payments []Payment

	uplineID := buyer.SponsorID
	for depth := 0; depth < maxChainDepth && uplineID != nil; depth++ {
		upline, err := r.Users.GetByID(*uplineID)
		if err != nil {
			return nil, err
		}

		if upline.HasPackage() {
			remark := fmt.Sprintf("Club income for purchase of %s", pkg.Name)
			if err := d.pay(r, upline.ID, models.IncomeClub, models.CategoryClubIncome, clubAmount, remark, map[string]interface{}{
				"buyer_id": buyer.ID,
			}); err != nil {
				return nil, err
			}
			payments = append(payments, Payment{UserID: upline.ID, Type: models.IncomeClub, Amount: clubAmount})
		}

		uplineID = upline.SponsorID
	}
	return payments, nil
}

// pay dual-writes the income log and the earning-wallet credit.
func (d *distributor) pay(r repositories.Repositories, userID uint, incomeType, category string, amount float64, remark string, metadata map[string]interface{}) error {
	if err := r.Incomes.Create(&models.Income{
		UserID: userID,
		Type:   incomeType,
		Amount: amount,
		Remark: remark,
	}); err != nil {
		return err
	}
	_, err := d.wallets.CreditInTx(r.Wallets, userID, models.WalletTypeEarning, amount, category, remark, metadata)
	return err
}
