package income

import (
	"testing"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/wallet"
	"github.com/srigunasankarkatta/mlm-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDistributor(t *testing.T) (Distributor, *testutil.World) {
	t.Helper()
	world := testutil.NewWorld()
	world.SeedPackages()
	return NewDistributor(wallet.NewService(world.Wallets, nil, nil)), world
}

func paymentsOfType(payments []Payment, incomeType string) []Payment {
	var out []Payment
	for _, p := range payments {
		if p.Type == incomeType {
			out = append(out, p)
		}
	}
	return out
}

func TestDirectIncomePercentageByPosition(t *testing.T) {
	d, world := newTestDistributor(t)
	repos := world.Manager.Repos()
	pkg, err := world.Packages.GetByID(1) // price 20
	require.NoError(t, err)

	sponsor := world.NewUser("sponsor", 0, 1)

	// 1st through 4th qualifying direct earn 6/9/12/15 percent; a fifth
	// earns the sponsor nothing.
	expected := []float64{1.20, 1.80, 2.40, 3.00, 0}
	for i, want := range expected {
		buyer := world.NewUser(buyerName(i), sponsor.ID, 1)
		payments, err := d.Distribute(repos, buyer, pkg)
		require.NoError(t, err)

		directs := paymentsOfType(payments, models.IncomeDirect)
		if want == 0 {
			assert.Empty(t, directs)
			continue
		}
		require.Len(t, directs, 1)
		assert.Equal(t, sponsor.ID, directs[0].UserID)
		assert.Equal(t, want, directs[0].Amount)
	}

	total, err := world.Incomes.TotalByType(sponsor.ID, models.IncomeDirect)
	require.NoError(t, err)
	assert.Equal(t, 8.40, total)
}

func buyerName(i int) string {
	return string(rune('a'+i)) + "-buyer"
}

func TestDirectIncomeSkippedWhenSponsorHasNoPackage(t *testing.T) {
	d, world := newTestDistributor(t)
	repos := world.Manager.Repos()
	pkg, _ := world.Packages.GetByID(1)

	sponsor := world.NewUser("sponsor", 0, 0)
	buyer := world.NewUser("buyer", sponsor.ID, 1)

	payments, err := d.Distribute(repos, buyer, pkg)
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.Equal(t, 0.0, world.Wallets.Balance(sponsor.ID, models.WalletTypeEarning))
}

func TestNoSponsorNoDistribution(t *testing.T) {
	d, world := newTestDistributor(t)
	repos := world.Manager.Repos()
	pkg, _ := world.Packages.GetByID(1)

	buyer := world.NewUser("orphan", 0, 1)
	payments, err := d.Distribute(repos, buyer, pkg)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestLevelIncomeGatedByPackageUnlock(t *testing.T) {
	d, world := newTestDistributor(t)
	repos := world.Manager.Repos()
	pkg, _ := world.Packages.GetByID(1) // price 20

	// root(tier 10) <- a(tier 3) <- b(tier 1) <- buyer
	root := world.NewUser("root", 0, 10)
	a := world.NewUser("a", root.ID, 3)
	b := world.NewUser("b", a.ID, 1)
	buyer := world.NewUser("buyer", b.ID, 1)

	payments, err := d.Distribute(repos, buyer, pkg)
	require.NoError(t, err)

	levels := paymentsOfType(payments, models.IncomeLevel)
	require.Len(t, levels, 2)

	// b is level 2 but tier 1 cannot unlock it; a gets 3% at level 3 and
	// root 4% at level 4.
	assert.Equal(t, a.ID, levels[0].UserID)
	assert.Equal(t, 3, levels[0].Level)
	assert.Equal(t, 0.60, levels[0].Amount)
	assert.Equal(t, root.ID, levels[1].UserID)
	assert.Equal(t, 4, levels[1].Level)
	assert.Equal(t, 0.80, levels[1].Amount)

	// Club pays every package-holding upline a flat half unit.
	clubs := paymentsOfType(payments, models.IncomeClub)
	require.Len(t, clubs, 3)
	for _, c := range clubs {
		assert.Equal(t, 0.50, c.Amount)
	}

	assert.Equal(t, 1.70, world.Wallets.Balance(b.ID, models.WalletTypeEarning))   // direct 1.20 + club 0.50
	assert.Equal(t, 1.10, world.Wallets.Balance(a.ID, models.WalletTypeEarning))   // level 0.60 + club 0.50
	assert.Equal(t, 1.30, world.Wallets.Balance(root.ID, models.WalletTypeEarning)) // level 0.80 + club 0.50
}

func TestLevelIncomeStopsAtLevelTenClubDoesNot(t *testing.T) {
	d, world := newTestDistributor(t)
	repos := world.Manager.Repos()
	pkg, _ := world.Packages.GetByID(5) // price 100

	// A 12-deep chain, every ancestor on the top tier.
	var sponsorID uint
	for i := 0; i < 12; i++ {
		u := world.NewUser(chainName(i), sponsorID, 10)
		sponsorID = u.ID
	}
	buyer := world.NewUser("buyer", sponsorID, 1)

	payments, err := d.Distribute(repos, buyer, pkg)
	require.NoError(t, err)

	// Levels 2..10 pay nine uplines; club pays all twelve.
	levels := paymentsOfType(payments, models.IncomeLevel)
	require.Len(t, levels, 9)
	assert.Equal(t, 2, levels[0].Level)
	assert.Equal(t, 2.0, levels[0].Amount) // 2% of 100
	assert.Equal(t, 10, levels[8].Level)
	assert.Equal(t, 10.0, levels[8].Amount)

	clubs := paymentsOfType(payments, models.IncomeClub)
	assert.Len(t, clubs, 12)
}

func chainName(i int) string {
	return "chain-" + string(rune('a'+i))
}

func TestEveryPaymentDualWrites(t *testing.T) {
	d, world := newTestDistributor(t)
	repos := world.Manager.Repos()
	pkg, _ := world.Packages.GetByID(1)

	sponsor := world.NewUser("sponsor", 0, 2)
	buyer := world.NewUser("buyer", sponsor.ID, 1)

	payments, err := d.Distribute(repos, buyer, pkg)
	require.NoError(t, err)
	require.NotEmpty(t, payments)

	// Income log rows and ledger entries agree per type.
	for _, incomeType := range []string{models.IncomeDirect, models.IncomeLevel, models.IncomeClub} {
		logged, err := world.Incomes.TotalByType(sponsor.ID, incomeType)
		require.NoError(t, err)

		var ledger float64
		for _, txn := range world.Wallets.Transactions {
			if txn.UserID == sponsor.ID && txn.Category == categoryFor(incomeType) {
				ledger += txn.Amount
			}
		}
		assert.Equal(t, logged, ledger, incomeType)
	}

	// direct 1.20 + level-2 0.40 + club 0.50
	assert.Equal(t, 2.10, world.Wallets.Balance(sponsor.ID, models.WalletTypeEarning))
}

func categoryFor(incomeType string) string {
	switch incomeType {
	case models.IncomeDirect:
		return models.CategoryDirectIncome
	case models.IncomeLevel:
		return models.CategoryLevelIncome
	default:
		return models.CategoryClubIncome
	}
}
