package wallet

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWalletRepo is an in-memory WalletRepository for service tests.
type fakeWalletRepo struct {
	wallets      map[string]*models.Wallet
	transactions []*models.WalletTransaction
	withdrawals  map[uint]*models.Withdrawal

	nextWalletID     uint
	nextTxnID        uint
	nextWithdrawalID uint
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		wallets:     make(map[string]*models.Wallet),
		withdrawals: make(map[uint]*models.Withdrawal),
	}
}

func walletKey(userID uint, walletType string) string {
	return fmt.Sprintf("%d:%s", userID, walletType)
}

func (f *fakeWalletRepo) GetByUserAndType(userID uint, walletType string) (*models.Wallet, error) {
	w, ok := f.wallets[walletKey(userID, walletType)]
	if !ok {
		return nil, repositories.ErrWalletNotFound
	}
	return w, nil
}

func (f *fakeWalletRepo) GetByUserAndTypeForUpdate(userID uint, walletType string) (*models.Wallet, error) {
	return f.GetByUserAndType(userID, walletType)
}

func (f *fakeWalletRepo) GetByUser(userID uint) ([]models.Wallet, error) {
	var out []models.Wallet
	for _, w := range f.wallets {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWalletRepo) Create(w *models.Wallet) error {
	f.nextWalletID++
	w.ID = f.nextWalletID
	f.wallets[walletKey(w.UserID, w.Type)] = w
	return nil
}

func (f *fakeWalletRepo) Save(w *models.Wallet) error {
	f.wallets[walletKey(w.UserID, w.Type)] = w
	return nil
}

func (f *fakeWalletRepo) CreateTransaction(txn *models.WalletTransaction) error {
	f.nextTxnID++
	txn.ID = f.nextTxnID
	f.transactions = append(f.transactions, txn)
	return nil
}

func (f *fakeWalletRepo) GetTransactionByID(id uint) (*models.WalletTransaction, error) {
	for _, txn := range f.transactions {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, repositories.ErrTransactionNotFound
}

func (f *fakeWalletRepo) GetTransactionsByUser(userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	var out []models.WalletTransaction
	for _, txn := range f.transactions {
		if txn.UserID == userID {
			out = append(out, *txn)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeWalletRepo) SaveTransaction(txn *models.WalletTransaction) error {
	for i, existing := range f.transactions {
		if existing.ID == txn.ID {
			f.transactions[i] = txn
			return nil
		}
	}
	return repositories.ErrTransactionNotFound
}

func (f *fakeWalletRepo) CreateWithdrawal(w *models.Withdrawal) error {
	f.nextWithdrawalID++
	w.ID = f.nextWithdrawalID
	w.CreatedAt = time.Now()
	f.withdrawals[w.ID] = w
	return nil
}

func (f *fakeWalletRepo) GetWithdrawalByID(id uint) (*models.Withdrawal, error) {
	w, ok := f.withdrawals[id]
	if !ok {
		return nil, repositories.ErrWithdrawalNotFound
	}
	return w, nil
}

func (f *fakeWalletRepo) GetWithdrawalByIDForUpdate(id uint) (*models.Withdrawal, error) {
	return f.GetWithdrawalByID(id)
}

func (f *fakeWalletRepo) GetWithdrawalsByUser(userID uint, limit, offset int) ([]models.Withdrawal, int64, error) {
	var out []models.Withdrawal
	for _, w := range f.withdrawals {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeWalletRepo) GetWithdrawalsByStatus(status string, limit, offset int) ([]models.Withdrawal, int64, error) {
	var out []models.Withdrawal
	for _, w := range f.withdrawals {
		if w.Status == status {
			out = append(out, *w)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeWalletRepo) SaveWithdrawal(w *models.Withdrawal) error {
	f.withdrawals[w.ID] = w
	return nil
}

func (f *fakeWalletRepo) WithdrawalTotalSince(walletID uint, since time.Time) (float64, error) {
	var total float64
	for _, w := range f.withdrawals {
		if w.WalletID != walletID || w.CreatedAt.Before(since) {
			continue
		}
		if w.Status == models.WithdrawalRejected || w.Status == models.WithdrawalCancelled {
			continue
		}
		total += w.Amount
	}
	return total, nil
}

func (f *fakeWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(f)
}

// ledgerBalance replays every entry for a wallet: credit-like entries add,
// everything else subtracts.
func (f *fakeWalletRepo) ledgerBalance(walletID uint) float64 {
	var sum float64
	for _, txn := range f.transactions {
		if txn.WalletID != walletID {
			continue
		}
		if models.IsCreditType(txn.Type) {
			sum += txn.Amount
		} else {
			sum -= txn.Amount
		}
	}
	return round2(sum)
}

func newTestService(t *testing.T) (Service, *fakeWalletRepo) {
	t.Helper()
	repo := newFakeWalletRepo()
	return NewService(repo, nil, nil), repo
}

func TestCreditProvisionsWalletsAndWritesLedger(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	txn, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 100, models.CategoryDirectIncome, "Direct income", nil)
	require.NoError(t, err)

	assert.Equal(t, models.WalletTxCredit, txn.Type)
	assert.Equal(t, 0.0, txn.BalanceBefore)
	assert.Equal(t, 100.0, txn.BalanceAfter)
	assert.Equal(t, models.TxStatusCompleted, txn.Status)
	assert.Contains(t, txn.ReferenceID, "WTX-")

	// First touch provisions every wallet type for the user.
	wallets, err := repo.GetByUser(1)
	require.NoError(t, err)
	assert.Len(t, wallets, len(models.WalletTypes))

	w, err := repo.GetByUserAndType(1, models.WalletTypeEarning)
	require.NoError(t, err)
	assert.Equal(t, 100.0, w.Balance)
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 0, models.CategoryBonus, "", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Credit(ctx, 1, models.WalletTypeEarning, -5, models.CategoryBonus, "", nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreditRejectsUnknownWalletType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Credit(context.Background(), 1, "savings", 10, models.CategoryBonus, "", nil)
	assert.ErrorIs(t, err, ErrInvalidWalletType)
}

func TestDebitInsufficientBalance(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 50, models.CategoryBonus, "", nil)
	require.NoError(t, err)

	_, err = svc.Debit(ctx, 1, models.WalletTypeEarning, 80, models.CategoryAdminDebit, "", nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	w, err := repo.GetByUserAndType(1, models.WalletTypeEarning)
	require.NoError(t, err)
	assert.Equal(t, 50.0, w.Balance)
}

func TestDebitRecordsSnapshots(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 200, models.CategoryBonus, "", nil)
	require.NoError(t, err)

	txn, err := svc.Debit(ctx, 1, models.WalletTypeEarning, 75.50, models.CategoryAdminDebit, "Correction", nil)
	require.NoError(t, err)
	assert.Equal(t, 200.0, txn.BalanceBefore)
	assert.Equal(t, 124.50, txn.BalanceAfter)
}

func TestLedgerReconciliation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 120.10, models.CategoryDirectIncome, "", nil)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, models.WalletTypeEarning, 33.33, models.CategoryLevelIncome, "", nil)
	require.NoError(t, err)
	_, err = svc.Debit(ctx, 1, models.WalletTypeEarning, 41.42, models.CategoryAdminDebit, "", nil)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, 1, models.WalletTypeEarning, 0.50, models.CategoryClubIncome, "", nil)
	require.NoError(t, err)

	w, err := repo.GetByUserAndType(1, models.WalletTypeEarning)
	require.NoError(t, err)
	assert.Equal(t, repo.ledgerBalance(w.ID), w.Balance)
	assert.Equal(t, 112.51, w.Balance)
}

func TestTransferMovesBalanceBetweenWallets(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 100, models.CategoryDirectIncome, "", nil)
	require.NoError(t, err)

	result, err := svc.Transfer(ctx, 1, models.WalletTypeEarning, models.WalletTypeBonus, 40, "")
	require.NoError(t, err)
	require.NotNil(t, result.Debit)
	require.NotNil(t, result.Credit)

	assert.Equal(t, models.WalletTxTransferOut, result.Debit.Type)
	assert.Equal(t, models.WalletTxTransferIn, result.Credit.Type)
	assert.Equal(t, result.Debit.ReferenceID, result.Credit.Metadata["counterpart_reference"])

	from, err := repo.GetByUserAndType(1, models.WalletTypeEarning)
	require.NoError(t, err)
	to, err := repo.GetByUserAndType(1, models.WalletTypeBonus)
	require.NoError(t, err)
	assert.Equal(t, 60.0, from.Balance)
	assert.Equal(t, 40.0, to.Balance)
}

func TestTransferSameWalletRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Transfer(context.Background(), 1, models.WalletTypeEarning, models.WalletTypeEarning, 10, "")
	assert.ErrorIs(t, err, ErrSameWallet)
}

func TestTransferInsufficientSource(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 20, models.CategoryBonus, "", nil)
	require.NoError(t, err)

	_, err = svc.Transfer(ctx, 1, models.WalletTypeEarning, models.WalletTypeBonus, 50, "")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	to, err := repo.GetByUserAndType(1, models.WalletTypeBonus)
	require.NoError(t, err)
	assert.Equal(t, 0.0, to.Balance)
}

func TestInactiveWalletRejectsEntries(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 10, models.CategoryBonus, "", nil)
	require.NoError(t, err)

	w, err := repo.GetByUserAndType(1, models.WalletTypeEarning)
	require.NoError(t, err)
	w.IsActive = false
	require.NoError(t, repo.Save(w))

	_, err = svc.Credit(ctx, 1, models.WalletTypeEarning, 10, models.CategoryBonus, "", nil)
	assert.ErrorIs(t, err, ErrWalletInactive)
}

func TestAmountsRoundedToCents(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	txn, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 33.333, models.CategoryLevelIncome, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 33.33, txn.Amount)
	assert.Equal(t, 33.33, txn.BalanceAfter)
}

func TestUpdateTransactionStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	txn, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 10, models.CategoryBonus, "", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateTransactionStatus(ctx, txn.ID, models.TxStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.TxStatusCancelled, updated.Status)

	_, err = svc.UpdateTransactionStatus(ctx, txn.ID, "reversed")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetUserWalletBalances(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Credit(ctx, 1, models.WalletTypeEarning, 75, models.CategoryDirectIncome, "", nil)
	require.NoError(t, err)

	balances, err := svc.GetUserWalletBalances(ctx, 1)
	require.NoError(t, err)
	require.Len(t, balances, len(models.WalletTypes))

	var earning *WalletBalance
	for i := range balances {
		if balances[i].Type == models.WalletTypeEarning {
			earning = &balances[i]
		}
		if balances[i].Type == models.WalletTypeReward {
			assert.False(t, balances[i].WithdrawalEnabled)
		}
	}
	require.NotNil(t, earning)
	assert.Equal(t, 75.0, earning.Balance)
	assert.Equal(t, 75.0, earning.AvailableBalance)
	assert.True(t, earning.WithdrawalEnabled)
}
