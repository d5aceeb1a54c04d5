package wallet

import (
	"context"
	"testing"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fundedService(t *testing.T, walletType string, amount float64) (Service, *fakeWalletRepo) {
	t.Helper()
	svc, repo := newTestService(t)
	_, err := svc.Credit(context.Background(), 1, walletType, amount, models.CategoryDirectIncome, "seed", nil)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateWithdrawalHoldsFunds(t *testing.T) {
	svc, repo := fundedService(t, models.WalletTypeEarning, 150)
	ctx := context.Background()

	w, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 100, models.MethodBankTransfer, map[string]interface{}{
		"account_number": "123456",
	}, "first payout")
	require.NoError(t, err)

	assert.Equal(t, models.WithdrawalPending, w.Status)
	assert.Equal(t, 100.0, w.Amount)
	assert.Equal(t, 2.0, w.Fee)
	assert.Equal(t, 98.0, w.NetAmount)
	assert.Contains(t, w.WithdrawalID, "WTH-")

	wallet, err := repo.GetByUserAndType(1, models.WalletTypeEarning)
	require.NoError(t, err)
	assert.Equal(t, 50.0, wallet.Balance)
	assert.Equal(t, 100.0, wallet.PendingBalance)
	assert.Equal(t, 0.0, wallet.WithdrawnBalance)

	// The hold appears in the ledger so replaying entries still matches.
	assert.Equal(t, repo.ledgerBalance(wallet.ID), wallet.Balance)
}

func TestCreateWithdrawalFeeByMethod(t *testing.T) {
	tests := []struct {
		method string
		fee    float64
		net    float64
	}{
		{models.MethodBankTransfer, 2.00, 98.00},
		{models.MethodDigitalWallet, 3.00, 97.00},
		{models.MethodCryptocurrency, 5.00, 95.00},
		{models.MethodCheck, 1.00, 99.00},
		{models.MethodCashPickup, 4.00, 96.00},
	}

	for _, tc := range tests {
		t.Run(tc.method, func(t *testing.T) {
			svc, _ := fundedService(t, models.WalletTypeEarning, 500)

			w, err := svc.CreateWithdrawal(context.Background(), 1, models.WalletTypeEarning, 100, tc.method, nil, "")
			require.NoError(t, err)
			assert.Equal(t, tc.fee, w.Fee)
			assert.Equal(t, tc.net, w.NetAmount)
		})
	}
}

func TestCreateWithdrawalUnknownMethod(t *testing.T) {
	svc, _ := fundedService(t, models.WalletTypeEarning, 500)

	_, err := svc.CreateWithdrawal(context.Background(), 1, models.WalletTypeEarning, 100, "carrier_pigeon", nil, "")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestCreateWithdrawalPolicyViolations(t *testing.T) {
	ctx := context.Background()

	t.Run("below minimum", func(t *testing.T) {
		svc, _ := fundedService(t, models.WalletTypeEarning, 500)
		_, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 5, models.MethodBankTransfer, nil, "")
		assert.ErrorIs(t, err, ErrWithdrawalRejected)
	})

	t.Run("above maximum", func(t *testing.T) {
		svc, _ := fundedService(t, models.WalletTypeEarning, 10000)
		_, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 6000, models.MethodBankTransfer, nil, "")
		assert.ErrorIs(t, err, ErrWithdrawalRejected)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		svc, _ := fundedService(t, models.WalletTypeEarning, 50)
		_, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 100, models.MethodBankTransfer, nil, "")
		assert.ErrorIs(t, err, ErrWithdrawalRejected)
	})

	t.Run("reward wallet not withdrawable", func(t *testing.T) {
		svc, _ := fundedService(t, models.WalletTypeReward, 500)
		_, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeReward, 100, models.MethodBankTransfer, nil, "")
		assert.ErrorIs(t, err, ErrWithdrawalRejected)
	})

	t.Run("bonus wallet higher minimum", func(t *testing.T) {
		svc, _ := fundedService(t, models.WalletTypeBonus, 500)
		_, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeBonus, 20, models.MethodBankTransfer, nil, "")
		assert.ErrorIs(t, err, ErrWithdrawalRejected)

		_, err = svc.CreateWithdrawal(ctx, 1, models.WalletTypeBonus, 60, models.MethodBankTransfer, nil, "")
		assert.NoError(t, err)
	})
}

func TestCreateWithdrawalDailyLimit(t *testing.T) {
	svc, _ := fundedService(t, models.WalletTypeEarning, 2000)
	ctx := context.Background()

	_, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 400, models.MethodBankTransfer, nil, "")
	require.NoError(t, err)

	// 400 + 200 would cross the 500 daily cap.
	_, err = svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 200, models.MethodBankTransfer, nil, "")
	assert.ErrorIs(t, err, ErrWithdrawalRejected)

	_, err = svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 100, models.MethodBankTransfer, nil, "")
	assert.NoError(t, err)
}

func TestCreateWithdrawalRejectedRequestsDoNotCountTowardLimits(t *testing.T) {
	svc, _ := fundedService(t, models.WalletTypeEarning, 2000)
	ctx := context.Background()

	w, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 400, models.MethodBankTransfer, nil, "")
	require.NoError(t, err)

	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalRejected, 99, "bad details")
	require.NoError(t, err)

	// The refunded 400 frees the daily allowance again.
	_, err = svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 400, models.MethodBankTransfer, nil, "")
	assert.NoError(t, err)
}

func TestProcessWithdrawalRejectRefunds(t *testing.T) {
	svc, repo := fundedService(t, models.WalletTypeEarning, 150)
	ctx := context.Background()

	w, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 100, models.MethodBankTransfer, nil, "")
	require.NoError(t, err)

	processed, err := svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalRejected, 99, "kyc mismatch")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, processed.Status)
	assert.Equal(t, "kyc mismatch", processed.AdminNotes)
	require.NotNil(t, processed.ProcessedBy)
	assert.Equal(t, uint(99), *processed.ProcessedBy)
	assert.NotNil(t, processed.ProcessedAt)

	wallet, err := repo.GetByUserAndType(1, models.WalletTypeEarning)
	require.NoError(t, err)
	assert.Equal(t, 150.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.PendingBalance)
	assert.Equal(t, 0.0, wallet.WithdrawnBalance)

	// Hold and refund both hit the ledger, so replay still reconciles.
	assert.Equal(t, repo.ledgerBalance(wallet.ID), wallet.Balance)

	var refund *models.WalletTransaction
	for _, txn := range repo.transactions {
		if txn.Type == models.WalletTxRefund {
			refund = txn
		}
	}
	require.NotNil(t, refund)
	assert.Equal(t, 100.0, refund.Amount)
}

func TestProcessWithdrawalFullLifecycle(t *testing.T) {
	svc, repo := fundedService(t, models.WalletTypeEarning, 150)
	ctx := context.Background()

	w, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 100, models.MethodBankTransfer, nil, "")
	require.NoError(t, err)

	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalApproved, 99, "")
	require.NoError(t, err)
	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalProcessing, 99, "")
	require.NoError(t, err)
	processed, err := svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalCompleted, 99, "paid out")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalCompleted, processed.Status)

	wallet, err := repo.GetByUserAndType(1, models.WalletTypeEarning)
	require.NoError(t, err)
	assert.Equal(t, 50.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.PendingBalance)
	assert.Equal(t, 100.0, wallet.WithdrawnBalance)
}

func TestProcessWithdrawalTerminalGuard(t *testing.T) {
	svc, _ := fundedService(t, models.WalletTypeEarning, 150)
	ctx := context.Background()

	w, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 100, models.MethodBankTransfer, nil, "")
	require.NoError(t, err)

	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalRejected, 99, "")
	require.NoError(t, err)

	// A second refund attempt must not double-credit the wallet.
	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalRejected, 99, "")
	assert.ErrorIs(t, err, ErrWithdrawalFinal)

	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalApproved, 99, "")
	assert.ErrorIs(t, err, ErrWithdrawalFinal)
}

func TestProcessWithdrawalInvalidTransition(t *testing.T) {
	svc, _ := fundedService(t, models.WalletTypeEarning, 150)
	ctx := context.Background()

	w, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 100, models.MethodBankTransfer, nil, "")
	require.NoError(t, err)

	// pending cannot jump straight to completed.
	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalCompleted, 99, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalCancelled, 99, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestProcessWithdrawalCancelAfterApprovalRefunds(t *testing.T) {
	svc, repo := fundedService(t, models.WalletTypeEarning, 150)
	ctx := context.Background()

	w, err := svc.CreateWithdrawal(ctx, 1, models.WalletTypeEarning, 100, models.MethodBankTransfer, nil, "")
	require.NoError(t, err)

	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalApproved, 99, "")
	require.NoError(t, err)
	_, err = svc.ProcessWithdrawal(ctx, w.ID, models.WithdrawalCancelled, 99, "user request")
	require.NoError(t, err)

	wallet, err := repo.GetByUserAndType(1, models.WalletTypeEarning)
	require.NoError(t, err)
	assert.Equal(t, 150.0, wallet.Balance)
	assert.Equal(t, 0.0, wallet.PendingBalance)
}
