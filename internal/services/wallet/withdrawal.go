package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"gorm.io/datatypes"
)

// withdrawalTransitions is the allowed state machine. Absent states are
// terminal.
var withdrawalTransitions = map[string][]string{
	models.WithdrawalPending:    {models.WithdrawalApproved, models.WithdrawalRejected},
	models.WithdrawalApproved:   {models.WithdrawalProcessing, models.WithdrawalCancelled},
	models.WithdrawalProcessing: {models.WithdrawalCompleted, models.WithdrawalFailed, models.WithdrawalCancelled},
}

func transitionAllowed(from, to string) bool {
	for _, next := range withdrawalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *service) CreateWithdrawal(ctx context.Context, userID uint, walletType string, amount float64, method string, paymentDetails map[string]interface{}, notes string) (*models.Withdrawal, error) {
	feeRate, ok := models.WithdrawalFeeRates[method]
	if !ok {
		return nil, ErrUnknownMethod
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	amount = round2(amount)

	var withdrawal *models.Withdrawal
	err := s.repo.ExecuteInTransaction(func(r repositories.WalletRepository) error {
		w, err := s.walletForUpdate(r, userID, walletType)
		if err != nil {
			return err
		}
		if !w.IsActive {
			return ErrWalletInactive
		}

		if err := s.validateWithdrawal(r, w, amount); err != nil {
			return err
		}

		fee := round2(amount * feeRate)
		netAmount := round2(amount - fee)

		// The hold is taken eagerly, before approval.
		before := w.Balance
		w.Balance = round2(w.Balance - amount)
		w.PendingBalance = round2(w.PendingBalance + amount)
		if err := r.Save(w); err != nil {
			return err
		}

		holdTxn := &models.WalletTransaction{
			WalletID:      w.ID,
			UserID:        userID,
			Type:          models.WalletTxWithdrawal,
			Category:      models.CategoryWithdrawal,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  w.Balance,
			ReferenceID:   utils.NewReferenceID("WTX"),
			Description:   fmt.Sprintf("Withdrawal hold via %s", method),
			Status:        models.TxStatusCompleted,
		}
		if err := r.CreateTransaction(holdTxn); err != nil {
			return err
		}

		withdrawal = &models.Withdrawal{
			UserID:         userID,
			WalletID:       w.ID,
			WithdrawalID:   utils.NewReferenceID("WTH"),
			Amount:         amount,
			Fee:            fee,
			NetAmount:      netAmount,
			Method:         method,
			PaymentDetails: datatypes.JSONMap(paymentDetails),
			Status:         models.WithdrawalPending,
			UserNotes:      notes,
			Metadata: datatypes.JSONMap{
				"wallet_type":    walletType,
				"hold_reference": holdTxn.ReferenceID,
			},
		}
		return r.CreateWithdrawal(withdrawal)
	})
	if err != nil {
		s.metrics.RecordError("create_withdrawal", err.Error())
		return nil, err
	}

	s.invalidate(ctx, userID, walletType)
	s.metrics.RecordTransaction(models.WalletTxWithdrawal, amount)
	return withdrawal, nil
}

func (s *service) validateWithdrawal(r repositories.WalletRepository, w *models.Wallet, amount float64) error {
	settings := w.Settings.Data()

	if !settings.WithdrawalEnabled {
		return fmt.Errorf("%w: withdrawals are not enabled for the %s wallet", ErrWithdrawalRejected, w.Type)
	}
	if amount < settings.MinWithdrawal {
		return fmt.Errorf("%w: amount is below the minimum withdrawal of %.2f", ErrWithdrawalRejected, settings.MinWithdrawal)
	}
	if amount > settings.MaxWithdrawal {
		return fmt.Errorf("%w: amount exceeds the maximum withdrawal of %.2f", ErrWithdrawalRejected, settings.MaxWithdrawal)
	}
	if w.AvailableBalance() < amount {
		return fmt.Errorf("%w: insufficient wallet balance", ErrWithdrawalRejected)
	}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	if settings.DailyLimit > 0 {
		dailyTotal, err := r.WithdrawalTotalSince(w.ID, startOfDay)
		if err != nil {
			return err
		}
		if dailyTotal+amount > settings.DailyLimit {
			return fmt.Errorf("%w: daily withdrawal limit of %.2f exceeded", ErrWithdrawalRejected, settings.DailyLimit)
		}
	}
	if settings.MonthlyLimit > 0 {
		monthlyTotal, err := r.WithdrawalTotalSince(w.ID, startOfMonth)
		if err != nil {
			return err
		}
		if monthlyTotal+amount > settings.MonthlyLimit {
			return fmt.Errorf("%w: monthly withdrawal limit of %.2f exceeded", ErrWithdrawalRejected, settings.MonthlyLimit)
		}
	}

	return nil
}

func (s *service) ProcessWithdrawal(ctx context.Context, withdrawalID uint, newStatus string, adminID uint, notes string) (*models.Withdrawal, error) {
	var withdrawal *models.Withdrawal
	var affectedUser uint
	var affectedType string

	err := s.repo.ExecuteInTransaction(func(r repositories.WalletRepository) error {
		var err error
		withdrawal, err = r.GetWithdrawalByIDForUpdate(withdrawalID)
		if err != nil {
			return err
		}

		if withdrawal.IsTerminal() {
			return ErrWithdrawalFinal
		}
		if !transitionAllowed(withdrawal.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, withdrawal.Status, newStatus)
		}

		now := time.Now()
		withdrawal.Status = newStatus
		withdrawal.AdminNotes = notes
		withdrawal.ProcessedBy = &adminID
		withdrawal.ProcessedAt = &now

		// Only entering rejected/cancelled (refund) or completed
		// (finalize) touches balances.
		switch newStatus {
		case models.WithdrawalRejected, models.WithdrawalCancelled:
			if err := s.releaseHold(r, withdrawal, true); err != nil {
				return err
			}
		case models.WithdrawalCompleted:
			if err := s.releaseHold(r, withdrawal, false); err != nil {
				return err
			}
		}

		if wt, ok := withdrawal.Metadata["wallet_type"].(string); ok {
			affectedUser, affectedType = withdrawal.UserID, wt
		}
		return r.SaveWithdrawal(withdrawal)
	})
	if err != nil {
		s.metrics.RecordError("process_withdrawal", err.Error())
		return nil, err
	}

	if affectedUser != 0 {
		s.invalidate(ctx, affectedUser, affectedType)
	}
	return withdrawal, nil
}

// releaseHold resolves the pending-balance hold a withdrawal owns. A refund
// returns the amount to balance with a ledger entry; a finalize moves it to
// withdrawn_balance, where it leaves the system.
func (s *service) releaseHold(r repositories.WalletRepository, withdrawal *models.Withdrawal, refund bool) error {
	walletType, _ := withdrawal.Metadata["wallet_type"].(string)
	w, err := s.walletForUpdate(r, withdrawal.UserID, walletType)
	if err != nil {
		return err
	}

	w.PendingBalance = round2(w.PendingBalance - withdrawal.Amount)

	if !refund {
		w.WithdrawnBalance = round2(w.WithdrawnBalance + withdrawal.Amount)
		return r.Save(w)
	}

	before := w.Balance
	w.Balance = round2(w.Balance + withdrawal.Amount)
	if err := r.Save(w); err != nil {
		return err
	}

	refundTxn := &models.WalletTransaction{
		WalletID:      w.ID,
		UserID:        withdrawal.UserID,
		Type:          models.WalletTxRefund,
		Category:      models.CategoryWithdrawal,
		Amount:        withdrawal.Amount,
		BalanceBefore: before,
		BalanceAfter:  w.Balance,
		ReferenceID:   utils.NewReferenceID("WTX"),
		Description:   fmt.Sprintf("Withdrawal %s %s", withdrawal.WithdrawalID, withdrawal.Status),
		Metadata:      datatypes.JSONMap{"withdrawal_id": withdrawal.WithdrawalID},
		Status:        models.TxStatusCompleted,
	}
	return r.CreateTransaction(refundTxn)
}
