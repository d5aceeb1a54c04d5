package wallet

import (
	"context"
	"fmt"
	"math"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/utils"

	"gorm.io/datatypes"
)

type service struct {
	repo    repositories.WalletRepository
	cache   CacheOperator
	metrics MetricsCollector
}

// NewService creates the wallet ledger service. The cache is optional; a
// nil cache disables read caching. A nil metrics collector becomes a no-op.
func NewService(repo repositories.WalletRepository, cache CacheOperator, metrics MetricsCollector) Service {
	if repo == nil {
		panic("wallet repository is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
	}
}

// round2 keeps every stored amount at 2-decimal currency precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *service) Credit(ctx context.Context, userID uint, walletType string, amount float64, category, description string, metadata map[string]interface{}) (*models.WalletTransaction, error) {
	var txn *models.WalletTransaction
	err := s.repo.ExecuteInTransaction(func(r repositories.WalletRepository) error {
		var err error
		txn, err = s.CreditInTx(r, userID, walletType, amount, category, description, metadata)
		return err
	})
	if err != nil {
		s.metrics.RecordError("credit", err.Error())
		return nil, err
	}

	s.invalidate(ctx, userID, walletType)
	s.metrics.RecordTransaction(models.WalletTxCredit, amount)
	return txn, nil
}

func (s *service) Debit(ctx context.Context, userID uint, walletType string, amount float64, category, description string, metadata map[string]interface{}) (*models.WalletTransaction, error) {
	var txn *models.WalletTransaction
	err := s.repo.ExecuteInTransaction(func(r repositories.WalletRepository) error {
		var err error
		txn, err = s.DebitInTx(r, userID, walletType, amount, category, description, metadata)
		return err
	})
	if err != nil {
		s.metrics.RecordError("debit", err.Error())
		return nil, err
	}

	s.invalidate(ctx, userID, walletType)
	s.metrics.RecordTransaction(models.WalletTxDebit, amount)
	return txn, nil
}

func (s *service) Transfer(ctx context.Context, userID uint, fromType, toType string, amount float64, description string) (*TransferResult, error) {
	if fromType == toType {
		return nil, ErrSameWallet
	}
	if description == "" {
		description = fmt.Sprintf("Transfer from %s to %s wallet", fromType, toType)
	}

	result := &TransferResult{}
	err := s.repo.ExecuteInTransaction(func(r repositories.WalletRepository) error {
		// Debit first; if it fails no credit happens.
		debit, err := s.applyEntry(r, userID, fromType, amount, models.WalletTxTransferOut, models.CategoryTransfer, description, nil)
		if err != nil {
			return err
		}
		credit, err := s.applyEntry(r, userID, toType, amount, models.WalletTxTransferIn, models.CategoryTransfer, description, map[string]interface{}{
			"counterpart_reference": debit.ReferenceID,
		})
		if err != nil {
			return err
		}
		result.Debit = debit
		result.Credit = credit
		return nil
	})
	if err != nil {
		s.metrics.RecordError("transfer", err.Error())
		return nil, err
	}

	s.invalidate(ctx, userID, fromType)
	s.invalidate(ctx, userID, toType)
	s.metrics.RecordTransaction(models.CategoryTransfer, amount)
	return result, nil
}

func (s *service) CreditInTx(repo repositories.WalletRepository, userID uint, walletType string, amount float64, category, description string, metadata map[string]interface{}) (*models.WalletTransaction, error) {
	return s.applyEntry(repo, userID, walletType, amount, models.WalletTxCredit, category, description, metadata)
}

func (s *service) DebitInTx(repo repositories.WalletRepository, userID uint, walletType string, amount float64, category, description string, metadata map[string]interface{}) (*models.WalletTransaction, error) {
	return s.applyEntry(repo, userID, walletType, amount, models.WalletTxDebit, category, description, metadata)
}

// applyEntry is the single balance-mutation path: lock the wallet row,
// move the balance, append the ledger entry with before/after snapshots.
func (s *service) applyEntry(repo repositories.WalletRepository, userID uint, walletType string, amount float64, entryType, category, description string, metadata map[string]interface{}) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	amount = round2(amount)

	w, err := s.walletForUpdate(repo, userID, walletType)
	if err != nil {
		return nil, err
	}
	if !w.IsActive {
		return nil, ErrWalletInactive
	}

	before := w.Balance
	var after float64
	if models.IsCreditType(entryType) {
		after = round2(before + amount)
	} else {
		if w.AvailableBalance() < amount {
			return nil, ErrInsufficientBalance
		}
		after = round2(before - amount)
	}

	w.Balance = after
	if err := repo.Save(w); err != nil {
		return nil, err
	}

	txn := &models.WalletTransaction{
		WalletID:      w.ID,
		UserID:        userID,
		Type:          entryType,
		Category:      category,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		ReferenceID:   utils.NewReferenceID("WTX"),
		Description:   description,
		Metadata:      datatypes.JSONMap(metadata),
		Status:        models.TxStatusCompleted,
	}
	if err := repo.CreateTransaction(txn); err != nil {
		return nil, err
	}

	s.metrics.RecordBalanceChange(userID, before, after)
	return txn, nil
}

// walletForUpdate locks the wallet row, provisioning the user's default
// wallets on first touch.
func (s *service) walletForUpdate(repo repositories.WalletRepository, userID uint, walletType string) (*models.Wallet, error) {
	if !validWalletType(walletType) {
		return nil, ErrInvalidWalletType
	}

	w, err := repo.GetByUserAndTypeForUpdate(userID, walletType)
	if err == nil {
		return w, nil
	}
	if err != repositories.ErrWalletNotFound {
		return nil, err
	}

	if err := provisionWallets(repo, userID); err != nil {
		return nil, err
	}
	return repo.GetByUserAndTypeForUpdate(userID, walletType)
}

// provisionWallets creates any missing wallet rows for the user with the
// per-type default settings.
func provisionWallets(repo repositories.WalletRepository, userID uint) error {
	existing, err := repo.GetByUser(userID)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, w := range existing {
		have[w.Type] = true
	}

	for _, t := range models.WalletTypes {
		if have[t] {
			continue
		}
		w := &models.Wallet{
			UserID:   userID,
			Type:     t,
			IsActive: true,
			Settings: datatypes.NewJSONType(DefaultSettings(t)),
		}
		if err := repo.Create(w); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) GetWallet(ctx context.Context, userID uint, walletType string) (*models.Wallet, error) {
	if !validWalletType(walletType) {
		return nil, ErrInvalidWalletType
	}

	if s.cache != nil {
		if w, err := s.cache.GetWallet(ctx, userID, walletType); err == nil {
			return w, nil
		}
	}

	w, err := s.repo.GetByUserAndType(userID, walletType)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetWallet(ctx, w)
	}
	return w, nil
}

func (s *service) GetUserWalletBalances(ctx context.Context, userID uint) ([]WalletBalance, error) {
	wallets, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	balances := make([]WalletBalance, 0, len(wallets))
	for _, w := range wallets {
		settings := w.Settings.Data()
		balances = append(balances, WalletBalance{
			Type:              w.Type,
			Balance:           w.Balance,
			PendingBalance:    w.PendingBalance,
			WithdrawnBalance:  w.WithdrawnBalance,
			AvailableBalance:  w.AvailableBalance(),
			TotalBalance:      w.TotalBalance(),
			IsActive:          w.IsActive,
			WithdrawalEnabled: settings.WithdrawalEnabled,
		})
	}
	return balances, nil
}

func (s *service) GetTransactionHistory(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	if limit <= 0 {
		limit = 15
	}
	return s.repo.GetTransactionsByUser(userID, limit, offset)
}

func (s *service) GetWithdrawals(ctx context.Context, userID uint, limit, offset int) ([]models.Withdrawal, int64, error) {
	if limit <= 0 {
		limit = 15
	}
	return s.repo.GetWithdrawalsByUser(userID, limit, offset)
}

func (s *service) UpdateTransactionStatus(ctx context.Context, transactionID uint, status string) (*models.WalletTransaction, error) {
	switch status {
	case models.TxStatusPending, models.TxStatusCompleted, models.TxStatusFailed, models.TxStatusCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	txn, err := s.repo.GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}
	txn.Status = status
	if err := s.repo.SaveTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Invalidate drops the cached wallet row. Composers that mutate balances
// through the InTx variants call this after their transaction commits.
func (s *service) Invalidate(ctx context.Context, userID uint, walletType string) {
	s.invalidate(ctx, userID, walletType)
}

func (s *service) invalidate(ctx context.Context, userID uint, walletType string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateWallet(ctx, userID, walletType)
}
