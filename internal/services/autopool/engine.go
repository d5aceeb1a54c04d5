package autopool

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
	"github.com/srigunasankarkatta/mlm-backend/internal/repositories"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/network"
	"github.com/srigunasankarkatta/mlm-backend/internal/services/wallet"

	"gorm.io/datatypes"
)

// Engine detects and awards group completions.
type Engine interface {
	// ProcessCompletions scans one user. Awards are independently atomic;
	// a failed level surfaces in its result and does not stop the scan.
	ProcessCompletions(ctx context.Context, userID uint) ([]CompletionResult, error)
	// ProcessAll rescans every package-holding user.
	ProcessAll(ctx context.Context) (map[uint][]CompletionResult, error)
	GetStatus(userID uint) (*UserStatus, error)
	Stats() (*PoolStats, error)
}

type engine struct {
	manager  repositories.Manager
	analyzer network.Analyzer
	wallets  wallet.Service
}

func NewEngine(manager repositories.Manager, analyzer network.Analyzer, wallets wallet.Service) Engine {
	if manager == nil || analyzer == nil || wallets == nil {
		panic("auto pool engine requires a repository manager, analyzer and wallet service")
	}
	return &engine{manager: manager, analyzer: analyzer, wallets: wallets}
}

func (e *engine) ProcessCompletions(ctx context.Context, userID uint) ([]CompletionResult, error) {
	repos := e.manager.Repos()

	user, err := repos.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	detections, err := e.analyzer.DetectGroupCompletions(userID)
	if err != nil {
		return nil, err
	}

	results := make([]CompletionResult, 0, len(detections))
	for _, d := range detections {
		results = append(results, e.processLevel(ctx, user, d))
	}
	return results, nil
}

func (e *engine) processLevel(ctx context.Context, user *models.User, d network.LevelDetection) CompletionResult {
	lvl := d.Level
	result := CompletionResult{Level: lvl.Level, GroupSize: d.GroupSize}

	if !d.Completed {
		result.Result = ResultNotCompleted
		return result
	}

	if _, err := e.manager.Repos().AutoPool.GetCompletion(user.ID, lvl.Level); err == nil {
		result.Result = ResultAlreadyCompleted
		return result
	} else if !errors.Is(err, repositories.ErrCompletionNotFound) {
		result.Result = ResultFailed
		result.Reason = err.Error()
		return result
	}

	if user.PackageLevel() < lvl.RequiredPackageTier {
		result.Result = ResultIneligible
		result.Reason = fmt.Sprintf("requires package tier %d", lvl.RequiredPackageTier)
		return result
	}
	if d.DirectsCount < lvl.RequiredDirects {
		result.Result = ResultIneligible
		result.Reason = fmt.Sprintf("requires %d directs", lvl.RequiredDirects)
		return result
	}

	completionID, err := e.award(ctx, user.ID, d)
	if err != nil {
		// Losing the unique-constraint race means another trigger already
		// awarded this level.
		if errors.Is(err, repositories.ErrDuplicateCompletion) {
			result.Result = ResultAlreadyCompleted
			return result
		}
		result.Result = ResultFailed
		result.Reason = err.Error()
		return result
	}

	result.Result = ResultAwarded
	result.BonusAmount = lvl.BonusAmount
	result.CompletionID = completionID
	return result
}

// award commits one completion: proof row, bonus row, income log, wallet
// credit and user progress stats in a single transaction.
func (e *engine) award(ctx context.Context, userID uint, d network.LevelDetection) (uint, error) {
	lvl := d.Level
	var completionID uint

	err := e.manager.ExecuteInTransaction(func(r repositories.Repositories) error {
		now := time.Now()
		gc := &models.GroupCompletion{
			UserID:           userID,
			AutoPoolLevel:    lvl.Level,
			GroupSize:        d.GroupSize,
			DirectsCount:     d.DirectsCount,
			TotalNetworkSize: d.NetworkSize,
			BonusAmount:      lvl.BonusAmount,
			CompletedAt:      now,
			CompletionDetails: datatypes.JSONMap{
				"level_name":          lvl.Name,
				"required_group_size": lvl.RequiredGroupSize,
			},
		}
		if err := r.AutoPool.CreateCompletion(gc); err != nil {
			return err
		}

		bonus := &models.AutoPoolBonus{
			UserID:            userID,
			GroupCompletionID: gc.ID,
			AutoPoolLevel:     lvl.Level,
			Amount:            lvl.BonusAmount,
			Status:            models.BonusPending,
		}
		if err := r.AutoPool.CreateBonus(bonus); err != nil {
			return err
		}

		if err := r.Incomes.Create(&models.Income{
			UserID: userID,
			Type:   models.IncomeAutoPool,
			Amount: lvl.BonusAmount,
			Remark: fmt.Sprintf("%s group completion bonus", lvl.Name),
		}); err != nil {
			return err
		}

		txn, err := e.wallets.CreditInTx(r.Wallets, userID, models.WalletTypeEarning, lvl.BonusAmount, models.CategoryAutoPool,
			fmt.Sprintf("%s group completion bonus", lvl.Name),
			map[string]interface{}{"auto_pool_level": lvl.Level, "group_completion_id": gc.ID})
		if err != nil {
			return err
		}

		gc.BonusPaid = true
		if err := r.AutoPool.SaveCompletion(gc); err != nil {
			return err
		}
		bonus.Status = models.BonusPaid
		bonus.PaidAt = &now
		bonus.PaymentReference = txn.ReferenceID
		if err := r.AutoPool.SaveBonus(bonus); err != nil {
			return err
		}

		user, err := r.Users.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		if lvl.Level > user.AutoPoolLevel {
			user.AutoPoolLevel = lvl.Level
		}
		user.GroupCompletionCount++
		user.TotalAutoPoolEarnings += lvl.BonusAmount
		user.LastGroupCompletionAt = &now
		if err := r.Users.Save(user); err != nil {
			return err
		}

		completionID = gc.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	// The bonus landed via the tx-scoped credit, which leaves the cached
	// earning wallet stale.
	e.wallets.Invalidate(ctx, userID, models.WalletTypeEarning)
	return completionID, nil
}

func (e *engine) ProcessAll(ctx context.Context) (map[uint][]CompletionResult, error) {
	ids, err := e.manager.Repos().Users.PackageHolderIDs()
	if err != nil {
		return nil, err
	}

	all := make(map[uint][]CompletionResult, len(ids))
	for _, id := range ids {
		results, err := e.ProcessCompletions(ctx, id)
		if err != nil {
			log.Printf("auto pool rescan skipped user %d: %v", id, err)
			continue
		}
		all[id] = results
	}
	return all, nil
}

func (e *engine) GetStatus(userID uint) (*UserStatus, error) {
	repos := e.manager.Repos()

	user, err := repos.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	completions, err := repos.AutoPool.CompletionsByUser(userID)
	if err != nil {
		return nil, err
	}

	status := &UserStatus{
		UserID:         userID,
		CurrentLevel:   user.AutoPoolLevel,
		CompletionCnt:  user.GroupCompletionCount,
		TotalEarnings:  user.TotalAutoPoolEarnings,
		LastCompletion: user.LastGroupCompletionAt,
		Completions:    completions,
	}

	done := make(map[int]bool, len(completions))
	for _, gc := range completions {
		done[gc.AutoPoolLevel] = true
	}

	detections, err := e.analyzer.DetectGroupCompletions(userID)
	if err != nil {
		return nil, err
	}
	for _, d := range detections {
		if done[d.Level.Level] {
			continue
		}
		target := &NextTarget{
			Level:     d.Level,
			GroupSize: d.GroupSize,
			Remaining: d.Level.RequiredGroupSize - d.GroupSize,
		}
		if target.Remaining < 0 {
			target.Remaining = 0
		}
		if d.Level.RequiredGroupSize > 0 {
			target.ProgressPct = float64(d.GroupSize) / float64(d.Level.RequiredGroupSize) * 100
		}
		status.NextTarget = target
		break
	}
	return status, nil
}

func (e *engine) Stats() (*PoolStats, error) {
	repos := e.manager.Repos()

	count, err := repos.AutoPool.CompletionsCount()
	if err != nil {
		return nil, err
	}
	paid, err := repos.AutoPool.BonusTotalByStatus(models.BonusPaid)
	if err != nil {
		return nil, err
	}
	pending, err := repos.AutoPool.BonusTotalByStatus(models.BonusPending)
	if err != nil {
		return nil, err
	}

	return &PoolStats{
		TotalCompletions: count,
		TotalPaid:        paid,
		TotalPending:     pending,
	}, nil
}
