package autopool

import (
	"time"

	"github.com/srigunasankarkatta/mlm-backend/internal/models"
)

// Completion result codes.
const (
	ResultAwarded          = "awarded"
	ResultAlreadyCompleted = "already_completed"
	ResultIneligible       = "ineligible"
	ResultNotCompleted     = "not_completed"
	ResultFailed           = "failed"
)

// CompletionResult reports the outcome for one level during a scan.
type CompletionResult struct {
	Level        int     `json:"level"`
	Result       string  `json:"result"`
	GroupSize    int     `json:"group_size"`
	BonusAmount  float64 `json:"bonus_amount,omitempty"`
	CompletionID uint    `json:"completion_id,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

// NextTarget describes the first uncompleted level and the user's progress
// toward it.
type NextTarget struct {
	Level       models.AutoPoolLevel `json:"level"`
	GroupSize   int                  `json:"group_size"`
	Remaining   int                  `json:"remaining"`
	ProgressPct float64              `json:"progress_pct"`
}

// UserStatus is a per-user auto-pool report.
type UserStatus struct {
	UserID         uint                     `json:"user_id"`
	CurrentLevel   int                      `json:"current_level"`
	CompletionCnt  int                      `json:"completion_count"`
	TotalEarnings  float64                  `json:"total_earnings"`
	LastCompletion *time.Time               `json:"last_completion,omitempty"`
	Completions    []models.GroupCompletion `json:"completions"`
	NextTarget     *NextTarget              `json:"next_target,omitempty"`
}

// PoolStats is a global snapshot for admin reporting.
type PoolStats struct {
	TotalCompletions int64   `json:"total_completions"`
	TotalPaid        float64 `json:"total_paid"`
	TotalPending     float64 `json:"total_pending"`
}
