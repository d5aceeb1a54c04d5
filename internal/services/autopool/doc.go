// Package autopool turns network detections into one-time group bonuses.
//
// Each award is one atomic unit: the GroupCompletion row, its AutoPoolBonus,
// the income log, the earning-wallet credit and the user's progress stats all
// commit together or not at all. The (user, level) unique constraint at the
// storage layer makes the award idempotent under concurrent triggers; losing
// that race is reported as an already-completed result, never an error.
package autopool
