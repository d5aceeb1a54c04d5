package wallet

import "errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrWalletInactive      = errors.New("wallet is inactive")
	ErrSameWallet          = errors.New("cannot transfer to the same wallet type")
	ErrInvalidWalletType   = errors.New("invalid wallet type")
	ErrUnknownMethod       = errors.New("unknown withdrawal method")

	// ErrWithdrawalRejected wraps the specific policy violation
	// (disabled, min/max, daily/monthly limit, insufficient balance).
	ErrWithdrawalRejected = errors.New("withdrawal rejected")

	// ErrWithdrawalFinal is returned when processing a withdrawal that
	// already reached a terminal state. Guards against double refunds and
	// double finalization.
	ErrWithdrawalFinal = errors.New("withdrawal already finalized")

	// ErrInvalidTransition is returned for a status change the state
	// machine does not allow.
	ErrInvalidTransition = errors.New("invalid withdrawal status transition")

	ErrInvalidStatus = errors.New("invalid transaction status")
)
