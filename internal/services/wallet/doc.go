/*
Package wallet implements the wallet ledger: per-user, per-type balances
with an append-only transaction history and the withdrawal lifecycle.

Every public operation runs in one database transaction. Balance mutations
lock the wallet row first, so concurrent debits can never both pass the
sufficiency check against a stale balance. Each mutation writes a ledger
entry carrying before/after balance snapshots; summing credits minus debits
over a wallet's entries always reconciles to its current balance.

Withdrawals take their hold eagerly: the requested amount moves from
balance into pending_balance at request time. Rejecting or cancelling
returns the hold, completing moves it into withdrawn_balance. A withdrawal
that reached a terminal state can never be processed again.

The ...InTx variants operate on a caller-supplied transaction-scoped
repository so higher-level flows (income distribution, auto-pool payouts)
can compose ledger writes into their own unit of work.
*/
package wallet
