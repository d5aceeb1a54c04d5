// Package income pays direct, level and club commissions up the sponsor
// chain when a package is purchased. Distribution always runs inside the
// caller's transaction so a failed payment unwinds the whole purchase.
//
// Every payment is written twice: once to the simple income log and once to
// the recipient's earning wallet through the ledger.
package income
