// Package ledger holds the last confirmed remote balance and derives the
// effective (spendable) balance.
//
// The confirmed balance mutates only on the initial load from the remote
// ledger and on a confirmed deduction after a transfer completes. The
// effective balance is a pure derived value, never stored.
package ledger
