// Package service is the wallet facade: it admits new transfers against the
// effective balance, exposes the derived balances, relays connectivity
// changes into processor wakeups, and persists wallet snapshots.
package service
