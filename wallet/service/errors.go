package service

import "errors"

var (
	// ErrRegistryRequired is returned when no transaction registry is provided.
	ErrRegistryRequired = errors.New("transaction registry is required")

	// ErrLedgerRequired is returned when no balance ledger is provided.
	ErrLedgerRequired = errors.New("balance ledger is required")

	// ErrMonitorRequired is returned when no connectivity monitor is provided.
	ErrMonitorRequired = errors.New("connectivity monitor is required")

	// ErrInsufficientEffectiveBalance is returned when a transfer amount
	// exceeds the spendable balance net of pending transfers.
	ErrInsufficientEffectiveBalance = errors.New("amount exceeds effective balance")
)
