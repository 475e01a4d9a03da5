package processor

import "errors"

var (
	ErrRegistryRequired = errors.New("transaction registry is required")
	ErrLedgerRequired   = errors.New("balance ledger is required")
	ErrClientRequired   = errors.New("gateway client is required")
	ErrMonitorRequired  = errors.New("connectivity monitor is required")
	ErrDrainInProgress  = errors.New("drain is already in progress")
)
