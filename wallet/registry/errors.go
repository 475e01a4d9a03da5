package registry

import "errors"

var (
	ErrTransactionRequired     = errors.New("transaction is required")
	ErrTransactionNotFound     = errors.New("transaction not found")
	ErrAmountNotPositive       = errors.New("transaction amount must be positive")
	ErrRecipientRequired       = errors.New("transaction recipient is required")
	ErrStatusInvalid           = errors.New("invalid transaction status")
	ErrStatusTransitionInvalid = errors.New("invalid transaction status transition")
)
