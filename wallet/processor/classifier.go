package processor

import (
	"errors"

	"github.com/LerianStudio/lib-wallet/wallet/gateway"
)

// RetryClassifier determines whether a submission error should not be retried.
//
// Anything not classified as non-retryable is treated as transient, so unknown
// errors retry and eventually fail instead of being dropped.
type RetryClassifier interface {
	IsNonRetryable(err error) bool
}

// RetryClassifierFunc adapts a function to the RetryClassifier interface.
type RetryClassifierFunc func(err error) bool

func (fn RetryClassifierFunc) IsNonRetryable(err error) bool {
	if fn == nil {
		return false
	}

	return fn(err)
}

// DefaultClassifier marks only insufficient remote funds as non-retryable.
func DefaultClassifier() RetryClassifier {
	return RetryClassifierFunc(func(err error) bool {
		return errors.Is(err, gateway.ErrInsufficientFunds)
	})
}
