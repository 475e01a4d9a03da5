// Package log defines the wallet logging interface and typed logging fields.
//
// Adapters (such as the zap-backed logger returned by NewZap) implement Logger
// so callers can keep logging calls consistent across backends.
package log
