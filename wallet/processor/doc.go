// Package processor drains the transfer registry against the remote ledger.
//
// One drain submits pending transfers in creation order, retries transient
// failures with capped exponential backoff, permanently fails non-retryable
// ones, and applies confirmed deductions on success. A single-flight guard
// ensures at most one drain runs at a time; overlapping triggers collapse
// into wake signals for the worker loop.
package processor
