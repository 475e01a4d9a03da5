// Package memory provides a simulated remote ledger for tests and local runs.
//
// The simulator honors idempotency keys (a replayed key settles without a
// second deduction) and supports fault injection: a blocked-network switch and
// a configurable server error rate.
package memory
