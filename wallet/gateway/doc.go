// Package gateway defines the remote ledger client boundary.
//
// The wallet core consumes a Client; it never implements the remote ledger
// itself. Submission failures are surfaced as typed sentinel errors so callers
// can classify them without runtime type inspection. The memory subpackage
// provides a simulated remote ledger for tests and local runs.
package gateway
