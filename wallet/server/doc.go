// Package server exposes the wallet over HTTP: transfer submission, balance
// and transaction queries, and connectivity controls.
package server
