// Package store persists wallet state snapshots across restarts.
//
// State is an opaque key-value blob: confirmed balance, transfer records, and
// the offline simulation flag. Absent state loads as defaults; there is no
// migration logic.
package store
