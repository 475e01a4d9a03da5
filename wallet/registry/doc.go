// Package registry holds the ordered collection of transfer records and their
// lifecycle state.
//
// The registry is the single source of truth for what is in flight. Records
// are owned exclusively by the registry; collaborators request mutations
// through its operations and never mutate records directly.
package registry
