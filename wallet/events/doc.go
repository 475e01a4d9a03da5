// Package events publishes transfer lifecycle events to a message broker.
//
// The queue processor emits an event when a transfer reaches a terminal state.
// Publish failures are logged by the caller and never abort queue processing.
package events
