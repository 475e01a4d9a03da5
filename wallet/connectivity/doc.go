// Package connectivity derives effective network availability from transport
// reachability and an operator-controlled offline simulation override.
//
// Availability is true only when the transport is connected, the internet is
// reachable, and the override is not forcing offline. Subscribers are notified
// on every effective transition; the queue processor uses the offline→online
// edge as its wake signal.
package connectivity
