package connectivity

import "sync"

// Subscriber receives the new effective availability on each transition.
type Subscriber func(available bool)

// Monitor combines the transport signal with the simulation override.
type Monitor struct {
	mu                 sync.Mutex
	transportConnected bool
	internetReachable  bool
	simulatedOffline   bool
	subscribers        []Subscriber
}

// NewMonitor creates a monitor that starts online with no override.
func NewMonitor() *Monitor {
	return &Monitor{
		transportConnected: true,
		internetReachable:  true,
	}
}

// Available reports the current effective availability.
func (monitor *Monitor) Available() bool {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()

	return monitor.effectiveLocked()
}

func (monitor *Monitor) effectiveLocked() bool {
	return monitor.transportConnected && monitor.internetReachable && !monitor.simulatedOffline
}

// SetTransport updates both transport inputs, pushed on change by the
// platform connectivity source.
func (monitor *Monitor) SetTransport(connected, internetReachable bool) {
	monitor.update(func() {
		monitor.transportConnected = connected
		monitor.internetReachable = internetReachable
	})
}

// SetSimulatedOffline toggles the manual offline override.
func (monitor *Monitor) SetSimulatedOffline(offline bool) {
	monitor.update(func() {
		monitor.simulatedOffline = offline
	})
}

// SimulatedOffline reports the current override state.
func (monitor *Monitor) SimulatedOffline() bool {
	monitor.mu.Lock()
	defer monitor.mu.Unlock()

	return monitor.simulatedOffline
}

// Subscribe registers a callback invoked on every effective transition.
// Callbacks run outside the monitor lock, in registration order.
func (monitor *Monitor) Subscribe(subscriber Subscriber) {
	if subscriber == nil {
		return
	}

	monitor.mu.Lock()
	defer monitor.mu.Unlock()

	monitor.subscribers = append(monitor.subscribers, subscriber)
}

func (monitor *Monitor) update(apply func()) {
	monitor.mu.Lock()

	before := monitor.effectiveLocked()
	apply()
	after := monitor.effectiveLocked()

	var notify []Subscriber
	if before != after {
		notify = append(notify, monitor.subscribers...)
	}

	monitor.mu.Unlock()

	for _, subscriber := range notify {
		subscriber(after)
	}
}
