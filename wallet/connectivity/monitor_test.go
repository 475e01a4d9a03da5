//go:build unit

package connectivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorStartsAvailable(t *testing.T) {
	monitor := NewMonitor()

	assert.True(t, monitor.Available())
	assert.False(t, monitor.SimulatedOffline())
}

func TestAvailabilityRequiresAllInputs(t *testing.T) {
	monitor := NewMonitor()

	monitor.SetTransport(false, true)
	assert.False(t, monitor.Available())

	monitor.SetTransport(true, false)
	assert.False(t, monitor.Available())

	monitor.SetTransport(true, true)
	assert.True(t, monitor.Available())

	monitor.SetSimulatedOffline(true)
	assert.False(t, monitor.Available(), "override forces offline even with healthy transport")

	monitor.SetSimulatedOffline(false)
	assert.True(t, monitor.Available())
}

func TestSubscribersNotifiedOnTransitionsOnly(t *testing.T) {
	monitor := NewMonitor()

	var transitions []bool

	monitor.Subscribe(func(available bool) {
		transitions = append(transitions, available)
	})

	monitor.SetTransport(true, true) // no change, no notification
	monitor.SetTransport(false, false)
	monitor.SetTransport(false, true) // still offline, no notification
	monitor.SetTransport(true, true)
	monitor.SetSimulatedOffline(true)
	monitor.SetSimulatedOffline(true) // no change, no notification
	monitor.SetSimulatedOffline(false)

	require.Equal(t, []bool{false, true, false, true}, transitions)
}

func TestSubscribeNil(t *testing.T) {
	monitor := NewMonitor()

	monitor.Subscribe(nil)
	monitor.SetTransport(false, false)

	assert.False(t, monitor.Available())
}
