package simulate

import (
	"testing"

	"evchargesim/internal/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S6 — force_close picks the pair minimising (|leak|, cycle length)
// lexicographically.
func TestForceCloseMinimisesLeakThenLength(t *testing.T) {
	r := NewAgentSimulationRecord("p1", 0.1*3600)
	for _, state := range []float64{10 * 3600, 4 * 3600, 8 * 3600, 5 * 3600} {
		r.NewDay(state)
	}

	r.ForceClose()

	assert.Equal(t, 1, r.sliceStart)
	require.NotNil(t, r.sliceEnd)
	assert.Equal(t, 3, *r.sliceEnd)
	require.NotNil(t, r.Error)
	assert.InDelta(t, 1*3600, *r.Error, 1e-9)
}

func TestTryToCloseReturnsFirstWithinPrecision(t *testing.T) {
	r := NewAgentSimulationRecord("p1", 0.5)
	r.NewDay(10)
	r.NewDay(4)

	assert.False(t, r.TryToClose(10.6))
	assert.True(t, r.TryToClose(10.2))
	assert.Equal(t, 0, r.sliceStart)
	require.NotNil(t, r.Error)
	assert.InDelta(t, 0.2, *r.Error, 1e-9)
}

// Finalise divides each event's charge by the slice length and shifts its
// day to be relative to the slice's start, then applies scale.
func TestFinaliseNormalisesMultiDaySlice(t *testing.T) {
	node := network.Node{}
	r := NewAgentSimulationRecord("p1", 0.5)
	r.Days = []Day{
		NewDay(),
		{Events: []Event{NewEnRouteEvent("p1", "", 4, 2, 0, 1, "a", node)}},
		{Events: []Event{NewEnRouteEvent("p1", "", 6, 3, 0, 1, "a", node)}},
	}
	r.history = []float64{0, 1, 2}
	r.sliceStart = 1
	end := 3
	r.sliceEnd = &end

	r.Finalise(2.0)

	events := r.allEvents()
	require.Len(t, events, 2)
	assert.InDelta(t, 4.0, events[0].Charge, 1e-9)
	assert.Equal(t, 1, events[0].Day)
	assert.InDelta(t, 6.0, events[1].Charge, 1e-9)
	assert.Equal(t, 2, events[1].Day)
}
