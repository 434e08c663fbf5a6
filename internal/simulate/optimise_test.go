package simulate

import (
	"testing"

	"evchargesim/internal/config"
	"evchargesim/internal/population"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S4 — when both home and work can absorb all charging, the optimiser
// prefers the later (home) activity because subsets are tried over the
// reversed viable-index list.
func TestOptimiseS4PrefersLaterActivity(t *testing.T) {
	trace := population.Trace{Plan: []population.Component{
		population.NewLinkComponent(population.Link{StartTime: 1, EndTime: 2, LinkID: "a", Distance: 1}),
		population.NewActivityComponent(population.Activity{StartTime: 2, EndTime: 4, Act: "work"}),
		population.NewLinkComponent(population.Link{StartTime: 4, EndTime: 5, LinkID: "b", Distance: 1}),
		population.NewActivityComponent(population.Activity{StartTime: 5, EndTime: 7, Act: "home"}),
	}}
	agentConfig := unitAgentConfig(3.0/3600.0, 0, 1)
	agentConfig.Activities = []config.ActivitySpec{
		{Activities: []string{"home", "work"}, ChargeRate: 1},
	}

	record := Optimise("p1", trace, agentConfig, testConfig(1.0))

	events := record.allEvents()
	require.Len(t, events, 1)
	assert.Equal(t, ChargeTypeActivity, events[0].ChargeType)
	assert.Equal(t, "home", events[0].Activity)
	assert.InDelta(t, 2.0, events[0].Charge, 1e-9)
}

func TestCombinationsLexicographicOverPositions(t *testing.T) {
	got := combinations([]int{3, 1}, 1)
	require.Len(t, got, 2)
	assert.Equal(t, []int{3}, got[0])
	assert.Equal(t, []int{1}, got[1])

	pairs := combinations([]int{3, 2, 1}, 2)
	require.Len(t, pairs, 3)
	assert.Equal(t, []int{3, 2}, pairs[0])
	assert.Equal(t, []int{3, 1}, pairs[1])
	assert.Equal(t, []int{2, 1}, pairs[2])
}

func TestOptimiseNoViableActivitiesSimulatesOnce(t *testing.T) {
	trace := population.Trace{Plan: []population.Component{
		population.NewLinkComponent(population.Link{StartTime: 1, EndTime: 2, LinkID: "a", Distance: 1}),
	}}
	agentConfig := unitAgentConfig(1.0/3600.0, 0, 1)

	record := Optimise("p1", trace, agentConfig, testConfig(1.0))

	events := record.allEvents()
	require.Len(t, events, 1)
	assert.Equal(t, ChargeTypeEnRoute, events[0].ChargeType)
}
