package simulate

import (
	"testing"

	"evchargesim/internal/config"
	"evchargesim/internal/network"
	"evchargesim/internal/population"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitAgentConfig(capacityKWh, triggerFrac, enRouteRate float64) config.AgentConfig {
	battery := config.BatterySpec{Capacity: capacityKWh, Initial: capacityKWh, ConsumptionRate: 1.0 / 3.6}
	trigger := config.TriggerSpec{Trigger: triggerFrac}
	enRoute := config.EnRouteSpec{ChargeRate: enRouteRate}
	return config.AgentConfig{PID: "p1", Battery: &battery, Trigger: &trigger, EnRoute: &enRoute}
}

func testConfig(precision float64) *config.Config {
	cfg := config.Default()
	cfg.Precision = precision
	cfg.Patience = 10
	return &cfg
}

// S1 — single link, no charging activity: the whole deficit is covered
// en-route.
func TestSimulateS1SingleLinkNoActivity(t *testing.T) {
	trace := population.Trace{Plan: []population.Component{
		population.NewLinkComponent(population.Link{StartTime: 1, EndTime: 2, LinkID: "a", Distance: 1}),
	}}
	agentConfig := unitAgentConfig(1.0/3600.0, 0, 1)
	planner := config.NewActivityChargingPlanner(nil)

	record := Simulate("p1", trace, map[int]struct{}{}, agentConfig, planner, testConfig(1.0))

	events := record.allEvents()
	require.Len(t, events, 1)
	assert.Equal(t, ChargeTypeEnRoute, events[0].ChargeType)
	assert.InDelta(t, 1.0, events[0].Charge, 1e-9)
	assert.Equal(t, 1, events[0].StartTime)
	assert.Equal(t, 2, events[0].EndTime)
	assert.Equal(t, "a", events[0].LinkID)
}

// S2 — an activity charges to full once the deficit is smaller than the
// duration would otherwise supply.
func TestSimulateS2FullChargeAtActivity(t *testing.T) {
	trace := population.Trace{Plan: []population.Component{
		population.NewLinkComponent(population.Link{StartTime: 1, EndTime: 2, LinkID: "a", Distance: 1}),
		population.NewActivityComponent(population.Activity{StartTime: 2, EndTime: 3, Act: "work"}),
		population.NewLinkComponent(population.Link{StartTime: 3, EndTime: 4, LinkID: "b", Distance: 1}),
		population.NewActivityComponent(population.Activity{StartTime: 4, EndTime: 10, Act: "home"}),
	}}
	agentConfig := unitAgentConfig(3.0/3600.0, 0, 1)
	planner := config.NewActivityChargingPlanner([]config.ActivitySpec{
		{Activities: []string{"home"}, ChargeRate: 1},
	})
	charge := map[int]struct{}{3: {}}

	record := Simulate("p1", trace, charge, agentConfig, planner, testConfig(1.0))

	events := record.allEvents()
	require.Len(t, events, 1)
	assert.Equal(t, ChargeTypeActivity, events[0].ChargeType)
	assert.InDelta(t, 2.0, events[0].Charge, 1e-9)
	assert.Equal(t, 4, events[0].StartTime)
	assert.Equal(t, 6, events[0].EndTime)
	assert.Equal(t, "home", events[0].Activity)
}

// S3 — look-ahead sizes the en-route charge to exactly cover the
// consumption remaining before the next charge-enabled activity.
func TestSimulateS3LookAheadAcrossLinks(t *testing.T) {
	trace := population.Trace{Plan: []population.Component{
		population.NewLinkComponent(population.Link{StartTime: 1, EndTime: 2, LinkID: "a", Distance: 1}),
		population.NewLinkComponent(population.Link{StartTime: 2, EndTime: 3, LinkID: "b", Distance: 1}),
		population.NewLinkComponent(population.Link{StartTime: 3, EndTime: 4, LinkID: "c", Distance: 1}),
		population.NewActivityComponent(population.Activity{StartTime: 4, EndTime: 5, Act: "home"}),
	}}
	agentConfig := unitAgentConfig(2.0/3600.0, 0, 1)
	planner := config.NewActivityChargingPlanner([]config.ActivitySpec{
		{Activities: []string{"home"}, ChargeRate: 1},
	})
	charge := map[int]struct{}{3: {}}

	record := Simulate("p1", trace, charge, agentConfig, planner, testConfig(1.0))

	events := record.allEvents()
	require.Len(t, events, 2)

	assert.Equal(t, ChargeTypeEnRoute, events[0].ChargeType)
	assert.InDelta(t, 2.0, events[0].Charge, 1e-9)
	assert.Equal(t, 2, events[0].StartTime)
	assert.Equal(t, 4, events[0].EndTime)
	assert.Equal(t, "b", events[0].LinkID)

	assert.Equal(t, ChargeTypeActivity, events[1].ChargeType)
	assert.InDelta(t, 1.0, events[1].Charge, 1e-9)
	assert.Equal(t, 4, events[1].StartTime)
	assert.Equal(t, 5, events[1].EndTime)
}

func TestBatteryStateNeverExceedsCapacity(t *testing.T) {
	b := NewBatteryState(config.BatterySpec{Capacity: 1, Initial: 1, ConsumptionRate: 1}, config.TriggerSpec{Trigger: 0.5})
	b.ApplyDistance(1000)
	_, _ = b.ChargeToFull(1)
	assert.LessOrEqual(t, b.State, b.Capacity)
	_, _ = b.ChargeForDuration(100000, 1)
	assert.LessOrEqual(t, b.State, b.Capacity)
	_, _ = b.ChargeToDesired(100000, 1)
	assert.LessOrEqual(t, b.State, b.Capacity)
}

func TestNetworkNodeCarriedIntoEvent(t *testing.T) {
	node := network.Node{X: 1, Y: 2}
	trace := population.Trace{Plan: []population.Component{
		population.NewLinkComponent(population.Link{StartTime: 1, EndTime: 2, LinkID: "a", Distance: 1, Node: node}),
	}}
	agentConfig := unitAgentConfig(1.0/3600.0, 0, 1)
	planner := config.NewActivityChargingPlanner(nil)

	record := Simulate("p1", trace, map[int]struct{}{}, agentConfig, planner, testConfig(1.0))
	events := record.allEvents()
	require.Len(t, events, 1)
	assert.Equal(t, node, events[0].Node)
}
