package tracer

import (
	"testing"

	"evchargesim/internal/network"
	"evchargesim/internal/population"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNetwork() *network.Network {
	return &network.Network{Links: map[string]network.Link{
		"home-link": {Length: 10, Node: network.Node{X: 0, Y: 0}},
		"a":         {Length: 4, Node: network.Node{X: 1, Y: 1}},
		"b":         {Length: 4, Node: network.Node{X: 2, Y: 2}},
	}}
}

func TestHandlerBuildsAndWrapsPlan(t *testing.T) {
	pop := population.New()
	pop.Insert("p1", &population.Person{Attributes: population.Attributes{}})

	h := NewHandler()
	h.AddNetwork(testNetwork())

	events := []Event{
		{Kind: EventActEnd, Time: 1, Person: "p1", Act: "home", Link: "home-link"},
		{Kind: EventEnteredLink, Time: 1, Vehicle: "p1", Link: "a"},
		{Kind: EventLeftLink, Time: 2, Vehicle: "p1", Link: "a"},
		{Kind: EventEnteredLink, Time: 2, Vehicle: "p1", Link: "b"},
		{Kind: EventLeftLink, Time: 3, Vehicle: "p1", Link: "b"},
		{Kind: EventActStart, Time: 3, Person: "p1", Act: "home", Link: "home-link"},
		{Kind: EventActEnd, Time: 86401, Person: "p1", Act: "home", Link: "home-link"},
	}
	for _, ev := range events {
		require.NoError(t, h.process(ev, pop))
	}
	h.finalise(pop)
	h.clean(pop)
	h.wrap(pop)

	person, ok := pop.Get("p1")
	require.True(t, ok)
	require.Equal(t, 3, person.Trace.Len())

	assert.True(t, person.Trace.Plan[0].IsLink())
	assert.Equal(t, "a", person.Trace.Plan[0].Link.LinkID)
	assert.True(t, person.Trace.Plan[1].IsLink())
	assert.Equal(t, "b", person.Trace.Plan[1].Link.LinkID)

	assert.True(t, person.Trace.Plan[2].IsActivity())
	assert.Equal(t, "home", person.Trace.Plan[2].Activity.Act)
	assert.Equal(t, 86402, person.Trace.Plan[2].Activity.EndTime)
}

func TestHandlerVehicleLeavesTrafficHalvesDistance(t *testing.T) {
	pop := population.New()
	pop.Insert("p1", &population.Person{Attributes: population.Attributes{}})

	h := NewHandler()
	h.AddNetwork(testNetwork())

	require.NoError(t, h.process(Event{Kind: EventEnteredLink, Time: 1, Vehicle: "p1", Link: "a"}, pop))
	require.NoError(t, h.process(Event{Kind: EventVehicleLeavesTraffic, Time: 2, Vehicle: "p1", Link: "a"}, pop))

	person, _ := pop.Get("p1")
	require.Equal(t, 1, person.Trace.Len())
	assert.Equal(t, 2.0, person.Trace.Plan[0].Link.Distance)
}

func TestHandlerActEndWithoutStartDefaultsToZero(t *testing.T) {
	pop := population.New()
	pop.Insert("p1", &population.Person{Attributes: population.Attributes{}})

	h := NewHandler()
	h.AddNetwork(testNetwork())

	require.NoError(t, h.process(Event{Kind: EventActEnd, Time: 50, Person: "p1", Act: "home", Link: "home-link"}, pop))

	person, _ := pop.Get("p1")
	require.Equal(t, 1, person.Trace.Len())
	assert.Equal(t, 0, person.Trace.Plan[0].Activity.StartTime)
	assert.Equal(t, 50, person.Trace.Plan[0].Activity.EndTime)
}

func TestHandlerCleanDropsNonTravellers(t *testing.T) {
	pop := population.New()
	pop.Insert("traveller", &population.Person{Trace: population.Trace{Plan: []population.Component{
		population.NewLinkComponent(population.Link{StartTime: 0, EndTime: 1, LinkID: "a", Distance: 1}),
	}}})
	pop.Insert("stay-home", &population.Person{Trace: population.Trace{Plan: []population.Component{
		population.NewActivityComponent(population.Activity{StartTime: 0, EndTime: 86400, Act: "home"}),
	}}})

	h := NewHandler()
	h.AddNetwork(testNetwork())
	h.clean(pop)

	assert.Equal(t, 1, pop.Len())
	_, ok := pop.Get("traveller")
	assert.True(t, ok)
}
