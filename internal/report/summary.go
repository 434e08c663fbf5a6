package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"evchargesim/internal/simulate"
)

// Summary accumulates charge totals and event counts across every agent's
// closed-loop slice, split by charge type and (for activity charging) by
// activity name, plus the total energy leak from unclosed plans.
type Summary struct {
	enRouteCharge      float64
	enRouteEvents      float64
	activityCharge     map[string]float64
	activityEvents     map[string]float64
	leak               float64
	scale              float64
}

// NewSummary starts an empty summary. scale is the configured Config.Scale,
// applied once at Finalise to extrapolate the closed-loop slice to its
// full reporting period.
func NewSummary(scale float64) *Summary {
	return &Summary{
		activityCharge: map[string]float64{},
		activityEvents: map[string]float64{},
		scale:          scale,
	}
}

// Add folds one charge event into the running totals.
func (s *Summary) Add(ev simulate.Event) {
	switch ev.ChargeType {
	case simulate.ChargeTypeEnRoute:
		s.enRouteCharge += ev.Charge
		s.enRouteEvents++
	case simulate.ChargeTypeActivity:
		s.activityCharge[ev.Activity] += ev.Charge
		s.activityEvents[ev.Activity]++
	}
}

// AddLeak accumulates one agent's closed-loop error into the total leak.
func (s *Summary) AddLeak(leak float64) {
	s.leak += leak
}

// Finalise rescales every accumulated total by scale. Call once, after all
// agents have been folded in via Add/AddLeak.
func (s *Summary) Finalise() {
	s.leak *= s.scale
	s.enRouteEvents *= s.scale
	for k, v := range s.activityEvents {
		s.activityEvents[k] = v * s.scale
	}
	s.enRouteCharge *= s.scale
	for k, v := range s.activityCharge {
		s.activityCharge[k] = v * s.scale
	}
}

// String renders the same report printed at the end of a run: total
// charge/events/leak, the en-route and activity breakdowns, and a
// per-activity table, all in human-readable energy units.
func (s *Summary) String() string {
	var activityCharge, activityEvents float64
	for _, v := range s.activityCharge {
		activityCharge += v
	}
	for _, v := range s.activityEvents {
		activityEvents += v
	}
	totalCharge := s.enRouteCharge + activityCharge
	totalEvents := s.enRouteEvents + activityEvents

	var b strings.Builder
	fmt.Fprintf(&b, "\n\nTotal Charge: %s", HumanEnergy(totalCharge))
	fmt.Fprintf(&b, "\nTotal Events: %s", humanCount(totalEvents))
	fmt.Fprintf(&b, "\nTotal Energy Leak: %s", HumanEnergy(s.leak))
	fmt.Fprintf(&b, "\n\n[En Route Charging]")
	fmt.Fprintf(&b, "\nTotal En-route Charge: %s", HumanEnergy(s.enRouteCharge))
	fmt.Fprintf(&b, "\nTotal En-route Charge Events: %s", humanCount(s.enRouteEvents))
	fmt.Fprintf(&b, "\n\n[Activity Charging]")
	fmt.Fprintf(&b, "\nTotal Activity Charge: %s", HumanEnergy(activityCharge))
	fmt.Fprintf(&b, "\nTotal Activity Charge Events: %s", humanCount(activityEvents))
	fmt.Fprintf(&b, "\n\n[Charging by activity]")

	names := make([]string, 0, len(s.activityCharge))
	for k := range s.activityCharge {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "\n%s: %s from %s charge events",
			name, HumanEnergy(s.activityCharge[name]), humanCount(s.activityEvents[name]))
	}

	return b.String()
}

func humanCount(v float64) string {
	return fmt.Sprintf("%d", int64(v))
}

// energyUnit pairs a kWs conversion factor with its display name, largest
// first.
type energyUnit struct {
	factor float64
	name   string
}

var energyUnits = []energyUnit{
	{3_600_000_000_000.0, "TWh"},
	{3_600_000_000.0, "GWh"},
	{3_600_000.0, "MWh"},
	{3_600.0, "kWh"},
	{1.0, "kWs"},
}

// HumanEnergy renders a kWs value in the coarsest unit it comfortably
// rounds to: it walks units from largest to smallest and stops at the
// first one for which the value plus half of the next-smaller unit reaches
// 1.5x the current unit's factor (kWs if none does).
func HumanEnergy(kWs float64) string {
	idx := 0
	for i, cur := range energyUnits {
		idx = i
		if i+1 >= len(energyUnits) {
			continue
		}
		next := energyUnits[i+1]
		if kWs+next.factor/2 >= cur.factor+cur.factor/2 {
			break
		}
	}
	unit := energyUnits[idx]
	t := int64(math.Round(kWs / unit.factor))
	return fmt.Sprintf("%d %s", t, unit.name)
}
