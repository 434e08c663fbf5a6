package config

import "math/rand"

// Base carries the fields common to every spec kind: an optional name (for
// diagnostics), an optional attribute Filters conjunction, and an optional
// probability gate.
type Base struct {
	Name    *string  `yaml:"name,omitempty"`
	P       *float64 `yaml:"p,omitempty"`
	Filters Filters  `yaml:"filters,omitempty"`
}

// Matches reports whether attrs satisfies b.Filters AND the probability
// gate passes. Both sides are always evaluated, even when the filter
// already failed, so the RNG draw never shifts depending on filter outcome.
func (b Base) Matches(attrs map[string]string, rng *rand.Rand) bool {
	matched := b.Filters.Matches(attrs)
	sampled := samplep(b.P, rng)
	return matched && sampled
}

// samplep draws the probability gate. A nil p always passes without
// drawing from rng; a non-nil p draws exactly once.
func samplep(p *float64, rng *rand.Rand) bool {
	if p == nil {
		return true
	}
	return *p > rng.Float64()
}

// FilterableSpec is anything a Group can Find/Filter by attribute map and
// RNG draw.
type FilterableSpec interface {
	Matches(attrs map[string]string, rng *rand.Rand) bool
}

// BatterySpec describes a battery's capacity, starting charge, and per-metre
// consumption rate, all expressed in the caller's native units (kWh, kWh/km)
// before unit conversion at simulation build time.
type BatterySpec struct {
	Base            `yaml:",inline"`
	Capacity        float64 `yaml:"capacity"`
	Initial         float64 `yaml:"initial"`
	ConsumptionRate float64 `yaml:"consumption_rate"`
}

func (s BatterySpec) Matches(attrs map[string]string, rng *rand.Rand) bool {
	return s.Base.Matches(attrs, rng)
}

// TriggerSpec names the state-of-charge fraction at or below which an agent
// prefers to charge.
type TriggerSpec struct {
	Base    `yaml:",inline"`
	Trigger float64 `yaml:"trigger"`
}

func (s TriggerSpec) Matches(attrs map[string]string, rng *rand.Rand) bool {
	return s.Base.Matches(attrs, rng)
}

// EnRouteSpec describes the charge rate available while a vehicle is
// travelling (used to offset consumption on long links), independent of any
// activity-based charging.
type EnRouteSpec struct {
	Base       `yaml:",inline"`
	ChargeRate float64 `yaml:"charge_rate"`
}

func (s EnRouteSpec) Matches(attrs map[string]string, rng *rand.Rand) bool {
	return s.Base.Matches(attrs, rng)
}

// ActivitySpec names the activity types it applies to and the charge rate
// available while parked at one of them.
type ActivitySpec struct {
	Base       `yaml:",inline"`
	Activities []string `yaml:"activities"`
	ChargeRate float64  `yaml:"charge_rate"`
}

func (s ActivitySpec) Matches(attrs map[string]string, rng *rand.Rand) bool {
	return s.Base.Matches(attrs, rng)
}

// Resolved strips the filters/p fields (they've already done their job by
// the time a planner hands this spec out), keeping name/activities/charge-rate.
func (s ActivitySpec) Resolved() ActivitySpec {
	return ActivitySpec{
		Base:       Base{Name: s.Name},
		Activities: s.Activities,
		ChargeRate: s.ChargeRate,
	}
}
