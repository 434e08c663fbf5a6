package config

import (
	"fmt"
	"math/rand"
	"strings"
)

// AgentMissingEnRouteChargingError is returned when an agent resolves a
// battery but no en-route charging spec matches its attributes.
type AgentMissingEnRouteChargingError struct {
	PID string
}

func (e AgentMissingEnRouteChargingError) Error() string {
	return fmt.Sprintf("config: agent %q has a battery but no matching en_route spec", e.PID)
}

// AgentMissingTriggerError is returned when an agent resolves a battery but
// no trigger spec matches its attributes.
type AgentMissingTriggerError struct {
	PID string
}

func (e AgentMissingTriggerError) Error() string {
	return fmt.Sprintf("config: agent %q has a battery but no matching trigger spec", e.PID)
}

// AgentConfig is the fully-resolved, per-agent view of a Config: the single
// battery/trigger/en-route spec that applies (if any), and the set of
// activity specs that apply.
type AgentConfig struct {
	PID        string
	Battery    *BatterySpec
	Trigger    *TriggerSpec
	EnRoute    *EnRouteSpec
	Activities []ActivitySpec
}

// BuildAgentConfig resolves one agent's config. Draws happen in this exact
// order: battery, trigger, en_route, activities.
func BuildAgentConfig(cfg *Config, pid string, attrs map[string]string, rng *rand.Rand) AgentConfig {
	ac := AgentConfig{PID: pid}

	if battery, ok := cfg.BatteryGroup.Find(attrs, rng); ok {
		b := battery
		ac.Battery = &b
	}
	if trigger, ok := cfg.TriggerGroup.Find(attrs, rng); ok {
		t := trigger
		ac.Trigger = &t
	}
	if enRoute, ok := cfg.EnRouteGroup.Find(attrs, rng); ok {
		e := enRoute
		ac.EnRoute = &e
	}
	ac.Activities = cfg.ActivityGroup.Filter(attrs, rng)

	return ac
}

// SpecRecord is the serialisable row written to specs.csv: which named spec
// (or "None") resolved for each group, and the charge-enabled activity
// names joined with "+".
type SpecRecord struct {
	PID        string `csv:"pid"`
	Battery    string `csv:"battery"`
	Trigger    string `csv:"trigger"`
	EnRoute    string `csv:"en_route"`
	Activities string `csv:"activities"`
}

const noneSpecName = "None"

func specName(name *string) string {
	if name == nil {
		return noneSpecName
	}
	return *name
}

// ToRecord builds the specs.csv row for this agent's resolved config.
func (a AgentConfig) ToRecord() SpecRecord {
	battery, trigger, enRoute := noneSpecName, noneSpecName, noneSpecName
	if a.Battery != nil {
		battery = specName(a.Battery.Name)
	}
	if a.Trigger != nil {
		trigger = specName(a.Trigger.Name)
	}
	if a.EnRoute != nil {
		enRoute = specName(a.EnRoute.Name)
	}

	var names []string
	for _, spec := range a.Activities {
		if spec.Name != nil {
			names = append(names, *spec.Name)
		}
	}

	return SpecRecord{
		PID:        a.PID,
		Battery:    battery,
		Trigger:    trigger,
		EnRoute:    enRoute,
		Activities: strings.Join(names, "+"),
	}
}

// Validate checks that an agent with a battery also has the en-route and
// trigger coverage it needs to be simulated. An agent with no battery at
// all is not required to have either (it never charges or consumes).
//
// En-route coverage is checked before trigger coverage.
func (a AgentConfig) Validate() error {
	if a.Battery == nil {
		return nil
	}
	if a.EnRoute == nil {
		return AgentMissingEnRouteChargingError{PID: a.PID}
	}
	if a.Trigger == nil {
		return AgentMissingTriggerError{PID: a.PID}
	}
	return nil
}
