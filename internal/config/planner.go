package config

// ActivityChargingPlanner answers "what charge rate applies while parked at
// this activity" from a resolved, ordered list of ActivitySpec.
type ActivityChargingPlanner struct {
	specs []ActivitySpec
}

// NewActivityChargingPlanner builds a planner from an agent's resolved
// activity specs, in declaration order.
func NewActivityChargingPlanner(specs []ActivitySpec) *ActivityChargingPlanner {
	return &ActivityChargingPlanner{specs: specs}
}

// Activities returns the union of every activity name named across all
// specs, in declaration order, duplicates preserved.
func (p *ActivityChargingPlanner) Activities() []string {
	var out []string
	for _, s := range p.specs {
		out = append(out, s.Activities...)
	}
	return out
}

// Get returns the spec that applies to the named activity: the last
// declared spec whose Activities list contains name wins, matching the
// same last-match convention as Group.Find.
func (p *ActivityChargingPlanner) Get(name string) (ActivitySpec, bool) {
	for i := len(p.specs) - 1; i >= 0; i-- {
		for _, a := range p.specs[i].Activities {
			if a == name {
				return p.specs[i].Resolved(), true
			}
		}
	}
	return ActivitySpec{}, false
}
