// Package config holds the YAML-driven spec groups (battery, trigger,
// en-route, activity), their attribute/probability filtering, and the
// per-agent resolution rules built on top of them.
package config

// Filter matches an attribute map iff attributes[Key] is one of Values.
type Filter struct {
	Key    string   `yaml:"key"`
	Values []string `yaml:"values"`
}

// Matches reports whether attrs[f.Key] is a member of f.Values.
func (f Filter) Matches(attrs map[string]string) bool {
	v, ok := attrs[f.Key]
	if !ok {
		return false
	}
	for _, candidate := range f.Values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Filters is a conjunction of Filter: all must match. An empty/nil Filters
// matches everything (vacuous truth).
type Filters []Filter

// Matches reports whether every filter in fs matches attrs.
func (fs Filters) Matches(attrs map[string]string) bool {
	for _, f := range fs {
		if !f.Matches(attrs) {
			return false
		}
	}
	return true
}
