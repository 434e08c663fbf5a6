package config

import "math/rand"

// Group is an ordered list of specs of one kind, queried by Find (last
// declared match wins) or Filter (all matches, declaration order).
type Group[S FilterableSpec] struct {
	Specs []S
}

// UnmarshalYAML lets a Group be written in YAML as a plain sequence of spec
// entries rather than a nested {specs: [...]} map.
func (g *Group[S]) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var specs []S
	if err := unmarshal(&specs); err != nil {
		return err
	}
	g.Specs = specs
	return nil
}

// Find walks the group in reverse declaration order and returns the first
// spec that matches, stopping as soon as one does. Earlier (in declaration
// order) specs than the match are never visited and so never consume the
// RNG.
func (g Group[S]) Find(attrs map[string]string, rng *rand.Rand) (S, bool) {
	for i := len(g.Specs) - 1; i >= 0; i-- {
		if g.Specs[i].Matches(attrs, rng) {
			return g.Specs[i], true
		}
	}
	var zero S
	return zero, false
}

// Filter walks the group in declaration order and returns every spec that
// matches. Every spec is visited, so every spec's probability gate (if any)
// draws from rng exactly once.
func (g Group[S]) Filter(attrs map[string]string, rng *rand.Rand) []S {
	var out []S
	for _, s := range g.Specs {
		if s.Matches(attrs, rng) {
			out = append(out, s)
		}
	}
	return out
}
