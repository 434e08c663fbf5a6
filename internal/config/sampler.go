package config

import (
	"math/rand"
	"time"
)

// NewSampler builds the seeded RNG used for every per-agent config
// resolution. A nil seed falls back to a time-derived seed (non-deterministic
// across runs); an explicit seed makes a run fully reproducible.
func NewSampler(seed *uint64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(*seed)))
}
