package config

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScale is returned when a Config's Scale is negative.
var ErrInvalidScale = errors.New("config: scale must not be negative")

const (
	defaultScale     = 1.0
	defaultPrecision = 1.0
	defaultPatience  = 100
)

// Config is the top-level YAML document: four spec groups plus the
// simulation-wide knobs that apply across all agents.
type Config struct {
	Name      string  `yaml:"name,omitempty"`
	Scale     float64 `yaml:"scale"`
	Precision float64 `yaml:"precision"`
	Patience  int     `yaml:"patience"`
	Seed      *uint64 `yaml:"seed,omitempty"`

	BatteryGroup  Group[BatterySpec]  `yaml:"battery_group"`
	TriggerGroup  Group[TriggerSpec]  `yaml:"trigger_group"`
	EnRouteGroup  Group[EnRouteSpec]  `yaml:"enroute_group"`
	ActivityGroup Group[ActivitySpec] `yaml:"activity_group"`
}

// Default returns a Config with every simulation-wide knob at its default
// value and every spec group empty.
func Default() Config {
	return Config{
		Scale:     defaultScale,
		Precision: defaultPrecision,
		Patience:  defaultPatience,
	}
}

// Load reads, unmarshals, applies defaults, and validates a Config from r.
func Load(r io.Reader) (*Config, error) {
	cfg, err := LoadUnchecked(r)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUnchecked reads and unmarshals a Config from r, applying defaults for
// any zero-valued knob, but does not validate it.
func LoadUnchecked(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Scale == 0 {
		cfg.Scale = defaultScale
	}
	if cfg.Precision == 0 {
		cfg.Precision = defaultPrecision
	}
	if cfg.Patience == 0 {
		cfg.Patience = defaultPatience
	}
	return &cfg, nil
}

// Validate checks the simulation-wide knobs. Per-agent validation (battery
// vs. trigger vs. en-route coverage) happens in AgentConfig.Validate, since
// it depends on which specs match a given agent's attributes.
func (c Config) Validate() error {
	if c.Scale < 0 {
		return ErrInvalidScale
	}
	return nil
}
