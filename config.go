package sprout

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Config is everything Start needs. Zero durations and counts are invalid;
// start from DefaultConfig and override.
type Config struct {
	Seed                int32
	BranchCount         int
	CycleDuration       time.Duration
	GrowthPhaseFraction float64
	MinVisibleDuration  time.Duration
	// MaxVisibleDuration forces completion if the page never reports ready.
	MaxVisibleDuration time.Duration
	// FadeOutDelay is the overlay fade between dismissal and onDone.
	FadeOutDelay time.Duration
	// RevealThreshold is the growth value at which tip markers appear.
	RevealThreshold float64
	ReducedMotion   bool
	SeedPolicy      SeedPolicy
	// Junctions enables junction markers where branch tips meet.
	Junctions bool
	Topology  TopologyConfig
	Palette   Palette
}

// DefaultConfig returns the settings used by the site preloader.
func DefaultConfig() Config {
	return Config{
		Seed:                42,
		BranchCount:         28,
		CycleDuration:       5 * time.Second,
		GrowthPhaseFraction: 0.6,
		MinVisibleDuration:  2 * time.Second,
		MaxVisibleDuration:  DefaultMaxDuration,
		FadeOutDelay:        300 * time.Millisecond,
		RevealThreshold:     0.65,
		Junctions:           true,
		Topology:            DefaultTopologyConfig(),
		Palette:             DefaultPalette(),
	}
}

// Validate reports the first invalid field, wrapped around ErrInvalidParameter.
func (c Config) Validate() error {
	switch {
	case c.BranchCount <= 0:
		return invalidf("branch count %d must be positive", c.BranchCount)
	case c.CycleDuration <= 0:
		return invalidf("cycle duration %v must be positive", c.CycleDuration)
	case !(c.GrowthPhaseFraction > 0 && c.GrowthPhaseFraction < 1):
		return invalidf("growth phase fraction %v outside (0, 1)", c.GrowthPhaseFraction)
	case c.MinVisibleDuration < 0:
		return invalidf("min visible duration %v is negative", c.MinVisibleDuration)
	case c.MaxVisibleDuration <= 0:
		return invalidf("max visible duration %v must be positive", c.MaxVisibleDuration)
	case c.MaxVisibleDuration < c.MinVisibleDuration:
		return invalidf("max visible duration %v below min %v", c.MaxVisibleDuration, c.MinVisibleDuration)
	case c.FadeOutDelay < 0:
		return invalidf("fade out delay %v is negative", c.FadeOutDelay)
	case !(c.RevealThreshold >= 0 && c.RevealThreshold < 1):
		return invalidf("reveal threshold %v outside [0, 1)", c.RevealThreshold)
	}
	if c.ReducedMotion {
		return nil
	}
	return c.Topology.validate()
}

func (c Config) clock() Clock {
	return Clock{
		CycleDuration:   c.CycleDuration,
		GrowthFraction:  c.GrowthPhaseFraction,
		RevealThreshold: c.RevealThreshold,
	}
}

// fileConfig is the TOML layout. Durations are integer milliseconds. Every
// field is a pointer so absent keys keep their defaults.
type fileConfig struct {
	Seed                 *int32   `toml:"seed"`
	BranchCount          *int     `toml:"branch_count"`
	CycleDurationMs      *int64   `toml:"cycle_duration_ms"`
	GrowthPhaseFraction  *float64 `toml:"growth_phase_fraction"`
	MinVisibleDurationMs *int64   `toml:"min_visible_duration_ms"`
	MaxVisibleDurationMs *int64   `toml:"max_visible_duration_ms"`
	FadeOutDelayMs       *int64   `toml:"fade_out_delay_ms"`
	RevealThreshold      *float64 `toml:"reveal_threshold"`
	ReducedMotion        *bool    `toml:"reduced_motion"`
	SeedPerCycle         *bool    `toml:"seed_per_cycle"`
	Junctions            *bool    `toml:"junctions"`

	Topology struct {
		Strategy      *string  `toml:"strategy"`
		MinLength     *float64 `toml:"min_length"`
		MaxLength     *float64 `toml:"max_length"`
		AngleJitter   *float64 `toml:"angle_jitter"`
		CurveJitter   *float64 `toml:"curve_jitter"`
		CurveSegments *int     `toml:"curve_segments"`
		MaxDepth      *int     `toml:"max_depth"`
		Spread        *float64 `toml:"spread"`
		SpreadDecay   *float64 `toml:"spread_decay"`
		LengthDecay   *float64 `toml:"length_decay"`
	} `toml:"topology"`
}

// ParseConfig decodes TOML data over DefaultConfig and validates the result.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	var fc fileConfig
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.WithHint(
			invalidf("unknown config key %q", undecoded[0].String()),
			"see DefaultConfig for the supported keys")
	}
	if err := fc.apply(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a TOML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return cfg, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	setInt32(&cfg.Seed, fc.Seed)
	setInt(&cfg.BranchCount, fc.BranchCount)
	setMillis(&cfg.CycleDuration, fc.CycleDurationMs)
	setFloat(&cfg.GrowthPhaseFraction, fc.GrowthPhaseFraction)
	setMillis(&cfg.MinVisibleDuration, fc.MinVisibleDurationMs)
	setMillis(&cfg.MaxVisibleDuration, fc.MaxVisibleDurationMs)
	setMillis(&cfg.FadeOutDelay, fc.FadeOutDelayMs)
	setFloat(&cfg.RevealThreshold, fc.RevealThreshold)
	setBool(&cfg.ReducedMotion, fc.ReducedMotion)
	setBool(&cfg.Junctions, fc.Junctions)
	if fc.SeedPerCycle != nil {
		cfg.SeedPolicy = SeedFixed
		if *fc.SeedPerCycle {
			cfg.SeedPolicy = SeedPerCycle
		}
	}

	t := &fc.Topology
	if t.Strategy != nil {
		s, err := ParseStrategy(*t.Strategy)
		if err != nil {
			return err
		}
		cfg.Topology.Strategy = s
	}
	setFloat(&cfg.Topology.Length.Min, t.MinLength)
	setFloat(&cfg.Topology.Length.Max, t.MaxLength)
	setFloat(&cfg.Topology.AngleJitter, t.AngleJitter)
	setFloat(&cfg.Topology.CurveJitter, t.CurveJitter)
	setInt(&cfg.Topology.CurveSegments, t.CurveSegments)
	setInt(&cfg.Topology.MaxDepth, t.MaxDepth)
	setFloat(&cfg.Topology.Spread, t.Spread)
	setFloat(&cfg.Topology.SpreadDecay, t.SpreadDecay)
	setFloat(&cfg.Topology.LengthDecay, t.LengthDecay)
	return nil
}

func setInt32(dst *int32, v *int32) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setMillis(dst *time.Duration, v *int64) {
	if v != nil {
		*dst = time.Duration(*v) * time.Millisecond
	}
}
