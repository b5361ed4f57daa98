package config

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/livelayout/pkg/coords"
	"github.com/matzehuels/livelayout/pkg/errors"
	"github.com/matzehuels/livelayout/pkg/layout"
	"github.com/matzehuels/livelayout/pkg/scheduler"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "livelayout.toml"

// =============================================================================
// Config Types
// =============================================================================

// Config is the decoded form of a livelayout.toml file.
type Config struct {
	Store     StoreConfig     `toml:"store"`
	Animation AnimationConfig `toml:"animation"`
	Placement PlacementConfig `toml:"placement"`
	Engine    EngineConfig    `toml:"engine"`
	Serve     ServeConfig     `toml:"serve"`
}

// StoreConfig configures the coordinate store.
type StoreConfig struct {
	MaxCacheSize int `toml:"max_cache_size"`
}

// AnimationConfig configures the animation driver.
type AnimationConfig struct {
	Interval          Duration `toml:"interval"`
	IterationsPerTick int      `toml:"iterations_per_tick"`
	StopWhenConverged bool     `toml:"stop_when_converged"`
}

// PlacementConfig selects and parameterizes placement strategies.
type PlacementConfig struct {
	Initial string  `toml:"initial"`
	Adding  string  `toml:"adding"`
	Radius  float64 `toml:"radius"`
	Spacing float64 `toml:"spacing"`
	Columns int     `toml:"columns"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Seed    int64   `toml:"seed"`
}

// EngineConfig holds the spring engine constants.
type EngineConfig struct {
	IdealLength        float64 `toml:"ideal_length"`
	InitialTemperature float64 `toml:"initial_temperature"`
	Cooling            float64 `toml:"cooling"`
	MinTemperature     float64 `toml:"min_temperature"`
	MinDistance        float64 `toml:"min_distance"`
	Threshold          float64 `toml:"threshold"`
	Seed               int64   `toml:"seed"`
}

// ServeConfig configures the HTTP server and Redis publishing.
type ServeConfig struct {
	Addr         string `toml:"addr"`
	RedisAddr    string `toml:"redis_addr"`
	RedisChannel string `toml:"redis_channel"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	params := layout.DefaultParams()
	spring := layout.DefaultSpringConfig()
	return Config{
		Store: StoreConfig{MaxCacheSize: coords.DefaultMaxCacheSize},
		Animation: AnimationConfig{
			Interval:          DurationFrom(scheduler.DefaultInterval),
			IterationsPerTick: scheduler.DefaultIterationsPerTick,
		},
		Placement: PlacementConfig{
			Initial: layout.StrategyCircle,
			Adding:  layout.StrategyRandom,
			Radius:  params.Radius,
			Spacing: params.Spacing,
			Columns: params.Columns,
			Width:   params.Width,
			Height:  params.Height,
			Seed:    params.Seed,
		},
		Engine: EngineConfig{
			IdealLength:        spring.IdealLength,
			InitialTemperature: spring.InitialTemperature,
			Cooling:            spring.Cooling,
			MinTemperature:     spring.MinTemperature,
			MinDistance:        spring.MinDistance,
			Threshold:          spring.Threshold,
			Seed:               spring.Seed,
		},
		Serve: ServeConfig{
			Addr:         ":8080",
			RedisChannel: "livelayout:events",
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Decode reads TOML from r over the defaults and validates the result.
// Keys missing from the input keep their default values; unknown keys are
// rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the TOML file at path. An empty path loads DefaultFile when it
// exists and falls back to Default otherwise.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// =============================================================================
// Validation and Conversion
// =============================================================================

// Validate checks every section, reporting the first problem with
// errors.ErrCodeInvalidConfig and the failing check as cause.
func (c Config) Validate() error {
	if c.Store.MaxCacheSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "store.max_cache_size must not be negative, got %d", c.Store.MaxCacheSize)
	}
	if c.Animation.Interval.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation.interval must be positive, got %v", c.Animation.Interval)
	}
	if c.Animation.IterationsPerTick <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation.iterations_per_tick must be positive, got %d", c.Animation.IterationsPerTick)
	}
	params := c.Placement.Params()
	if err := params.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "placement")
	}
	for _, name := range []string{c.Placement.Initial, c.Placement.Adding} {
		if err := params.ValidateFor(name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "placement.%s", name)
		}
	}
	if _, err := c.Engine.Spring(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "engine")
	}
	return nil
}

// Params returns the placement parameters.
func (p PlacementConfig) Params() layout.Params {
	return layout.Params{
		Radius:  p.Radius,
		Spacing: p.Spacing,
		Columns: p.Columns,
		Width:   p.Width,
		Height:  p.Height,
		Seed:    p.Seed,
	}
}

// Spring returns the validated spring engine constants.
func (e EngineConfig) Spring() (layout.SpringConfig, error) {
	sc := layout.SpringConfig{
		IdealLength:        e.IdealLength,
		InitialTemperature: e.InitialTemperature,
		Cooling:            e.Cooling,
		MinTemperature:     e.MinTemperature,
		MinDistance:        e.MinDistance,
		Threshold:          e.Threshold,
		Seed:               e.Seed,
	}
	return sc, sc.Validate()
}

// NewStore creates a coordinate store with the configured cache bound.
func (c Config) NewStore() (*scheduler.Store, error) {
	return coords.New[string, r2.Vec](coords.WithMaxCacheSize(c.Store.MaxCacheSize))
}

// SchedulerOptions returns scheduler options for the configuration.
func (c Config) SchedulerOptions(logger *log.Logger) (scheduler.Options, error) {
	initial, err := layout.LookupStrategy(c.Placement.Initial)
	if err != nil {
		return scheduler.Options{}, err
	}
	adding, err := layout.LookupStrategy(c.Placement.Adding)
	if err != nil {
		return scheduler.Options{}, err
	}
	return scheduler.Options{
		Interval:          c.Animation.Interval.Duration,
		IterationsPerTick: c.Animation.IterationsPerTick,
		Initial:           initial,
		Adding:            adding,
		Params:            c.Placement.Params(),
		StopWhenConverged: c.Animation.StopWhenConverged,
		Logger:            logger,
	}, nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}
