// Package config manages algorithm configuration for the partitioning
// engine using Viper, the way the Louvain/SCAR siblings in this codebase
// do: typed getters over a viper.Viper instance seeded with defaults, with
// an optional override file.
package config

import (
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config wraps algorithm tunables. Zero value is not usable; use New.
type Config struct {
	v *viper.Viper
}

// New creates a Config pre-populated with the engine's documented defaults.
func New() *Config {
	v := viper.New()

	// MDL / split tunables.
	v.SetDefault("mdl.split_tolerance", 0.05)

	// Bottom-up merge tunables.
	v.SetDefault("bottomup.mcmc_multiplier", 50)
	v.SetDefault("bottomup.max_mcmc_iters", 2000)
	v.SetDefault("bottomup.merge_batch_size_factor", 0.5)
	v.SetDefault("bottomup.mcmc_threshold_divisor", 5)
	v.SetDefault("bottomup.forced_merge_mcmc_multiplier", 100)

	// Top-down split tunables.
	v.SetDefault("topdown.mcmc_refinement_multiplier", 10)

	// Performance.
	v.SetDefault("performance.num_workers", runtime.NumCPU())

	// Logging.
	v.SetDefault("logging.level", "info")

	return &Config{v: v}
}

// LoadFromFile overlays settings from a YAML/JSON/TOML file onto the
// defaults already registered.
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.MergeInConfig()
}

// SplitTolerance is spec tunable SPLIT_TOLERANCE.
func (c *Config) SplitTolerance() float64 { return c.v.GetFloat64("mdl.split_tolerance") }

// BottomUpMCMCMultiplier is BOTTOM_UP_MCMC_MULTIPLIER.
func (c *Config) BottomUpMCMCMultiplier() int { return c.v.GetInt("bottomup.mcmc_multiplier") }

// MaxBottomUpMCMCIters is MAX_BOTTOM_UP_MCMC_ITERS.
func (c *Config) MaxBottomUpMCMCIters() int { return c.v.GetInt("bottomup.max_mcmc_iters") }

// MergeBatchSizeFactor is MERGE_BATCH_SIZE_FACTOR.
func (c *Config) MergeBatchSizeFactor() float64 {
	return c.v.GetFloat64("bottomup.merge_batch_size_factor")
}

// MCMCThresholdDivisor is MCMC_THRESHOLD_DIVISOR.
func (c *Config) MCMCThresholdDivisor() int { return c.v.GetInt("bottomup.mcmc_threshold_divisor") }

// ForcedMergeMCMCMultiplier is FORCED_MERGE_MCMC_MULTIPLIER.
func (c *Config) ForcedMergeMCMCMultiplier() int {
	return c.v.GetInt("bottomup.forced_merge_mcmc_multiplier")
}

// MCMCRefinementMultiplier is MCMC_REFINEMENT_MULTIPLIER, top-down's
// post-split refinement budget per vertex.
func (c *Config) MCMCRefinementMultiplier() int {
	return c.v.GetInt("topdown.mcmc_refinement_multiplier")
}

// NumWorkers is the fan-out width for parallel phases.
func (c *Config) NumWorkers() int { return c.v.GetInt("performance.num_workers") }

// SetSequential pins NumWorkers to 1, matching the CLI's "sequential"
// execution mode.
func (c *Config) SetSequential() { c.v.Set("performance.num_workers", 1) }

// SetNumWorkers overrides the worker count directly.
func (c *Config) SetNumWorkers(n int) { c.v.Set("performance.num_workers", n) }

// LogLevel is the configured zerolog level name.
func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// Set allows dynamic configuration changes, e.g. from CLI flags.
func (c *Config) Set(key string, value interface{}) { c.v.Set(key, value) }

// CreateLogger builds a zerolog.Logger at the configured level, writing to
// stderr the way the backend's entrypoint does.
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "sbp").Logger()
}
