// Package config holds the run parameters shared by the protalign CLI and
// server, their defaults, and the flags that set them.
package config

import (
	"flag"
	"fmt"

	"github.com/aria-lang/protalign-go/internal/alignment"
	"github.com/aria-lang/protalign-go/internal/significance"
)

// Defaults
const (
	DefaultTrials    = 0
	DefaultMaxTrials = 10000
)

// Config holds alignment and significance parameters.
type Config struct {
	GapCost int
	Trials  int
	Workers int
	Seed    int64
	// MaxTrials bounds Trials; 0 means unbounded.
	MaxTrials int
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		GapCost:   alignment.DefaultGapCost,
		Trials:    DefaultTrials,
		MaxTrials: DefaultMaxTrials,
	}
}

// RegisterFlags binds the alignment flags to fs, using c's current values
// as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.GapCost, "gap", c.GapCost, "Linear gap cost (<= 0)")
	fs.IntVar(&c.Trials, "trials", c.Trials, "Permutation trials for the p-value (0 skips)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Trial workers (0 = GOMAXPROCS)")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Random seed for trials (0 = from clock)")
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.GapCost > 0 {
		return &alignment.InvalidGapCostError{Gap: c.GapCost}
	}
	if err := c.ValidateTrials(c.Trials); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

// ValidateTrials checks a trial count against the configured bound.
func (c *Config) ValidateTrials(trials int) error {
	if trials < 0 {
		return &significance.InvalidTrialCountError{Trials: trials}
	}
	if c.MaxTrials > 0 && trials > c.MaxTrials {
		return fmt.Errorf("trials must be <= %d, got %d", c.MaxTrials, trials)
	}
	return nil
}

// Scoring returns BLOSUM62 scoring with the configured gap cost.
func (c *Config) Scoring() (*alignment.Scoring, error) {
	return alignment.NewScoring(alignment.BLOSUM62(), c.GapCost)
}
