package config

import (
	"flag"
	"io"
	"testing"

	"github.com/aria-lang/protalign-go/internal/alignment"
	"github.com/aria-lang/protalign-go/internal/significance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, -4, c.GapCost)
	assert.Equal(t, 0, c.Trials)
	assert.Equal(t, DefaultMaxTrials, c.MaxTrials)
	require.NoError(t, c.Validate())
}

func TestRegisterFlags(t *testing.T) {
	c := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{"-gap", "-6", "-trials", "500", "-workers", "2", "-seed", "9"}))
	assert.Equal(t, -6, c.GapCost)
	assert.Equal(t, 500, c.Trials)
	assert.Equal(t, 2, c.Workers)
	assert.Equal(t, int64(9), c.Seed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr interface{}
	}{
		{"positive gap", func(c *Config) { c.GapCost = 2 }, &alignment.InvalidGapCostError{}},
		{"negative trials", func(c *Config) { c.Trials = -1 }, &significance.InvalidTrialCountError{}},
		{"too many trials", func(c *Config) { c.Trials = c.MaxTrials + 1 }, nil},
		{"negative workers", func(c *Config) { c.Workers = -2 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.IsType(t, tt.wantErr, err)
			}
		})
	}

	unbounded := Default()
	unbounded.MaxTrials = 0
	assert.NoError(t, unbounded.ValidateTrials(1_000_000))
}

func TestScoring(t *testing.T) {
	c := Default()
	c.GapCost = -8
	s, err := c.Scoring()
	require.NoError(t, err)
	assert.Equal(t, -8, s.Gap)

	c.GapCost = 1
	_, err = c.Scoring()
	assert.Error(t, err)
}
