package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, 256, cfg.YieldEvery)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid filters",
			mutate: func(c *Config) { c.Assemblies.Include = []string{"Game"} },
		},
		{
			name: "substring both included and excluded",
			mutate: func(c *Config) {
				c.Assemblies.Include = []string{"Game"}
				c.Assemblies.Exclude = []string{"Game"}
			},
			wantErr: "both included and excluded",
		},
		{
			name:    "empty include substring",
			mutate:  func(c *Config) { c.Assemblies.Include = []string{"  "} },
			wantErr: "empty substring",
		},
		{
			name:    "empty exclude substring",
			mutate:  func(c *Config) { c.Assemblies.Exclude = []string{""} },
			wantErr: "empty substring",
		},
		{
			name:    "empty type name",
			mutate:  func(c *Config) { c.TypeAllowList = []string{""} },
			wantErr: "empty name",
		},
		{
			name:    "negative yield",
			mutate:  func(c *Config) { c.YieldEvery = -1 },
			wantErr: "yield_every",
		},
		{
			name:    "negative penalty",
			mutate:  func(c *Config) { c.ScorePenalty = -1 },
			wantErr: "score_penalty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var ice *InvalidConfigError
			require.ErrorAs(t, err, &ice)
			assert.NotEmpty(t, ice.Reasons)
		})
	}
}

func TestValidateCollectsAllReasons(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Assemblies.Include = []string{"Game"}
	cfg.Assemblies.Exclude = []string{"Game"}
	cfg.YieldEvery = -1

	err := cfg.Validate()
	var ice *InvalidConfigError
	require.ErrorAs(t, err, &ice)
	assert.Len(t, ice.Reasons, 2)
}

func TestLoadFromReader(t *testing.T) {
	t.Parallel()

	t.Run("full document", func(t *testing.T) {
		t.Parallel()
		doc := `
assemblies:
  include: [Game]
  exclude: [Tests]
types:
  - Game.Player
stop_on_first_violation: true
filter: kind == "method"
yield_every: 64
score_penalty: 10
`
		cfg, err := LoadFromReader(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, []string{"Game"}, cfg.Assemblies.Include)
		assert.Equal(t, []string{"Tests"}, cfg.Assemblies.Exclude)
		assert.Equal(t, []string{"Game.Player"}, cfg.TypeAllowList)
		assert.True(t, cfg.StopOnFirstViolation)
		assert.Equal(t, `kind == "method"`, cfg.FilterExpr)
		assert.Equal(t, 64, cfg.YieldEvery)
		assert.Equal(t, 10, cfg.ScorePenalty)
	})

	t.Run("empty document keeps defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFromReader(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, 256, cfg.YieldEvery)
	})

	t.Run("whitespace-only document keeps defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := LoadFromReader(strings.NewReader("\n  \n\t\n"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFromReader(strings.NewReader("assemblies: ["))
		assert.Error(t, err)
	})

	t.Run("contradictory document is rejected", func(t *testing.T) {
		t.Parallel()
		doc := `
assemblies:
  include: [Game]
  exclude: [Game]
`
		_, err := LoadFromReader(strings.NewReader(doc))
		var ice *InvalidConfigError
		assert.ErrorAs(t, err, &ice)
	})
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/stubsift.yaml")
	assert.Error(t, err)
}
