package continuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raaf-ai/raaf-sub009/merge"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:   "max attempts at ceiling",
			mutate: func(c *Config) { c.MaxAttempts = MaxAttemptsCeiling },
		},
		{
			name:   "single attempt disables continuation",
			mutate: func(c *Config) { c.MaxAttempts = 1 },
		},
		{
			name:    "zero attempts",
			mutate:  func(c *Config) { c.MaxAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "attempts above ceiling",
			mutate:  func(c *Config) { c.MaxAttempts = MaxAttemptsCeiling + 1 },
			wantErr: true,
		},
		{
			name:    "negative attempts",
			mutate:  func(c *Config) { c.MaxAttempts = -1 },
			wantErr: true,
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.OutputFormat = OutputFormat("csv") },
			wantErr: true,
		},
		{
			name:    "unknown on_failure",
			mutate:  func(c *Config) { c.OnFailure = OnFailure("explode") },
			wantErr: true,
		},
		{
			name:   "merge strategy override",
			mutate: func(c *Config) { c.MergeStrategy = "concat" },
		},
		{
			name:    "unknown merge strategy",
			mutate:  func(c *Config) { c.MergeStrategy = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			err := config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_MergeStrategyAcceptsEveryDispatchableStrategy(t *testing.T) {
	// Validation defers to the merge package's strategy table, so any
	// strategy a merger exists for is a valid override.
	strategies := []merge.Strategy{
		merge.StrategyTabular,
		merge.StrategyMarkup,
		merge.StrategyJSON,
		merge.StrategyConcat,
	}
	for _, strategy := range strategies {
		config := DefaultConfig()
		config.MergeStrategy = string(strategy)
		assert.NoError(t, config.Validate(), string(strategy))
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 10, config.MaxAttempts)
	assert.Equal(t, FormatAuto, config.OutputFormat)
	assert.Equal(t, OnFailureReturnPartial, config.OnFailure)
	assert.Empty(t, config.MergeStrategy)
}

func TestLoadConfig(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		config, err := LoadConfig([]byte(`
max_attempts: 5
output_format: tabular
on_failure: raise_error
`))
		require.NoError(t, err)
		assert.Equal(t, 5, config.MaxAttempts)
		assert.Equal(t, FormatTabular, config.OutputFormat)
		assert.Equal(t, OnFailureRaiseError, config.OnFailure)
	})

	t.Run("omitted fields keep defaults", func(t *testing.T) {
		config, err := LoadConfig([]byte(`output_format: json`))
		require.NoError(t, err)
		assert.Equal(t, 10, config.MaxAttempts)
		assert.Equal(t, FormatJSON, config.OutputFormat)
		assert.Equal(t, OnFailureReturnPartial, config.OnFailure)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		_, err := LoadConfig([]byte(`max_attempts: 100`))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		_, err := LoadConfig([]byte(`max_attempts: [not a number`))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
