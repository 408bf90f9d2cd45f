package continuation

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/raaf-ai/raaf-sub009/merge"
)

// OutputFormat declares the format of the content the caller expects the
// model to produce. It drives both continuation prompt construction and
// merger selection.
type OutputFormat string

const (
	// FormatTabular is delimiter-separated tabular text (CSV-style, comma
	// or pipe delimited).
	FormatTabular OutputFormat = "tabular"

	// FormatMarkup is structured markup (markdown headers, tables, lists,
	// fenced code blocks).
	FormatMarkup OutputFormat = "markup"

	// FormatJSON is a JSON document (object or array).
	FormatJSON OutputFormat = "json"

	// FormatAuto defers format selection to content detection.
	FormatAuto OutputFormat = "auto"
)

// OnFailure selects the outward behavior when merging does not reach full
// structural success.
type OnFailure string

const (
	// OnFailureReturnPartial returns the best-effort content with error
	// metadata. Callers never receive an error for merge failures.
	OnFailureReturnPartial OnFailure = "return_partial"

	// OnFailureRaiseError surfaces merge failures as a [ContinuationError]
	// carrying the failing chunk index, format, and strategy.
	OnFailureRaiseError OnFailure = "raise_error"
)

// MaxAttemptsCeiling is the largest permitted MaxAttempts value.
const MaxAttemptsCeiling = 50

// Config holds configuration for a continuation session. It is treated as
// immutable once a session starts; mutate a copy, not a live session's
// config.
type Config struct {
	// MaxAttempts is the maximum number of completion requests issued per
	// session, including the initial request. Must be in 1..50.
	MaxAttempts int `yaml:"max_attempts"`

	// OutputFormat is the expected content format. [FormatAuto] enables
	// content detection.
	OutputFormat OutputFormat `yaml:"output_format"`

	// OnFailure selects partial-result vs error behavior on merge failure.
	OnFailure OnFailure `yaml:"on_failure"`

	// MergeStrategy optionally overrides merger selection entirely. One of
	// "tabular", "markup", "json", "concat". Empty means no override.
	MergeStrategy string `yaml:"merge_strategy"`
}

// DefaultConfig returns a config with sensible defaults: 10 attempts,
// automatic format detection, partial results on merge failure.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  10,
		OutputFormat: FormatAuto,
		OnFailure:    OnFailureReturnPartial,
	}
}

// Validate checks the config against its allowed ranges.
func (c Config) Validate() error {
	if c.MaxAttempts <= 0 || c.MaxAttempts > MaxAttemptsCeiling {
		return fmt.Errorf(
			"%w: max_attempts must be in 1..%d, got %d",
			ErrInvalidConfig, MaxAttemptsCeiling, c.MaxAttempts)
	}
	switch c.OutputFormat {
	case FormatTabular, FormatMarkup, FormatJSON, FormatAuto:
	default:
		return fmt.Errorf(
			"%w: unknown output_format %q", ErrInvalidConfig, c.OutputFormat)
	}
	switch c.OnFailure {
	case OnFailureReturnPartial, OnFailureRaiseError:
	default:
		return fmt.Errorf(
			"%w: unknown on_failure %q", ErrInvalidConfig, c.OnFailure)
	}
	if c.MergeStrategy != "" {
		if _, ok := merge.ForStrategy(merge.Strategy(c.MergeStrategy)); !ok {
			return fmt.Errorf(
				"%w: unknown merge_strategy %q", ErrInvalidConfig, c.MergeStrategy)
		}
	}
	return nil
}

// LoadConfig parses a YAML document into a Config. Omitted fields take
// their defaults. The result is validated before being returned.
func LoadConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
