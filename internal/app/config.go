package app

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/specialistvlad/ginflatgo/internal/encode"
)

// Config holds all the necessary configuration for an App instance to run.
// Fields left at their zero value by one layer are filled by the next.
type Config struct {
	// EntryPath is the entry fragment, relative to Root. Required unless
	// Check is set.
	EntryPath string
	// Root is the search root against which every fragment path (the entry
	// and all includes) is resolved.
	Root string `env:"GINFLAT_ROOT"`
	// Output selects the encoder: gin, json or yaml.
	Output string `env:"GINFLAT_OUTPUT"`
	// Strict rejects keys re-bound at a different type across fragments.
	Strict bool `env:"GINFLAT_STRICT"`
	// MaxDepth bounds include nesting; 0 disables the bound.
	MaxDepth int `env:"GINFLAT_MAX_DEPTH"`
	// Check parses every fragment under Root instead of resolving one entry.
	Check bool

	LogFormat string `env:"GINFLAT_LOG_FORMAT"`
	LogLevel  string `env:"GINFLAT_LOG_LEVEL"`
}

// NewConfig layers the flag-provided configuration over environment
// variables and built-in defaults, earlier layers winning, then validates
// the result.
func NewConfig(flags Config) (*Config, error) {
	var envCfg Config
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("reading configuration from environment: %w", err)
	}

	config := flags
	for _, layer := range []Config{envCfg, defaults()} {
		if err := mergo.Merge(&config, layer); err != nil {
			return nil, fmt.Errorf("merging configuration layers: %w", err)
		}
	}

	return &config, config.validate()
}

// defaults is the lowest-precedence configuration layer.
func defaults() Config {
	return Config{
		Root:      ".",
		Output:    encode.FormatGin,
		LogFormat: "text",
		LogLevel:  "warn",
	}
}

func (c *Config) validate() error {
	if c.EntryPath == "" && !c.Check {
		return errors.New("an entry fragment path is required")
	}
	switch c.Output {
	case encode.FormatGin, encode.FormatJSON, encode.FormatYAML:
	default:
		return fmt.Errorf("invalid output format %q: must be 'gin', 'json' or 'yaml'", c.Output)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max-depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}
