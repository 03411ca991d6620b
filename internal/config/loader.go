package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Precedence (low -> high):
//  1. defaults (New)
//  2. YAML file named by NBA_MCP_CONFIG
//  3. env vars with prefix NBA_MCP_ (NBA_MCP_ADDR -> addr, ...)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("NBA_MCP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	envProvider := env.Provider("NBA_MCP_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "nba_mcp_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Transport {
	case "http", "stdio":
	default:
		return fmt.Errorf("%w: transport must be http or stdio, got %q", ErrInvalidConfig, c.Transport)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("%w: retry_attempts must be >= 1", ErrInvalidConfig)
	}
	if c.ShiftWorkers < 1 {
		return fmt.Errorf("%w: shift_workers must be >= 1", ErrInvalidConfig)
	}
	if c.RequestTimeoutSecs < 1 {
		return fmt.Errorf("%w: request_timeout_secs must be >= 1", ErrInvalidConfig)
	}
	return nil
}
