package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FLEETBOARD_CONFIG is set
//  3. env (prefix FLEETBOARD_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("FLEETBOARD_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FLEETBOARD_ADDR, FLEETBOARD_JOIN_KEY, ...
	// Flat keys keep their underscores to match the koanf tags; a double
	// underscore descends into a nested block, e.g.
	// FLEETBOARD_SAMSARA__API_TOKEN -> samsara.api_token.
	envProvider := env.Provider("FLEETBOARD_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "fleetboard_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate enforces the invariants the rest of the process relies on.
func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.JoinKey) == "" {
		return fmt.Errorf("%w: join_key must not be empty", ErrInvalidConfig)
	}
	switch cfg.JoinKind {
	case "inner", "left", "right", "outer":
	default:
		return fmt.Errorf("%w: join_kind %q is not one of inner, left, right, outer", ErrInvalidConfig, cfg.JoinKind)
	}
	if cfg.MaxPreviewRows < 1 {
		return fmt.Errorf("%w: max_preview_rows must be positive", ErrInvalidConfig)
	}
	return nil
}
