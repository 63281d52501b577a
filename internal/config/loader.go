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

// Load builds a Config by layering, low to high:
//  1. defaults (Default)
//  2. YAML file at path, if path is non-empty
//  3. environment variables with the ALMAGEST_ prefix
//
// Env keys map flat: ALMAGEST_ASPECT_ORB -> aspect_orb.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	envProvider := env.Provider("ALMAGEST_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ALMAGEST_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the generator cannot run with.
func (c *Config) Validate() error {
	if err := c.Interval().Validate(); err != nil {
		return err
	}
	switch c.OutputMode {
	case "ics", "json", "sqlite":
	default:
		return fmt.Errorf("unknown output mode %q", c.OutputMode)
	}
	if c.AspectOrb <= 0 {
		return fmt.Errorf("aspect orb must be positive, got %g", c.AspectOrb)
	}
	if c.ObserverLat < -90 || c.ObserverLat > 90 {
		return fmt.Errorf("observer latitude %g out of range", c.ObserverLat)
	}
	if c.ObserverLon < -180 || c.ObserverLon > 180 {
		return fmt.Errorf("observer longitude %g out of range", c.ObserverLon)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
