// Package config loads the YAML configuration for the replicator: the
// Redis connection, the STS signing-key store, and the changelog cursor
// key. It does not cover the directory-client or HTTP-endpoint
// configuration, both of which are external collaborators (spec.md §1).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level replicator configuration file shape.
type Config struct {
	Redis      RedisConfig `yaml:"redis"`
	STS        STSConfig   `yaml:"sts"`
	CursorKey  string      `yaml:"cursor_key"`
}

// RedisConfig describes how to connect to the KV store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// STSConfig describes the signing-key store used by pkg/sts.
type STSConfig struct {
	// GracePeriod is how long a superseded signing key keeps validating
	// tokens issued under it (spec.md §4.5, §8 property 14).
	GracePeriod time.Duration `yaml:"grace_period"`
	// Issuer/Audience, if non-empty, are checked on every verified token.
	Issuer   string `yaml:"issuer,omitempty"`
	Audience string `yaml:"audience,omitempty"`
	// Keys is the initial key set, keyed by keyId. Exactly one entry
	// must have Primary: true.
	Keys map[string]STSKeyConfig `yaml:"keys"`
}

// STSKeyConfig is one signing key as read from the config file.
type STSKeyConfig struct {
	Secret  string `yaml:"secret"`
	Primary bool   `yaml:"primary,omitempty"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks required fields and invariants that aren't otherwise
// caught by the zero-value YAML defaults.
func (c *Config) Validate() error {
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.CursorKey == "" {
		return fmt.Errorf("cursor_key is required")
	}
	if len(c.STS.Keys) == 0 {
		return fmt.Errorf("sts.keys: at least one signing key is required")
	}

	primaryCount := 0
	for id, k := range c.STS.Keys {
		if k.Secret == "" {
			return fmt.Errorf("sts.keys[%s]: secret is required", id)
		}
		if k.Primary {
			primaryCount++
		}
	}
	if primaryCount != 1 {
		return fmt.Errorf("sts.keys: exactly one key must be marked primary, found %d", primaryCount)
	}

	return nil
}
