package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Valid(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
redis:
  addr: "127.0.0.1:6379"
cursor_key: /cursor/changenumber
sts:
  grace_period: 24h
  keys:
    k1:
      secret: "s1"
      primary: true
    k0:
      secret: "s0"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.STS.GracePeriod)
	assert.True(t, cfg.STS.Keys["k1"].Primary)
	assert.False(t, cfg.STS.Keys["k0"].Primary)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing redis addr",
			cfg:     Config{CursorKey: "x", STS: STSConfig{Keys: map[string]STSKeyConfig{"a": {Secret: "s", Primary: true}}}},
			wantErr: "redis.addr",
		},
		{
			name:    "missing cursor key",
			cfg:     Config{Redis: RedisConfig{Addr: "x"}, STS: STSConfig{Keys: map[string]STSKeyConfig{"a": {Secret: "s", Primary: true}}}},
			wantErr: "cursor_key",
		},
		{
			name:    "no keys",
			cfg:     Config{Redis: RedisConfig{Addr: "x"}, CursorKey: "y"},
			wantErr: "at least one signing key",
		},
		{
			name: "no primary",
			cfg: Config{Redis: RedisConfig{Addr: "x"}, CursorKey: "y", STS: STSConfig{
				Keys: map[string]STSKeyConfig{"a": {Secret: "s"}},
			}},
			wantErr: "exactly one key",
		},
		{
			name: "two primaries",
			cfg: Config{Redis: RedisConfig{Addr: "x"}, CursorKey: "y", STS: STSConfig{
				Keys: map[string]STSKeyConfig{
					"a": {Secret: "s1", Primary: true},
					"b": {Secret: "s2", Primary: true},
				},
			}},
			wantErr: "exactly one key",
		},
		{
			name: "empty secret",
			cfg: Config{Redis: RedisConfig{Addr: "x"}, CursorKey: "y", STS: STSConfig{
				Keys: map[string]STSKeyConfig{"a": {Primary: true}},
			}},
			wantErr: "secret is required",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
