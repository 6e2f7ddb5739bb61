// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

package config

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func loadConfig(t *testing.T, args ...string) *Config {
	t.Helper()
	var cfg *Config
	cmd := &cli.Command{
		Flags: Flags(),
		Action: func(_ context.Context, c *cli.Command) error {
			cfg = NewFromCLI(c)
			return nil
		},
	}
	err := cmd.Run(context.Background(), append([]string{"test"}, args...))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := loadConfig(t)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenLifetime)
	assert.Equal(t, 300*time.Second, cfg.Auth.OTPTTL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.SMTP.Host)
}

func TestFlagsOverrideDefaults(t *testing.T) {
	cfg := loadConfig(t,
		"--port", "9090",
		"--otp-ttl", "60",
		"--token-lifetime", "1",
		"--redis-url", "redis://localhost:6379/0",
	)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Auth.OTPTTL)
	assert.Equal(t, time.Hour, cfg.Auth.TokenLifetime)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestSigningKey_Configured(t *testing.T) {
	key := make([]byte, SigningKeyLen)
	for i := range key {
		key[i] = byte(i)
	}
	cfg := &Config{Auth: AuthConfig{SigningKey: hex.EncodeToString(key)}}

	got, generated, err := cfg.SigningKey()

	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, key, got)
}

func TestSigningKey_Empty(t *testing.T) {
	cfg := &Config{}

	key, generated, err := cfg.SigningKey()

	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, key, SigningKeyLen)

	// A second call yields a different random key
	other, _, err := cfg.SigningKey()
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestSigningKey_NotHex(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{SigningKey: "zz"}}

	_, _, err := cfg.SigningKey()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid hex")
}

func TestSigningKey_WrongLength(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{SigningKey: "deadbeef"}}

	_, _, err := cfg.SigningKey()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be 32 bytes")
}
