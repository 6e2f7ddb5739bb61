// Copyright 2026 Fernwerk Labs
// Licensed under the EUPL-1.2

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

// SigningKeyLen is the required length of the JWT signing key in bytes.
const SigningKeyLen = 32

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host string
	Port int
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type RedisConfig struct {
	// URL of the TTL store, e.g. redis://localhost:6379/0.
	// Empty selects the in-process memory store.
	URL string
}

type AuthConfig struct { //nolint:govet // fieldalignment not critical
	SigningKey    string        // 32-byte hex string for JWT HMAC signing
	TokenLifetime time.Duration // session token validity
	OTPTTL        time.Duration // passcode validity
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

func NewFromCLI(cmd *cli.Command) *Config {
	return &Config{
		Server: ServerConfig{
			Host: cmd.String("host"),
			Port: int(cmd.Int("port")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		Redis: RedisConfig{
			URL: cmd.String("redis-url"),
		},
		Auth: AuthConfig{
			SigningKey:    cmd.String("signing-key"),
			TokenLifetime: time.Duration(cmd.Int("token-lifetime")) * time.Hour,
			OTPTTL:        time.Duration(cmd.Int("otp-ttl")) * time.Second,
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
	}
}

// SigningKey decodes the configured hex signing key. An empty value yields
// a fresh random key; issued tokens then stop verifying after a restart,
// which is acceptable only in development.
func (c *Config) SigningKey() ([]byte, bool, error) {
	if c.Auth.SigningKey == "" {
		key := make([]byte, SigningKeyLen)
		if _, err := rand.Read(key); err != nil {
			return nil, false, fmt.Errorf("generating signing key: %w", err)
		}
		return key, true, nil
	}

	key, err := hex.DecodeString(c.Auth.SigningKey)
	if err != nil {
		return nil, false, fmt.Errorf("signing key is not valid hex: %w", err)
	}
	if len(key) != SigningKeyLen {
		return nil, false, fmt.Errorf("signing key must be %d bytes, got %d", SigningKeyLen, len(key))
	}
	return key, false, nil
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/authgate.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "Redis URL for the passcode store (empty uses an in-process store)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_URL"), toml.TOML("redis.url", configFile)),
		},
		&cli.StringFlag{
			Name:    "signing-key",
			Usage:   "JWT signing key (32-byte hex, auto-generated if empty in dev)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SIGNING_KEY"), toml.TOML("auth.signing_key", configFile)),
		},
		&cli.IntFlag{
			Name:    "token-lifetime",
			Value:   24,
			Usage:   "Session token lifetime in hours",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TOKEN_LIFETIME"), toml.TOML("auth.token_lifetime", configFile)),
		},
		&cli.IntFlag{
			Name:    "otp-ttl",
			Value:   300,
			Usage:   "Passcode time-to-live in seconds",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OTP_TTL"), toml.TOML("auth.otp_ttl", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP host for passcode delivery (empty logs passcodes instead)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "SMTP from address",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Usage:   "SMTP from display name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
	}
}
