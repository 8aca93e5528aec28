// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Bus transports.
const (
	TransportRedis = "redis"
	TransportAMQP  = "amqp"
)

// Credential sources.
const (
	CredentialsStatic   = "static"
	CredentialsRedis    = "redis"
	CredentialsPostgres = "postgres"
)

// Credentials is a username/password pair supplied through configuration.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config holds all configuration for the webhook bridge.
type Config struct {
	// Event bus
	EventBusName string
	Transport    string
	RedisURL     string
	RedisPrefix  string
	AMQPURL      string
	DedupEnabled bool
	DedupTTL     time.Duration

	// Credentials
	CredentialsParam     string
	CredentialsSource    string
	CredentialsKeyPrefix string
	CredentialsCacheSize int
	StaticCredentials    map[string]Credentials
	DatabaseURL          string
	// SeedCredentials copies StaticCredentials into the postgres store at startup.
	SeedCredentials bool

	// Server
	Port            int
	MaxBodyBytes    int64
	RateLimit       float64
	RateBurst       int
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	EventBus struct {
		Name      string `yaml:"name"`
		Transport string `yaml:"transport"`
	} `yaml:"event_bus"`
	Redis struct {
		URL    string `yaml:"url"`
		Prefix string `yaml:"prefix"`
	} `yaml:"redis"`
	AMQP struct {
		URL string `yaml:"url"`
	} `yaml:"amqp"`
	Dedup struct {
		Enabled *bool  `yaml:"enabled"`
		TTL     string `yaml:"ttl"`
	} `yaml:"dedup"`
	Credentials struct {
		Param     string                 `yaml:"param"`
		Source    string                 `yaml:"source"`
		KeyPrefix string                 `yaml:"key_prefix"`
		CacheSize int                    `yaml:"cache_size"`
		Static    map[string]Credentials `yaml:"static"`
		Seed      *bool                  `yaml:"seed"`
	} `yaml:"credentials"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Server struct {
		Port         int     `yaml:"port"`
		MaxBodyBytes int64   `yaml:"max_body_bytes"`
		RateLimit    float64 `yaml:"rate_limit"`
		RateBurst    int     `yaml:"rate_burst"`
	} `yaml:"server"`
	LogLevel string `yaml:"log_level"`
}

// Load reads .env (if present), then config.yaml (with env var expansion,
// optional), then environment variables for anything the YAML leaves empty.
func Load() (*Config, error) {
	if err := godotenv.Load(envOrDefault("DOTENV_PATH", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	configPath := envOrDefault("CONFIG_PATH", "/app/config/config.yaml")

	var raw rawConfig
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no config file, using environment only", "path", configPath)
	case err != nil:
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	default:
		// Expand ${VAR} references in the YAML
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config YAML: %w", err)
		}
	}

	cfg := &Config{
		EventBusName: firstNonEmpty(raw.EventBus.Name, os.Getenv("EVENT_BUS_NAME")),
		Transport:    strings.ToLower(firstNonEmpty(raw.EventBus.Transport, envOrDefault("BUS_TRANSPORT", TransportRedis))),
		RedisURL:     firstNonEmpty(raw.Redis.URL, envOrDefault("REDIS_URL", "redis://localhost:6379/0")),
		RedisPrefix:  firstNonEmpty(raw.Redis.Prefix, envOrDefault("REDIS_BUS_PREFIX", "eventbus:")),
		AMQPURL:      firstNonEmpty(raw.AMQP.URL, os.Getenv("AMQP_URL")),
		DedupEnabled: envOrDefaultBool("DEDUP_ENABLED", true),
		DedupTTL:     envOrDefaultDuration("DEDUP_TTL", 24*time.Hour),

		CredentialsParam:     firstNonEmpty(raw.Credentials.Param, envOrDefault("CREDENTIALS_PARAM_PATH", "/zendesk/webhook")),
		CredentialsSource:    strings.ToLower(firstNonEmpty(raw.Credentials.Source, envOrDefault("CREDENTIALS_SOURCE", CredentialsStatic))),
		CredentialsKeyPrefix: firstNonEmpty(raw.Credentials.KeyPrefix, envOrDefault("CREDENTIALS_KEY_PREFIX", "credentials:")),
		CredentialsCacheSize: firstPositive(raw.Credentials.CacheSize, envOrDefaultInt("CREDENTIALS_CACHE_SIZE", 16)),
		StaticCredentials:    make(map[string]Credentials),
		DatabaseURL:          firstNonEmpty(raw.Postgres.URL, os.Getenv("DATABASE_URL")),
		SeedCredentials:      envOrDefaultBool("CREDENTIALS_SEED", false),

		Port:            firstPositive(raw.Server.Port, envOrDefaultInt("PORT", 8080)),
		MaxBodyBytes:    int64(firstPositive(int(raw.Server.MaxBodyBytes), envOrDefaultInt("MAX_BODY_BYTES", 1<<20))),
		RateLimit:       envOrDefaultFloat("RATE_LIMIT", 50),
		RateBurst:       firstPositive(raw.Server.RateBurst, envOrDefaultInt("RATE_BURST", 100)),
		ShutdownTimeout: envOrDefaultDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if raw.Server.RateLimit > 0 {
		cfg.RateLimit = raw.Server.RateLimit
	}
	if raw.Credentials.Seed != nil {
		cfg.SeedCredentials = *raw.Credentials.Seed
	}
	if raw.Dedup.Enabled != nil {
		cfg.DedupEnabled = *raw.Dedup.Enabled
	}
	if raw.Dedup.TTL != "" {
		ttl, err := time.ParseDuration(raw.Dedup.TTL)
		if err != nil {
			return nil, fmt.Errorf("parse dedup.ttl: %w", err)
		}
		cfg.DedupTTL = ttl
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(firstNonEmpty(raw.LogLevel, envOrDefault("LOG_LEVEL", "info")))); err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	for name, creds := range raw.Credentials.Static {
		// Skip entries whose ${VAR} references expanded to nothing.
		if creds.Username == "" || creds.Password == "" {
			continue
		}
		cfg.StaticCredentials[name] = creds
	}
	if user, pass := os.Getenv("WEBHOOK_USERNAME"), os.Getenv("WEBHOOK_PASSWORD"); user != "" && pass != "" {
		cfg.StaticCredentials[cfg.CredentialsParam] = Credentials{Username: user, Password: pass}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.EventBusName == "" {
		return errors.New("EVENT_BUS_NAME is required; set event_bus.name in config.yaml or the environment")
	}

	switch c.Transport {
	case TransportRedis:
	case TransportAMQP:
		if c.AMQPURL == "" {
			return errors.New("AMQP_URL is required when the bus transport is amqp")
		}
	default:
		return fmt.Errorf("unknown bus transport %q", c.Transport)
	}

	switch c.CredentialsSource {
	case CredentialsStatic, CredentialsRedis:
	case CredentialsPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when credentials come from postgres")
		}
	default:
		return fmt.Errorf("unknown credentials source %q", c.CredentialsSource)
	}

	return nil
}

// RequireStaticCredentials fails when the static source has no entry for
// the configured parameter.
func (c *Config) RequireStaticCredentials() error {
	if c.CredentialsSource != CredentialsStatic {
		return nil
	}
	if _, ok := c.StaticCredentials[c.CredentialsParam]; !ok {
		return fmt.Errorf("no static credentials for %s; set WEBHOOK_USERNAME and WEBHOOK_PASSWORD", c.CredentialsParam)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
