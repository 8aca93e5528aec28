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

// Zendesk event bus bridge
//
// Entry point for the webhook service. It:
//  1. Loads configuration from .env, config.yaml and the environment
//  2. Connects to Redis, PostgreSQL and RabbitMQ as the config requires
//  3. Builds the credential source and the bus sender
//  4. Serves the Zendesk webhook endpoint with a health check
//  5. Handles graceful shutdown on SIGTERM/SIGINT
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gataworks/zendesk-eventbus/internal/auth"
	"github.com/gataworks/zendesk-eventbus/internal/config"
	"github.com/gataworks/zendesk-eventbus/internal/dedup"
	"github.com/gataworks/zendesk-eventbus/internal/eventbus"
	"github.com/gataworks/zendesk-eventbus/internal/pipeline"
	"github.com/gataworks/zendesk-eventbus/internal/queue"
	"github.com/gataworks/zendesk-eventbus/internal/webhook"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting zendesk event bus bridge",
		"event_bus", cfg.EventBusName,
		"transport", cfg.Transport,
		"credentials", cfg.CredentialsSource,
		"dedup", cfg.DedupEnabled,
	)

	if err := cfg.RequireStaticCredentials(); err != nil {
		slog.Error("invalid credential configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var checks []func(context.Context) error

	// --- Connect to Redis ---
	var rdb *redis.Client
	var redisPub *queue.RedisPublisher
	if cfg.Transport == config.TransportRedis || cfg.CredentialsSource == config.CredentialsRedis || cfg.DedupEnabled {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()

		ping := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		if cfg.Transport == config.TransportRedis {
			redisPub = queue.NewRedisPublisher(rdb, cfg.RedisPrefix)
			ping = redisPub.Ping
		}

		if err := ping(ctx); err != nil {
			slog.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to Redis")
		checks = append(checks, ping)
	}

	// --- Credential Source ---
	var source auth.Source
	switch cfg.CredentialsSource {
	case config.CredentialsStatic:
		source = auth.StaticSource(configuredCredentials(cfg))

	case config.CredentialsRedis:
		source = auth.NewRedisSource(rdb, cfg.CredentialsKeyPrefix)

	case config.CredentialsPostgres:
		pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create Postgres pool", "error", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		if err := pgPool.Ping(ctx); err != nil {
			slog.Error("failed to connect to PostgreSQL", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to PostgreSQL")

		pgSource, err := auth.NewPostgresSource(ctx, pgPool)
		if err != nil {
			slog.Error("failed to initialise credential store", "error", err)
			os.Exit(1)
		}
		if cfg.SeedCredentials {
			if err := pgSource.Seed(ctx, configuredCredentials(cfg)); err != nil {
				slog.Error("failed to seed credential store", "error", err)
				os.Exit(1)
			}
		}
		source = pgSource
		checks = append(checks, pgPool.Ping)
	}

	cached, err := auth.NewCachedSource(source, cfg.CredentialsCacheSize)
	if err != nil {
		slog.Error("failed to create credential cache", "error", err)
		os.Exit(1)
	}
	authenticator := auth.NewAuthenticator(cached, cfg.CredentialsParam)

	// --- Bus Sender ---
	var sender eventbus.Sender
	switch cfg.Transport {
	case config.TransportRedis:
		sender = redisPub

	case config.TransportAMQP:
		amqpPub, err := queue.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			slog.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer amqpPub.Close()
		slog.Info("connected to RabbitMQ")
		sender = amqpPub
	}

	// --- Dedup Filter ---
	if cfg.DedupEnabled {
		sender = dedup.NewSender(sender, rdb, cfg.DedupTTL)
	}

	// --- Pipeline ---
	proc, err := pipeline.NewProcessor(pipeline.Config{
		Auth:         authenticator,
		Sender:       sender,
		EventBusName: cfg.EventBusName,
		Logger:       logger,
	})
	if err != nil {
		slog.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	// --- Webhook Server ---
	health := func(ctx context.Context) error {
		var errs []error
		for _, check := range checks {
			errs = append(errs, check(ctx))
		}
		return errors.Join(errs...)
	}

	router := webhook.NewRouter(webhook.NewHandler(proc, cfg.MaxBodyBytes), webhook.RouterOptions{
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
		Health:    health,
	})

	ready, done, err := webhook.Serve(ctx, cfg.Port, router, cfg.ShutdownTimeout)
	if err != nil {
		slog.Error("failed to start webhook server", "error", err)
		os.Exit(1)
	}
	<-ready

	// --- Graceful Shutdown ---
	<-ctx.Done()
	slog.Info("received shutdown signal")
	<-done
	slog.Info("zendesk event bus bridge stopped")
}

// configuredCredentials converts the credentials named in configuration.
func configuredCredentials(cfg *config.Config) map[string]auth.Credentials {
	creds := make(map[string]auth.Credentials, len(cfg.StaticCredentials))
	for name, c := range cfg.StaticCredentials {
		creds[name] = auth.Credentials{Username: c.Username, Password: c.Password}
	}
	return creds
}
