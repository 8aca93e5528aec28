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

// Zendesk event bus bridge: replay command
//
// Standalone CLI tool that re-sends captured Zendesk webhook bodies to the
// event bus, bypassing authentication. Intended for recovering from bus
// outages.
//
// Usage:
//
//	go run ./cmd/replay/ [--dry-run] [--concurrency 4] [--rate 10] <file-or-dir>...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/gataworks/zendesk-eventbus/internal/config"
	"github.com/gataworks/zendesk-eventbus/internal/dedup"
	"github.com/gataworks/zendesk-eventbus/internal/eventbus"
	"github.com/gataworks/zendesk-eventbus/internal/pipeline"
	"github.com/gataworks/zendesk-eventbus/internal/queue"
	"github.com/gataworks/zendesk-eventbus/internal/replay"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// --- CLI Flags ---
	dryRun := flag.Bool("dry-run", false, "Decode and print records without sending them")
	concurrency := flag.Int("concurrency", 4, "Files replayed in parallel")
	ratePerSec := flag.Float64("rate", 0, "Maximum dispatches per second (0 = unlimited)")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: at least one file or directory is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	sender, cleanup, err := buildSender(ctx, cfg, *dryRun)
	if err != nil {
		slog.Error("failed to connect to event bus", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	proc, err := pipeline.NewProcessor(pipeline.Config{
		Sender:       sender,
		EventBusName: cfg.EventBusName,
		Logger:       logger,
	})
	if err != nil {
		slog.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	// --- Run Replay ---
	runner := replay.NewRunner(replay.RunnerConfig{
		Processor:     proc,
		DryRun:        *dryRun,
		Concurrency:   *concurrency,
		RatePerSecond: *ratePerSec,
	})

	result, err := runner.Run(ctx, flag.Args())
	if err != nil {
		slog.Error("replay failed", "error", err)
		os.Exit(1)
	}

	// --- Summary ---
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, fr := range result.Files {
		if fr.Err != nil {
			slog.Warn("file result", "path", fr.Path, "error", fr.Err)
			continue
		}
		if *dryRun {
			if err := enc.Encode(fr.Record); err != nil {
				slog.Error("failed to print record", "path", fr.Path, "error", err)
			}
		}
	}

	if result.TotalFail > 0 {
		os.Exit(2)
	}
}

// buildSender connects the configured transport. Dry runs never dispatch,
// so they get a sender that refuses every record.
func buildSender(ctx context.Context, cfg *config.Config, dryRun bool) (eventbus.Sender, func(), error) {
	if dryRun {
		return refuseSender{}, func() {}, nil
	}

	var rdb *redis.Client
	if cfg.Transport == config.TransportRedis || cfg.DedupEnabled {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
	}

	closeRedis := func() {
		if rdb != nil {
			rdb.Close()
		}
	}

	var sender eventbus.Sender
	cleanup := closeRedis
	switch cfg.Transport {
	case config.TransportAMQP:
		pub, err := queue.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			closeRedis()
			return nil, nil, err
		}
		sender = pub
		cleanup = func() {
			pub.Close()
			closeRedis()
		}
	default:
		sender = queue.NewRedisPublisher(rdb, cfg.RedisPrefix)
	}

	if cfg.DedupEnabled {
		sender = dedup.NewSender(sender, rdb, cfg.DedupTTL)
	}

	return sender, cleanup, nil
}

type refuseSender struct{}

func (refuseSender) Send(context.Context, eventbus.Record) error {
	return errors.New("dry run: refusing to send")
}
