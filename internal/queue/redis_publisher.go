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

// Package queue delivers outbound bus records to a message broker. Each
// publisher implements eventbus.Sender and makes exactly one attempt per
// record.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gataworks/zendesk-eventbus/internal/eventbus"
)

// DefaultRedisPrefix namespaces bus lists in Redis.
const DefaultRedisPrefix = "eventbus:"

// redisLister is the subset of *redis.Client used by RedisPublisher.
type redisLister interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisPublisher pushes records onto a Redis list named after the bus.
// Consumers BRPOP the list, so records are read in arrival order.
type RedisPublisher struct {
	rdb    redisLister
	prefix string
}

// NewRedisPublisher creates a publisher writing to lists under prefix.
func NewRedisPublisher(rdb *redis.Client, prefix string) *RedisPublisher {
	return &RedisPublisher{
		rdb:    rdb,
		prefix: prefix,
	}
}

// Send implements eventbus.Sender.
func (p *RedisPublisher) Send(ctx context.Context, rec eventbus.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	list := p.prefix + rec.EventBusName
	if err := p.rdb.LPush(ctx, list, string(body)).Err(); err != nil {
		return fmt.Errorf("redis LPUSH: %w", err)
	}

	slog.Info("published record to bus",
		"list", list,
		"detail_type", rec.DetailType,
		"resource", rec.Resources,
	)

	return nil
}

// Ping checks the Redis connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.rdb.Ping(ctx).Err()
}
