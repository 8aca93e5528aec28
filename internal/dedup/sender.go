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

// Package dedup suppresses repeated deliveries of the same Zendesk event.
// Zendesk re-sends a webhook when the first attempt times out, so the same
// event id can arrive more than once.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"

	"github.com/gataworks/zendesk-eventbus/internal/eventbus"
)

const (
	// DefaultTTL is how long we remember a dispatched event id. Zendesk stops
	// retrying a delivery well within a day.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces dedup keys in Redis.
	keyPrefix = "zendesk:seen:"
)

// redisMarker is the subset of *redis.Client used by Sender.
type redisMarker interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Sender wraps an eventbus.Sender and drops records whose event id was
// already dispatched. If Redis is unreachable the record is sent anyway.
type Sender struct {
	next eventbus.Sender
	rdb  redisMarker
	ttl  time.Duration
}

// NewSender creates a dedup decorator around next.
func NewSender(next eventbus.Sender, rdb *redis.Client, ttl time.Duration) *Sender {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sender{next: next, rdb: rdb, ttl: ttl}
}

// Send implements eventbus.Sender.
func (s *Sender) Send(ctx context.Context, rec eventbus.Record) error {
	eventID := gjson.Get(rec.Detail, "id").String()
	if eventID == "" {
		return s.next.Send(ctx, rec)
	}

	key := keyPrefix + eventID

	// SET NX = set only if key does not exist. Returns true if the key was set.
	isNew, err := s.rdb.SetNX(ctx, key, 1, s.ttl).Result()
	if err != nil {
		slog.Warn("dedup check failed, sending anyway", "event_id", eventID, "error", err)
		return s.next.Send(ctx, rec)
	}
	// A redelivery that lands while the first send is still in flight is
	// acknowledged here. If that send then fails the key is released, but the
	// acknowledged copy is gone and only a later redelivery can recover it.
	if !isNew {
		slog.Info("duplicate delivery skipped", "event_id", eventID, "detail_type", rec.DetailType)
		return nil
	}

	if err := s.next.Send(ctx, rec); err != nil {
		// Forget the id so a redelivery can succeed.
		if delErr := s.rdb.Del(context.WithoutCancel(ctx), key).Err(); delErr != nil {
			err = errors.Join(err, fmt.Errorf("dedup release: %w", delErr))
		}
		return err
	}

	return nil
}
