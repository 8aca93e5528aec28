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

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrCredentialsNotFound is returned by a Source that has no entry for the name.
var ErrCredentialsNotFound = errors.New("credentials not found")

// Source loads the expected credentials stored under a parameter name.
type Source interface {
	Fetch(ctx context.Context, name string) (Credentials, error)
}

// StaticSource serves credentials supplied through configuration.
type StaticSource map[string]Credentials

// Fetch implements Source.
func (s StaticSource) Fetch(_ context.Context, name string) (Credentials, error) {
	creds, ok := s[name]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %s", ErrCredentialsNotFound, name)
	}

	return creds, nil
}

// redisGetter is the subset of *redis.Client used by RedisSource.
type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSource reads a JSON credentials document stored at keyPrefix+name.
type RedisSource struct {
	rdb       redisGetter
	keyPrefix string
}

// NewRedisSource creates a source backed by the given Redis client.
func NewRedisSource(rdb *redis.Client, keyPrefix string) *RedisSource {
	return &RedisSource{rdb: rdb, keyPrefix: keyPrefix}
}

// Fetch implements Source.
func (s *RedisSource) Fetch(ctx context.Context, name string) (Credentials, error) {
	raw, err := s.rdb.Get(ctx, s.keyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return Credentials{}, fmt.Errorf("%w: %s", ErrCredentialsNotFound, name)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("redis get %s: %w", name, err)
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials %s: %w", name, err)
	}

	return creds, nil
}
