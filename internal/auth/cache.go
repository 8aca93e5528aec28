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
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// CachedSource memoises a Source for the life of the process. The first
// successful fetch of a name is kept; failures are not cached, so the next
// request retries the underlying store. Concurrent misses for the same
// name share one fetch.
type CachedSource struct {
	source Source
	lru    *lru.Cache[string, Credentials]
	group  singleflight.Group
}

// fetchTimeout bounds a shared fetch once it no longer follows any caller's context.
const fetchTimeout = 10 * time.Second

// NewCachedSource wraps source with a cache holding up to maxEntries names.
func NewCachedSource(source Source, maxEntries int) (*CachedSource, error) {
	cache, err := lru.New[string, Credentials](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create credential cache: %w", err)
	}

	return &CachedSource{source: source, lru: cache}, nil
}

// Fetch implements Source.
func (c *CachedSource) Fetch(ctx context.Context, name string) (Credentials, error) {
	if creds, ok := c.lru.Get(name); ok {
		return creds, nil
	}

	// The fetch is shared, so one caller hanging up must not fail the others.
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
	defer cancel()

	val, err, _ := c.group.Do(name, func() (any, error) {
		creds, err := c.source.Fetch(fetchCtx, name)
		if err != nil {
			return Credentials{}, err
		}

		c.lru.Add(name, creds)

		return creds, nil
	})
	if err != nil {
		return Credentials{}, err
	}

	return val.(Credentials), nil
}

// Len returns the number of cached names.
func (c *CachedSource) Len() int {
	return c.lru.Len()
}
