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

// Package replay re-sends captured webhook bodies through the pipeline
// without authentication. It is used to recover from bus outages and to
// seed new consumers with historical events.
package replay

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gataworks/zendesk-eventbus/internal/eventbus"
	"github.com/gataworks/zendesk-eventbus/internal/pipeline"
)

// Processor is the part of *pipeline.Processor the runner needs.
type Processor interface {
	Forward(ctx context.Context, body []byte) (*pipeline.Result, error)
	Prepare(body []byte) (*pipeline.Result, error)
}

// Result summarises a completed replay run.
type Result struct {
	Files     []FileResult
	TotalSent int
	TotalFail int
	Elapsed   time.Duration
}

// FileResult is the outcome for one captured body.
type FileResult struct {
	Path   string
	Record *eventbus.Record // set on success
	Err    error
}

// Runner replays captured webhook bodies.
type Runner struct {
	proc        Processor
	dryRun      bool
	concurrency int
	limiter     *rate.Limiter
}

// RunnerConfig holds dependencies for the replay runner.
type RunnerConfig struct {
	Processor Processor
	// DryRun decodes and builds records without dispatching them.
	DryRun      bool
	Concurrency int
	// RatePerSecond caps dispatches; zero means unlimited.
	RatePerSecond float64
}

// NewRunner creates a replay runner.
func NewRunner(cfg RunnerConfig) *Runner {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &Runner{
		proc:        cfg.Processor,
		dryRun:      cfg.DryRun,
		concurrency: concurrency,
		limiter:     limiter,
	}
}

// Run replays every file in paths. Directories contribute their *.json
// files. A failing file does not stop the run; only cancellation and
// unreadable paths do.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	start := time.Now()

	files, err := expand(paths)
	if err != nil {
		return nil, err
	}

	slog.Info("starting replay", "files", len(files), "dry_run", r.dryRun)

	results := make([]FileResult, len(files))
	var mu sync.Mutex
	result := &Result{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, path := range files {
		g.Go(func() error {
			if err := r.limiter.Wait(gctx); err != nil {
				return err
			}

			fr := r.replayFile(gctx, path)
			results[i] = fr

			mu.Lock()
			if fr.Err != nil {
				result.TotalFail++
			} else {
				result.TotalSent++
			}
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("replay interrupted: %w", err)
	}

	result.Files = results
	result.Elapsed = time.Since(start)

	slog.Info("replay complete",
		"sent", result.TotalSent,
		"failed", result.TotalFail,
		"elapsed", result.Elapsed,
	)

	return result, nil
}

func (r *Runner) replayFile(ctx context.Context, path string) FileResult {
	body, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}

	var res *pipeline.Result
	if r.dryRun {
		res, err = r.proc.Prepare(body)
	} else {
		res, err = r.proc.Forward(ctx, body)
	}
	if err != nil {
		slog.Error("replay failed", "path", path, "error", err)
		return FileResult{Path: path, Err: err}
	}

	return FileResult{Path: path, Record: &res.Record}
}

// expand resolves directories to their *.json files, sorted by name.
func expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		slices.Sort(found)
		files = append(files, found...)
	}

	return files, nil
}
