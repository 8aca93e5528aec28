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

package webhook

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// RateLimit is the sustained requests per second accepted on /webhook.
	// Zero disables limiting.
	RateLimit float64
	RateBurst int
	// Health reports readiness of downstream dependencies. Nil means always healthy.
	Health func(ctx context.Context) error
}

// NewRouter creates the HTTP routes for the bridge.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if opts.Health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Health(ctx); err != nil {
				slog.Warn("health check failed", "error", err)
				writeResponse(w, newResponse(http.StatusServiceUnavailable, "unhealthy"))
				return
			}
		}
		writeResponse(w, newResponse(http.StatusOK, "ok"))
	})

	r.Group(func(r chi.Router) {
		if opts.RateLimit > 0 {
			burst := opts.RateBurst
			if burst <= 0 {
				burst = 1
			}
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
		}
		r.Post("/webhook", h.ServeHTTP)
	})

	return r
}

// rateLimit rejects requests with 429 once the limiter's bucket is empty.
func rateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				slog.Warn("webhook rate limited", "request_id", middleware.GetReqID(r.Context()))
				w.Header().Set("Retry-After", "1")
				writeResponse(w, newResponse(http.StatusTooManyRequests, "Too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
