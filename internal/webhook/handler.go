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

// Package webhook exposes the pipeline over HTTP. Zendesk POSTs each ticket
// event to /webhook with HTTP Basic credentials; the response carries a
// {"message": ...} body and the status of the pipeline outcome.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gataworks/zendesk-eventbus/internal/pipeline"
)

// DefaultMaxBodyBytes caps request bodies read by ServeHTTP.
const DefaultMaxBodyBytes = 1 << 20

// Invocation is one HTTP-shaped webhook call: a header map and a raw body.
type Invocation struct {
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// Response is the status code and JSON body returned for an Invocation.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Processor runs a delivery through the pipeline.
type Processor interface {
	Process(ctx context.Context, authHeader string, body []byte) (*pipeline.Result, error)
}

// Handler adapts webhook calls to a Processor.
type Handler struct {
	proc         Processor
	maxBodyBytes int64
}

// NewHandler creates a webhook handler. maxBodyBytes <= 0 uses DefaultMaxBodyBytes.
func NewHandler(proc Processor, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{proc: proc, maxBodyBytes: maxBodyBytes}
}

// Invoke processes one call. It never returns internal error detail; the
// pipeline has already logged it.
func (h *Handler) Invoke(ctx context.Context, inv Invocation) Response {
	header := lookupHeader(inv.Headers, "authorization")

	if _, err := h.proc.Process(ctx, header, []byte(inv.Body)); err != nil {
		var pe *pipeline.ProcessingError
		if !errors.As(err, &pe) {
			slog.Error("unclassified pipeline error", "error", err)
			return newResponse(http.StatusInternalServerError, pipeline.MsgUnexpected)
		}
		msg := pe.Message
		if msg == "" {
			msg = pe.Kind.Message()
		}
		return newResponse(pe.StatusCode(), msg)
	}

	return newResponse(http.StatusOK, pipeline.MsgSuccess)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			slog.Warn("webhook body too large", "limit", tooLarge.Limit)
			writeResponse(w, newResponse(http.StatusRequestEntityTooLarge, "Request body too large"))
			return
		}
		slog.Error("failed to read webhook body", "error", err)
		writeResponse(w, newResponse(http.StatusBadRequest, pipeline.MsgInvalidJSON))
		return
	}

	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			headers[strings.ToLower(name)] = values[0]
		}
	}

	writeResponse(w, h.Invoke(r.Context(), Invocation{Headers: headers, Body: string(body)}))
}

// lookupHeader finds name in headers regardless of case.
func lookupHeader(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func newResponse(status int, message string) Response {
	body, _ := json.Marshal(map[string]string{"message": message})
	return Response{StatusCode: status, Body: string(body)}
}

func writeResponse(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write([]byte(resp.Body))
}
