// Package proxy orchestrates one inbound widget request through the gateway
// pipeline: rate limit, URL validation, cache lookup, upstream fetch, cache
// write. Every failure is recovered here and returned as a structured
// response; nothing escapes as a panic or bare error.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"findash/internal/gateway/allowlist"
	"findash/internal/gateway/cache"
	"findash/internal/gateway/ratelimit"
	"findash/internal/gateway/upstream"
	"findash/internal/jsonpath"
)

// Fetcher is the upstream dependency, kept as an interface so tests can spy
// on call counts.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, custom []upstream.Header) (json.RawMessage, error)
}

// Request is the inbound payload from the widget-refresh collaborator.
type Request struct {
	URL           string            `json:"url"`
	CustomHeaders []upstream.Header `json:"customHeaders,omitempty"`
}

// Response is the uniform result shape for both the proxy and test
// operations.
type Response struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
	Cached     *bool           `json:"cached,omitempty"`
	FieldCount *int            `json:"fieldCount,omitempty"`
}

// Service runs the gateway pipeline over injected collaborators.
type Service struct {
	allow   *allowlist.Checker
	limiter *ratelimit.Limiter
	store   cache.Store
	fetcher Fetcher
	log     *slog.Logger
}

func New(allow *allowlist.Checker, limiter *ratelimit.Limiter, store cache.Store, fetcher Fetcher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		allow:   allow,
		limiter: limiter,
		store:   store,
		fetcher: fetcher,
		log:     log,
	}
}

// Proxy handles a widget refresh: the full pipeline including rate limiting
// and caching. The returned status carries the HTTP semantics (200 success,
// 400 bad input or upstream failure, 429 rate limited) and rate holds the
// limiter metadata to expose as response headers.
func (s *Service) Proxy(ctx context.Context, client string, req Request) (resp Response, rate ratelimit.Result, status int) {
	rate = s.limiter.Allow(client)
	if !rate.Allowed {
		resetSecs := int(math.Ceil(rate.ResetIn.Seconds()))
		return Response{
			Success: false,
			Error:   fmt.Sprintf("Rate limit exceeded. Please try again in %d seconds.", resetSecs),
		}, rate, http.StatusTooManyRequests
	}

	if resp, status, ok := s.validate(req); !ok {
		return resp, rate, status
	}

	key := cache.Key(req.URL, req.CustomHeaders)
	if data, ok := s.store.Get(key); ok {
		return Response{Success: true, Data: data, Cached: boolPtr(true)}, rate, http.StatusOK
	}

	data, err := s.fetcher.Fetch(ctx, req.URL, req.CustomHeaders)
	if err != nil {
		return Response{Success: false, Error: err.Error(), Cached: boolPtr(false)}, rate, http.StatusBadRequest
	}
	s.store.Set(key, data)
	return Response{Success: true, Data: data, Cached: boolPtr(false)}, rate, http.StatusOK
}

// Test handles a connection test from the widget builder: validation and a
// live fetch, but no rate limiting and no cache interaction. On success the
// response reports how many selectable fields the document flattens into.
func (s *Service) Test(ctx context.Context, req Request) (Response, int) {
	if resp, status, ok := s.validate(req); !ok {
		return resp, status
	}
	data, err := s.fetcher.Fetch(ctx, req.URL, req.CustomHeaders)
	if err != nil {
		return Response{Success: false, Error: err.Error()}, http.StatusBadRequest
	}
	count := len(jsonpath.FlattenJSON(data))
	return Response{Success: true, Data: data, FieldCount: &count}, http.StatusOK
}

func (s *Service) validate(req Request) (Response, int, bool) {
	if strings.TrimSpace(req.URL) == "" {
		return Response{Success: false, Error: "URL is required and must be a string"}, http.StatusBadRequest, false
	}
	if err := s.allow.Validate(req.URL); err != nil {
		if errors.Is(err, allowlist.ErrNotAllowed) {
			s.log.Info("rejected upstream url", "reason", "domain not allowed")
		}
		return Response{Success: false, Error: err.Error()}, http.StatusBadRequest, false
	}
	return Response{}, 0, true
}

func boolPtr(b bool) *bool { return &b }
