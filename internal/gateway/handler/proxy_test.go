package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"findash/internal/gateway/allowlist"
	"findash/internal/gateway/cache"
	"findash/internal/gateway/ratelimit"
	"findash/internal/gateway/service/proxy"
	"findash/internal/gateway/upstream"
)

type stubFetcher struct {
	data json.RawMessage
}

func (s *stubFetcher) Fetch(ctx context.Context, rawURL string, custom []upstream.Header) (json.RawMessage, error) {
	return s.data, nil
}

func newHandler(t *testing.T, maxRequests int) *ProxyHandler {
	t.Helper()
	svc := proxy.New(
		allowlist.New(),
		ratelimit.New(time.Minute, maxRequests, 64),
		cache.NewMemory(64, time.Minute),
		&stubFetcher{data: json.RawMessage(`{"amount":"42"}`)},
		nil,
	)
	return NewProxyHandler(svc, nil)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) proxy.Response {
	t.Helper()
	var resp proxy.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleProxySuccess(t *testing.T) {
	h := newHandler(t, 30)
	req := httptest.NewRequest(http.MethodPost, "/api/proxy",
		strings.NewReader(`{"url":"https://api.coinbase.com/v2/prices/spot"}`))
	rec := httptest.NewRecorder()

	h.HandleProxy(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	resp := decodeBody(t, rec)
	require.True(t, resp.Success)
	require.JSONEq(t, `{"amount":"42"}`, string(resp.Data))

	require.Equal(t, "30", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "29", rec.Header().Get("X-RateLimit-Remaining"))
	require.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestHandleProxyMalformedBody(t *testing.T) {
	h := newHandler(t, 30)
	req := httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	h.HandleProxy(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	require.False(t, resp.Success)
	require.Equal(t, "URL is required and must be a string", resp.Error)
}

func TestHandleProxyRateLimitPerForwardedClient(t *testing.T) {
	h := newHandler(t, 1)
	body := `{"url":"https://api.coinbase.com/v2/prices/spot"}`

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(body))
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rec := httptest.NewRecorder()
		h.HandleProxy(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send("1.1.1.1").Code)
	rec := send("1.1.1.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	// a different forwarded client has its own budget
	require.Equal(t, http.StatusOK, send("2.2.2.2").Code)
}

func TestHandleTest(t *testing.T) {
	h := newHandler(t, 30)
	req := httptest.NewRequest(http.MethodPost, "/api/test",
		strings.NewReader(`{"url":"https://finnhub.io/api/v1/quote?symbol=AAPL"}`))
	rec := httptest.NewRecorder()

	h.HandleTest(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	require.True(t, resp.Success)
	require.NotNil(t, resp.FieldCount)
	require.Equal(t, 1, *resp.FieldCount)
	require.Empty(t, rec.Header().Get("X-RateLimit-Limit"), "test endpoint is not rate limited")
}

func TestHandleTemplates(t *testing.T) {
	h := newHandler(t, 30)
	req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	rec := httptest.NewRecorder()

	h.HandleTemplates(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got)
	require.Contains(t, rec.Body.String(), "api.coinbase.com")
}

func TestHandleHealth(t *testing.T) {
	h := newHandler(t, 30)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "192.0.2.7:5123"
	require.Equal(t, "192.0.2.7", clientIP(r))

	r.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	require.Equal(t, "203.0.113.9", clientIP(r))

	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = ""
	require.Equal(t, "unknown", clientIP(r))
}
