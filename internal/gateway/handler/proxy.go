// Package handler exposes the gateway over HTTP as plain JSON endpoints.
package handler

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"findash/internal/gateway/ratelimit"
	"findash/internal/gateway/service/proxy"
	"findash/internal/templates"
	"findash/internal/util/jsonutil"
)

// ProxyHandler serves the proxy, test, and templates endpoints.
type ProxyHandler struct {
	svc *proxy.Service
	log *slog.Logger
}

func NewProxyHandler(svc *proxy.Service, log *slog.Logger) *ProxyHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ProxyHandler{svc: svc, log: log}
}

// HandleProxy runs the full gateway pipeline for one widget refresh.
func (h *ProxyHandler) HandleProxy(w http.ResponseWriter, r *http.Request) {
	client := clientIP(r)

	var req proxy.Request
	if err := jsonutil.Decode(r.Body, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, proxy.Response{
			Success: false,
			Error:   "URL is required and must be a string",
		})
		return
	}

	resp, rate, status := h.svc.Proxy(r.Context(), client, req)
	writeRateHeaders(w, rate)
	h.writeJSON(w, status, resp)
}

// HandleTest validates and fetches once, without rate limiting or caching,
// so the widget builder can preview an endpoint.
func (h *ProxyHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	var req proxy.Request
	if err := jsonutil.Decode(r.Body, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, proxy.Response{
			Success: false,
			Error:   "URL is required and must be a string",
		})
		return
	}

	resp, status := h.svc.Test(r.Context(), req)
	h.writeJSON(w, status, resp)
}

// HandleTemplates returns the built-in quick-start widget templates.
func (h *ProxyHandler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, templates.Quick)
}

// HandleHealth reports liveness.
func (h *ProxyHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ProxyHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		h.log.Error("response encode failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeRateHeaders(w http.ResponseWriter, rate ratelimit.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rate.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rate.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(int(math.Ceil(rate.ResetIn.Seconds()))))
}

// clientIP derives the rate-limit identity: the first forwarded-for hop when
// present, else the connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
