// Package upstream performs the single outbound GET a proxied widget request
// turns into: credential injection for recognized providers, a hard timeout,
// and normalization of every failure into one error shape.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const userAgent = "FinanceDashboard/1.0"

// Header is one caller-supplied custom request header.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// InjectRule attaches a configured secret to requests for a known provider,
// either as a header or as a query parameter, and only when the request does
// not already carry it.
type InjectRule struct {
	Hosts  []string
	Header string
	Query  string
	Secret string
}

func (r InjectRule) matches(hostname string) bool {
	for _, h := range r.Hosts {
		if hostname == h {
			return true
		}
	}
	return false
}

// Fetcher issues upstream calls. One attempt per inbound request; retrying
// is the caller's decision.
type Fetcher struct {
	client  *http.Client
	rules   []InjectRule
	timeout time.Duration
	log     *slog.Logger
}

// NewFetcher creates a fetcher with the given hard timeout and credential
// injection rules. Rules with an empty secret are inert.
func NewFetcher(timeout time.Duration, rules []InjectRule, log *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		rules:   rules,
		timeout: timeout,
		log:     log,
	}
}

// Fetch GETs rawURL and returns the response body as raw JSON. Failures come
// back as *Error; the context carries the hard timeout and is always
// released.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, custom []Header) (json.RawMessage, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Msg: "Invalid URL format"}
	}
	hostname := strings.ToLower(u.Hostname())

	for _, rule := range f.rules {
		if rule.Secret == "" || rule.Query == "" || !rule.matches(hostname) {
			continue
		}
		q := u.Query()
		if q.Get(rule.Query) == "" {
			q.Set(rule.Query, rule.Secret)
			u.RawQuery = q.Encode()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Kind: KindInvalidInput, Msg: "Invalid URL format"}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for _, rule := range f.rules {
		if rule.Secret == "" || rule.Header == "" || !rule.matches(hostname) {
			continue
		}
		if req.Header.Get(rule.Header) == "" {
			req.Header.Set(rule.Header, rule.Secret)
		}
	}
	for _, h := range custom {
		if h.Key != "" && h.Value != "" {
			req.Header.Set(h.Key, h.Value)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &Error{Kind: KindTimeout, Msg: fmt.Sprintf("Request timed out after %d seconds", int(f.timeout.Seconds()))}
		}
		return nil, &Error{Kind: KindTransport, Msg: transportMessage(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &Error{Kind: KindUpstreamRateLimited, Msg: "API rate limit exceeded. Please try again later."}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Kind:   KindUpstreamHTTP,
			Status: resp.StatusCode,
			Msg:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Msg: transportMessage(err)}
	}
	body = bytes.TrimSpace(body)
	if !gjson.ValidBytes(body) {
		return nil, &Error{Kind: KindNonJSON, Msg: "Response is not valid JSON"}
	}

	f.noteProviderMessages(hostname, body)
	return json.RawMessage(body), nil
}

// noteProviderMessages surfaces soft errors some providers embed in 200
// responses (Alpha Vantage throttle notes, in particular). The request still
// succeeds; the notice is only logged.
func (f *Fetcher) noteProviderMessages(hostname string, body []byte) {
	for _, field := range []string{"Note", "Information", "Error Message"} {
		if gjson.GetBytes(body, field).Exists() {
			f.log.Info("upstream provider notice", "host", hostname, "field", field)
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

// transportMessage strips the method/URL prefix url.Error adds, keeping the
// underlying cause. Query strings may carry injected secrets and must not
// surface in user-facing messages.
func transportMessage(err error) string {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	return err.Error()
}
