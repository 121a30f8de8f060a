package allowlist

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAcceptsKnownDomains(t *testing.T) {
	c := New()
	urls := []string{
		"https://api.coinbase.com/v2/exchange-rates?currency=BTC",
		"https://www.alphavantage.co/query?function=TIME_SERIES_DAILY",
		"https://sub.coingecko.com/api/v3/ping",
	}
	for _, u := range urls {
		if err := c.Validate(u); err != nil {
			t.Fatalf("%s: unexpected error %v", u, err)
		}
	}
}

func TestValidateRejectsUnknownDomain(t *testing.T) {
	c := New()
	err := c.Validate("https://evil.example.com/api")
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if !strings.Contains(err.Error(), `"evil.example.com"`) {
		t.Fatalf("message should name the rejected domain: %q", err.Error())
	}
}

func TestValidateRejectsNonHTTPS(t *testing.T) {
	c := New()
	err := c.Validate("http://api.coinbase.com/v2")
	if !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
	if !strings.Contains(err.Error(), "HTTPS") {
		t.Fatalf("message should mention HTTPS: %q", err.Error())
	}
}

func TestValidateRejectsSuffixWithoutDot(t *testing.T) {
	c := New()
	if err := c.Validate("https://notcoinbase.com/v2"); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("expected ErrNotAllowed, got %v", err)
	}
}

func TestValidateRejectsMalformedURL(t *testing.T) {
	c := New()
	for _, u := range []string{"://bad", "not a url", "https://"} {
		if err := c.Validate(u); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("%q: expected ErrInvalidURL, got %v", u, err)
		}
	}
}

func TestValidateExtraDomains(t *testing.T) {
	c := New("Internal.Example.ORG", " ")
	if err := c.Validate("https://api.internal.example.org/feed"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
