// Package allowlist validates user-supplied upstream URLs before any network
// I/O happens. Only https URLs whose hostname sits under a known finance or
// market-data provider domain pass.
package allowlist

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURL marks input that does not parse as a URL at all.
	ErrInvalidURL = errors.New("invalid url")
	// ErrNotAllowed marks a well-formed URL outside the allowlist.
	ErrNotAllowed = errors.New("domain not allowed")
)

// defaultDomains is the fixed set of upstream hosts the gateway will contact.
// A hostname matches when it equals an entry or is a subdomain of one.
var defaultDomains = []string{
	"alphavantage.co",
	"www.alphavantage.co",
	"finnhub.io",
	"api.finnhub.io",
	"api.coinbase.com",
	"coinbase.com",
	"api.coingecko.com",
	"coingecko.com",
	"api.binance.com",
	"binance.com",
	"query1.finance.yahoo.com",
	"query2.finance.yahoo.com",
	"finance.yahoo.com",
	"api.polygon.io",
	"polygon.io",
	"cloud.iexapis.com",
	"iexcloud.io",
	"indianapi.in",
	"stock.indianapi.in",
	"api.exchangerate-api.com",
	"openexchangerates.org",
	"data.fixer.io",
	"api.fixer.io",
	"min-api.cryptocompare.com",
	"api.messari.io",
	"api.nomics.com",
	"api.kraken.com",
	"api.gemini.com",
	"api.pro.coinbase.com",
	"api.kucoin.com",
	"api.huobi.pro",
	"api.bybit.com",
	"api.bitfinex.com",
	"api.bitstamp.net",
	"rest.coinapi.io",
	"api.exchangeratesapi.io",
	"v6.exchangerate-api.com",
	"api.frankfurter.app",
	"cdn.jsdelivr.net",
}

// Checker holds the effective domain allowlist.
type Checker struct {
	domains []string
}

// New builds a checker over the built-in provider list plus any extra
// configured domains.
func New(extra ...string) *Checker {
	domains := make([]string, 0, len(defaultDomains)+len(extra))
	domains = append(domains, defaultDomains...)
	for _, d := range extra {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}
	return &Checker{domains: domains}
}

// checkError keeps the user-facing message clean while still matching the
// package sentinels through errors.Is.
type checkError struct {
	kind error
	msg  string
}

func (e *checkError) Error() string { return e.msg }
func (e *checkError) Unwrap() error { return e.kind }

// Validate rejects anything that is not https or whose hostname falls outside
// the allowlist. The returned error message is user-facing.
func (c *Checker) Validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return &checkError{kind: ErrInvalidURL, msg: "Invalid URL format"}
	}
	if u.Scheme != "https" {
		return &checkError{kind: ErrNotAllowed, msg: "Only HTTPS protocol is allowed for security"}
	}
	hostname := strings.ToLower(u.Hostname())
	for _, d := range c.domains {
		if hostname == d || strings.HasSuffix(hostname, "."+d) {
			return nil
		}
	}
	return &checkError{kind: ErrNotAllowed, msg: fmt.Sprintf(
		"Domain %q is not in the allowed list. Supported APIs include: Alpha Vantage, Finnhub, Coinbase, CoinGecko, Binance, Yahoo Finance, Polygon, IEX Cloud, and more.", hostname)}
}
