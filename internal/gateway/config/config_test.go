package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "", cfg.Port)
	require.Equal(t, 10*time.Second, cfg.Cache.TTL)
	require.Equal(t, 1024, cfg.Cache.MaxEntries)
	require.Empty(t, cfg.Cache.Dir)
	require.Equal(t, 60*time.Second, cfg.RateLimit.Window)
	require.Equal(t, 30, cfg.RateLimit.MaxRequests)
	require.Equal(t, 4096, cfg.RateLimit.MaxClients)
	require.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	require.Len(t, cfg.Upstream.Rules, 3)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("PROXY_CACHE_TTL", "30")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5")
	t.Setenv("UPSTREAM_TIMEOUT", "3")

	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, ":9090", cfg.Port, "bare port numbers are normalized to listen addresses")
	require.Equal(t, 30*time.Second, cfg.Cache.TTL)
	require.Equal(t, 5, cfg.RateLimit.MaxRequests)
	require.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
}

func TestFromEnvIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("PROXY_CACHE_TTL", "soon")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "-2")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, cfg.Cache.TTL)
	require.Equal(t, 30, cfg.RateLimit.MaxRequests)
}

func TestFromEnvBuiltinRuleSecrets(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", " fh-token ")

	cfg, err := FromEnv()
	require.NoError(t, err)

	var found bool
	for _, rule := range cfg.Upstream.Rules {
		for _, h := range rule.Hosts {
			if h == "finnhub.io" {
				found = true
				require.Equal(t, "X-Finnhub-Token", rule.Header)
				require.Equal(t, "fh-token", rule.Secret)
			}
		}
	}
	require.True(t, found)
}

func TestFromEnvProvidersFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
domains:
  - api.custom-quotes.example
providers:
  - hosts: [api.custom-quotes.example]
    header: X-Quote-Key
    env: CUSTOM_QUOTES_KEY
`), 0o644))

	t.Setenv("PROVIDERS_FILE", path)
	t.Setenv("CUSTOM_QUOTES_KEY", "qk-1")

	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, []string{"api.custom-quotes.example"}, cfg.ExtraDomains)
	require.Len(t, cfg.Upstream.Rules, 4)
	rule := cfg.Upstream.Rules[3]
	require.Equal(t, []string{"api.custom-quotes.example"}, rule.Hosts)
	require.Equal(t, "X-Quote-Key", rule.Header)
	require.Equal(t, "qk-1", rule.Secret)
}

func TestFromEnvProvidersFileMissing(t *testing.T) {
	t.Setenv("PROVIDERS_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := FromEnv()
	require.Error(t, err)
	require.Contains(t, err.Error(), "providers file")
}
