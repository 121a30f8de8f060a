package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"findash/internal/gateway/upstream"
)

type Config struct {
	Port      string
	Env       string
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Upstream  UpstreamConfig
	// ExtraDomains widen the built-in upstream allowlist.
	ExtraDomains []string
}

type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
	// Dir switches the response cache to the disk backend when set.
	Dir string
}

type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
	MaxClients  int
}

type UpstreamConfig struct {
	Timeout time.Duration
	Rules   []upstream.InjectRule
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.Port == "" {
		cfg.Port = *port
	}
	return cfg, nil
}

// FromEnv builds the configuration from environment variables alone. Load is
// the flag-aware wrapper the binary uses.
func FromEnv() (*Config, error) {
	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port != "" && !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	cfg := &Config{
		Port: port,
		Env:  env,
		Cache: CacheConfig{
			TTL:        envSeconds("PROXY_CACHE_TTL", 10*time.Second),
			MaxEntries: envInt("PROXY_CACHE_MAX_ENTRIES", 1024),
			Dir:        strings.TrimSpace(os.Getenv("PROXY_CACHE_DIR")),
		},
		RateLimit: RateLimitConfig{
			Window:      envSeconds("RATE_LIMIT_WINDOW", 60*time.Second),
			MaxRequests: envInt("RATE_LIMIT_MAX_REQUESTS", 30),
			MaxClients:  envInt("RATE_LIMIT_MAX_CLIENTS", 4096),
		},
		Upstream: UpstreamConfig{
			Timeout: envSeconds("UPSTREAM_TIMEOUT", 15*time.Second),
			Rules:   builtinRules(),
		},
	}

	if path := strings.TrimSpace(os.Getenv("PROVIDERS_FILE")); path != "" {
		if err := cfg.applyProvidersFile(path); err != nil {
			return nil, fmt.Errorf("providers file: %w", err)
		}
	}
	return cfg, nil
}

// builtinRules covers the providers the gateway knows out of the box. A rule
// only activates when its secret is present in the environment.
func builtinRules() []upstream.InjectRule {
	return []upstream.InjectRule{
		{
			Hosts:  []string{"stock.indianapi.in"},
			Header: "X-Api-Key",
			Secret: strings.TrimSpace(os.Getenv("INDIAN_STOCK_API_KEY")),
		},
		{
			Hosts:  []string{"finnhub.io", "api.finnhub.io"},
			Header: "X-Finnhub-Token",
			Secret: strings.TrimSpace(os.Getenv("FINNHUB_API_KEY")),
		},
		{
			Hosts:  []string{"alphavantage.co", "www.alphavantage.co"},
			Query:  "apikey",
			Secret: strings.TrimSpace(os.Getenv("ALPHA_VANTAGE_API_KEY")),
		},
	}
}

// providersFile extends the allowlist and injection rules without a rebuild.
// Secrets stay in the environment; the file only names the variable.
type providersFile struct {
	Domains   []string `yaml:"domains"`
	Providers []struct {
		Hosts  []string `yaml:"hosts"`
		Header string   `yaml:"header"`
		Query  string   `yaml:"query"`
		Env    string   `yaml:"env"`
	} `yaml:"providers"`
}

func (c *Config) applyProvidersFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var pf providersFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return err
	}
	c.ExtraDomains = append(c.ExtraDomains, pf.Domains...)
	for _, p := range pf.Providers {
		c.Upstream.Rules = append(c.Upstream.Rules, upstream.InjectRule{
			Hosts:  p.Hosts,
			Header: p.Header,
			Query:  p.Query,
			Secret: strings.TrimSpace(os.Getenv(p.Env)),
		})
	}
	return nil
}

func envSeconds(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
