// Package cache holds short-TTL copies of upstream responses so that several
// widgets polling the same endpoint inside the TTL cost a single upstream
// call. Two backends exist: a bounded in-memory LRU (the default) and a
// disk-backed store that survives restarts.
package cache

import (
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"findash/internal/gateway/upstream"
)

// Store is the response cache the proxy service consults and fills.
// Implementations are safe for concurrent use; a completed Set is visible to
// the next Get of the same key.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte)
}

// Key builds the request signature a response is cached under. Custom header
// serialization is order-sensitive: the same headers in a different order
// address a different entry.
func Key(url string, headers []upstream.Header) string {
	serialized := []byte("[]")
	if len(headers) > 0 {
		serialized, _ = json.Marshal(headers)
	}
	return url + "::" + string(serialized)
}

// Memory is the in-memory backend, an expiring LRU.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates a memory cache holding up to maxEntries responses for ttl
// each.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Memory{lru: expirable.NewLRU[string, []byte](maxEntries, nil, ttl)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	return m.lru.Get(key)
}

func (m *Memory) Set(key string, data []byte) {
	m.lru.Add(key, data)
}
