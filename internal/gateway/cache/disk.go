package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type diskEntry struct {
	File       string    `json:"file"`
	Size       int64     `json:"size"`
	ExpiresAt  time.Time `json:"expires_at"`
	AccessedAt time.Time `json:"accessed_at"`
}

type diskIndex struct {
	Entries map[string]diskEntry `json:"entries"`
}

// Disk persists cached responses under a directory with a JSON index for
// TTL and LRU eviction. Entries expire lazily on read; inserts evict the
// least recently accessed entries past maxEntries.
type Disk struct {
	mu sync.Mutex

	dir        string
	indexPath  string
	maxEntries int
	ttl        time.Duration
	log        *slog.Logger

	entries map[string]diskEntry
}

// NewDisk opens (or creates) a disk cache rooted at dir.
func NewDisk(dir string, maxEntries int, ttl time.Duration, log *slog.Logger) (*Disk, error) {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	if log == nil {
		log = slog.Default()
	}
	d := &Disk{
		dir:        filepath.Join(dir, "responses"),
		indexPath:  filepath.Join(dir, "index.json"),
		maxEntries: maxEntries,
		ttl:        ttl,
		log:        log,
		entries:    map[string]diskEntry{},
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, err
	}
	d.loadIndex()
	d.sweepLocked(time.Now())
	d.persistIndexLocked()
	return d, nil
}

func (d *Disk) Get(key string) ([]byte, bool) {
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()

	ent, ok := d.entries[key]
	if !ok {
		return nil, false
	}
	if now.After(ent.ExpiresAt) {
		d.removeLocked(key, ent)
		d.persistIndexLocked()
		return nil, false
	}
	raw, err := os.ReadFile(filepath.Join(d.dir, ent.File))
	if err != nil {
		d.removeLocked(key, ent)
		d.persistIndexLocked()
		return nil, false
	}
	ent.AccessedAt = now
	d.entries[key] = ent
	d.persistIndexLocked()
	return raw, true
}

func (d *Disk) Set(key string, data []byte) {
	now := time.Now()
	file := hashName(key)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.WriteFile(filepath.Join(d.dir, file), data, 0o644); err != nil {
		d.log.Warn("disk cache write failed", "err", err)
		return
	}
	d.entries[key] = diskEntry{
		File:       file,
		Size:       int64(len(data)),
		ExpiresAt:  now.Add(d.ttl),
		AccessedAt: now,
	}
	d.sweepLocked(now)
	d.persistIndexLocked()
}

// sweepLocked drops expired entries, then evicts least recently accessed
// entries until the table fits maxEntries.
func (d *Disk) sweepLocked(now time.Time) {
	for key, ent := range d.entries {
		if now.After(ent.ExpiresAt) {
			d.removeLocked(key, ent)
		}
	}
	for len(d.entries) > d.maxEntries {
		oldestKey := ""
		var oldest diskEntry
		for key, ent := range d.entries {
			if oldestKey == "" || ent.AccessedAt.Before(oldest.AccessedAt) {
				oldestKey, oldest = key, ent
			}
		}
		d.removeLocked(oldestKey, oldest)
	}
}

func (d *Disk) removeLocked(key string, ent diskEntry) {
	delete(d.entries, key)
	_ = os.Remove(filepath.Join(d.dir, ent.File))
}

func (d *Disk) loadIndex() {
	raw, err := os.ReadFile(d.indexPath)
	if err != nil {
		return
	}
	var idx diskIndex
	if err := json.Unmarshal(raw, &idx); err != nil {
		d.log.Warn("disk cache index unreadable, starting empty", "err", err)
		return
	}
	if idx.Entries != nil {
		d.entries = idx.Entries
	}
}

func (d *Disk) persistIndexLocked() {
	raw, err := json.Marshal(diskIndex{Entries: d.entries})
	if err != nil {
		return
	}
	if err := os.WriteFile(d.indexPath, raw, 0o644); err != nil {
		d.log.Warn("disk cache index write failed", "err", err)
	}
}

func hashName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + ".json"
}
