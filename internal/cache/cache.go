// Package cache is a small cross-invocation cache for lookup results:
// a sqlite file keyed by lookup key, payloads zstd-compressed, entries
// expiring after a TTL. Cache failures degrade to misses so a broken
// cache file can never break a command.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

type Cache struct {
	db     *sql.DB
	enc    *zstd.Encoder
	dec    *zstd.Decoder
	ttl    time.Duration
	logger *zap.Logger
}

// Key builds the cache key for an ASN lookup at a given depth.
func Key(asn uint32, depth int) string {
	return fmt.Sprintf("ngen:lookup:%d:%d", asn, depth)
}

// Open opens (or creates) the cache file and drops expired entries.
func Open(path string, ttl time.Duration, logger *zap.Logger) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cache (
		    key     TEXT PRIMARY KEY,
		    value   BLOB NOT NULL,
		    expires INTEGER NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}
	if _, err := db.Exec("DELETE FROM cache WHERE expires <= ?", time.Now().Unix()); err != nil {
		db.Close()
		return nil, fmt.Errorf("purging expired cache entries: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	return &Cache{db: db, enc: enc, dec: dec, ttl: ttl, logger: logger}, nil
}

func (c *Cache) Close() error {
	c.enc.Close()
	c.dec.Close()
	return c.db.Close()
}

// Get returns the cached payload for key, or ok=false on miss, expiry
// or any cache-side failure.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var (
		blob    []byte
		expires int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires FROM cache WHERE key = ?", key).Scan(&blob, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		c.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if time.Now().Unix() >= expires {
		return nil, false
	}
	out, err := c.dec.DecodeAll(blob, nil)
	if err != nil {
		c.logger.Debug("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return out, true
}

// Set stores a payload under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, val []byte) error {
	blob := c.enc.EncodeAll(val, nil)
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache (key, value, expires) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires = excluded.expires`,
		key, blob, time.Now().Add(c.ttl).Unix())
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", key, err)
	}
	return nil
}

// Invalidate removes every entry; sync calls this after changing the store.
func (c *Cache) Invalidate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM cache"); err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	return nil
}
