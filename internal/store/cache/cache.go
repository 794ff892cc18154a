// Package cache provides Redis-backed memoization of TaxEstimate results
// and the per-tax-year single-writer lock the record-store contract
// requires (§5: "concurrent reconciliation of the same year is
// undefined and must be prevented at the invocation layer").
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache wraps a redis.Client with the two concerns the tax pipeline
// needs: estimate memoization and per-year run locking.
type Cache struct {
	client *redis.Client
}

// New dials addr with connection-pool settings sized for a
// single-taxpayer CLI workload rather than a multi-tenant API server.
func New(addr, password string) *Cache {
	opts := &redis.Options{
		Addr:            addr,
		Password:        password,
		PoolSize:        10,
		MinIdleConns:    2,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		MaxRetries:      3,
		MinRetryBackoff: 500 * time.Millisecond,
		MaxRetryBackoff: 5 * time.Second,
	}
	return &Cache{client: redis.NewClient(opts)}
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error { return c.client.Close() }

// Ping verifies connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func estimateKey(year int, filingStatus string, inputHash string) string {
	return fmt.Sprintf("taxrecon:estimate:%d:%s:%s", year, filingStatus, inputHash)
}

// GetEstimate returns the cached JSON-serialized TaxEstimate for the
// given cache key, or (nil, false) on a cache miss. Callers unmarshal
// into domain.TaxEstimate themselves, keeping this package free of a
// domain import (it is a generic storage helper, not an engine).
func (c *Cache) GetEstimate(ctx context.Context, year int, filingStatus, inputHash string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, estimateKey(year, filingStatus, inputHash)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get estimate: %w", err)
	}
	return raw, true, nil
}

// PutEstimate stores the serialized TaxEstimate with a bounded TTL; tax
// tables only change year to year, but an operator correcting a
// misentered record should see the correction within a work session
// rather than needing to flush the cache by hand.
func (c *Cache) PutEstimate(ctx context.Context, year int, filingStatus, inputHash string, estimateJSON []byte) error {
	const ttl = 6 * time.Hour
	if err := c.client.Set(ctx, estimateKey(year, filingStatus, inputHash), estimateJSON, ttl).Err(); err != nil {
		return fmt.Errorf("cache: put estimate: %w", err)
	}
	return nil
}

// lockKey namespaces the per-year reconciliation lock.
func lockKey(year int) string { return fmt.Sprintf("taxrecon:lock:reconcile:%d", year) }

// AcquireYearLock implements the §5 single-writer-per-year guarantee
// using Redis SET NX with a lease TTL, so a crashed invocation releases
// the lock automatically instead of wedging the year forever. Returns
// false, nil when another invocation already holds the lock.
func (c *Cache) AcquireYearLock(ctx context.Context, year int, holder string, lease time.Duration) (bool, error) {
	ok, err := c.client.SetNX(ctx, lockKey(year), holder, lease).Result()
	if err != nil {
		return false, fmt.Errorf("cache: acquire year lock: %w", err)
	}
	return ok, nil
}

// ReleaseYearLock releases the lock if held by holder. It does not
// blind-delete: a stale caller whose lease already expired (and was
// reclaimed by another invocation) must not release someone else's lock.
func (c *Cache) ReleaseYearLock(ctx context.Context, year int, holder string) error {
	current, err := c.client.Get(ctx, lockKey(year)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cache: release year lock: %w", err)
	}
	if current != holder {
		return nil
	}
	return c.client.Del(ctx, lockKey(year)).Err()
}

// HashInput is a convenience the CLI layer uses to build a stable cache
// key from a JSON-marshalable estimator Input, so small formatting
// differences in the same logical input don't cause spurious misses.
// FNV-1a over crypto hashes because this key only needs to avoid
// accidental collisions within one cache instance, not resist
// adversarial construction.
func HashInput(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache: marshal input for hashing: %w", err)
	}
	h := fnv.New64a()
	h.Write(raw)
	return fmt.Sprintf("%x", h.Sum64()), nil
}
