// Package cache keeps API results in a store.Store wrapped in a timestamped
// JSON envelope, and expires them by age.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/prayer-calendar/internal/api"
	"github.com/smokyabdulrahman/prayer-calendar/internal/geo"
	"github.com/smokyabdulrahman/prayer-calendar/internal/store"
)

const (
	geoKey   = "geolocation"
	geoTTL   = 24 * time.Hour
	monthTTL = 7 * 24 * time.Hour
)

// envelope is the stored form of every cached value.
type envelope[T any] struct {
	Data      T     `json:"data"`
	Timestamp int64 `json:"timestamp"` // epoch milliseconds
}

// Cache reads and writes envelopes in a store.
type Cache struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

// New returns a Cache over s using the wall clock.
func New(s store.Store, log zerolog.Logger) *Cache {
	return &Cache{store: s, log: log, now: time.Now}
}

// SetClock replaces the clock used for timestamps and expiry.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// load returns the value stored at key if it is younger than ttl.
// Expired entries are removed. Any failure reads as absent.
func load[T any](ctx context.Context, c *Cache, key string, ttl time.Duration) (T, bool) {
	var zero T
	raw, err := c.store.GetItem(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return zero, false
	}

	var env envelope[T]
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache entry is corrupt")
		return zero, false
	}

	age := c.now().Sub(time.UnixMilli(env.Timestamp))
	if age > ttl {
		c.log.Debug().Str("key", key).Dur("age", age).Msg("cache entry expired")
		c.remove(ctx, key)
		return zero, false
	}
	return env.Data, true
}

func save[T any](ctx context.Context, c *Cache, key string, v T) error {
	data, err := json.Marshal(envelope[T]{Data: v, Timestamp: c.now().UnixMilli()})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry %s: %w", key, err)
	}
	if err := c.store.SetItem(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

func (c *Cache) remove(ctx context.Context, key string) {
	if err := c.store.RemoveItem(ctx, key); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache remove failed")
	}
}

// LoadGeo returns the cached geolocation if it is less than a day old.
func (c *Cache) LoadGeo(ctx context.Context) *geo.Location {
	loc, ok := load[geo.Location](ctx, c, geoKey, geoTTL)
	if !ok {
		return nil
	}
	return &loc
}

// SaveGeo caches a geolocation result.
func (c *Cache) SaveGeo(ctx context.Context, loc *geo.Location) error {
	return save(ctx, c, geoKey, *loc)
}

// MonthQuery identifies one monthly prayer times request.
type MonthQuery struct {
	Year     int
	Month    int
	Location api.Location
	Params   api.Params
}

// key builds a deterministic hash from the parameters that affect prayer times,
// so different locations and methods get separate entries.
func (q MonthQuery) key() string {
	raw := fmt.Sprintf("%04d-%02d|%.6f|%.6f|%s|%s|%d|%d|%s",
		q.Year, q.Month,
		q.Location.Latitude, q.Location.Longitude, q.Location.City, q.Location.Country,
		q.Params.Method, q.Params.School, q.Params.Tune)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("timings_%x", h[:8])
}

// LoadMonth returns the cached calendar for q, if fresh.
func (c *Cache) LoadMonth(ctx context.Context, q MonthQuery) ([]api.Data, bool) {
	return load[[]api.Data](ctx, c, q.key(), monthTTL)
}

// SaveMonth caches the calendar for q.
func (c *Cache) SaveMonth(ctx context.Context, q MonthQuery, days []api.Data) error {
	return save(ctx, c, q.key(), days)
}
