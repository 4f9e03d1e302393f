// Package store provides the key-value persistence the caches are built on.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by GetItem when the key does not exist.
var ErrNotFound = errors.New("store: key not found")

// Store is a minimal string key-value store.
type Store interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Backends lists the valid backend names.
var Backends = []string{BackendFile, BackendRedis, BackendSQLite, BackendMemory}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Dir           string // file backend; empty means the default cache dir
	RedisAddr     string
	RedisPassword string
	SQLitePath    string // empty means <Dir>/prayer-times.db
}

// Open creates the configured backend. An empty Backend means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFile(opts.Dir)
	case BackendMemory:
		return NewMemory(), nil
	case BackendRedis:
		return NewRedis(ctx, opts.RedisAddr, opts.RedisPassword)
	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			dir, err := resolveDir(opts.Dir)
			if err != nil {
				return nil, err
			}
			path = dir + "/prayer-times.db"
		}
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
