// Package kv provides the key-value stores the task list is persisted to.
//
// Every backend stores opaque byte values under string keys and reports a
// missing key with ErrNotFound. Backends:
//
//   - file:   one file per key under a data directory
//   - memory: process-local map
//   - redis:  GET/SET on a Redis server
//   - sql:    a two-column table in sqlite3, postgres or mysql
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/simpletodo/internal/utils"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQL    = "sql"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// file
	DataDir string

	// redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// sql
	SQLDriver string
	SQLDSN    string
}

// Open returns the store selected by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch utils.NormalizeName(opts.Backend) {
	case "", BackendFile:
		return NewFileStore(opts.DataDir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		return NewRedisStore(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		})
	case BackendSQL:
		return NewSQLStore(ctx, opts.SQLDriver, opts.SQLDSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
