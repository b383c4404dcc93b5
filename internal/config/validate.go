package config

import (
	"errors"
	"fmt"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

// Validate checks enum-valued fields. Backend reachability is checked when
// the store is opened.
func (c *Config) Validate() error {
	var errs []error

	switch normalize(c.Storage) {
	case StorageFile, StorageMemory, StorageRedis, StorageSQL:
	default:
		errs = append(errs, fmt.Errorf("storage: unknown backend %q", c.Storage))
	}

	if normalize(c.Storage) == StorageFile && c.DataDir == "" {
		errs = append(errs, errors.New("data_dir: required for the file backend"))
	}
	if normalize(c.Storage) == StorageRedis && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr: required for the redis backend"))
	}
	if normalize(c.Storage) == StorageSQL && c.SQL.DSN == "" {
		errs = append(errs, fmt.Errorf("sql.dsn: required for driver %q", c.SQL.Driver))
	}

	switch normalize(c.IDScheme) {
	case "timestamp", "uuid":
	default:
		errs = append(errs, fmt.Errorf("id_scheme: unknown scheme %q", c.IDScheme))
	}

	switch normalize(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}

	switch normalize(c.LogFormat) {
	case "", "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log_format: unknown format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}
