package config

import (
	"fmt"
	"os"

	"github.com/nibzard/simpletodo/internal/utils"
)

// loadFromEnv overrides config from SIMPLETODO_* environment variables.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	str := func(name, field string, target *string) {
		if v := os.Getenv(name); v != "" {
			*target = v
			set(field)
		}
	}
	boolean := func(name, field string, target *bool) {
		if v := os.Getenv(name); v != "" {
			*target = utils.BoolFromString(v)
			set(field)
		}
	}

	str("SIMPLETODO_STORAGE", "storage", &cfg.Storage)
	str("SIMPLETODO_DATA_DIR", "data_dir", &cfg.DataDir)
	str("SIMPLETODO_STORAGE_KEY", "storage_key", &cfg.StorageKey)

	str("SIMPLETODO_REDIS_ADDR", "redis.addr", &cfg.Redis.Addr)
	str("SIMPLETODO_REDIS_PASSWORD", "redis.password", &cfg.Redis.Password)
	str("SIMPLETODO_REDIS_PREFIX", "redis.prefix", &cfg.Redis.Prefix)
	if v := os.Getenv("SIMPLETODO_REDIS_DB"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.Redis.DB = i
			set("redis.db")
		}
	}

	str("SIMPLETODO_SQL_DRIVER", "sql.driver", &cfg.SQL.Driver)
	str("SIMPLETODO_SQL_DSN", "sql.dsn", &cfg.SQL.DSN)

	str("SIMPLETODO_ID_SCHEME", "id_scheme", &cfg.IDScheme)

	// Logging configuration
	str("SIMPLETODO_LOG_DIR", "log_dir", &cfg.LogDir)
	str("SIMPLETODO_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("SIMPLETODO_LOG_FORMAT", "log_format", &cfg.LogFormat)
	boolean("SIMPLETODO_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("SIMPLETODO_LOG_CALLER", "log_caller", &cfg.LogCaller)
}
