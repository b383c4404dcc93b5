package config

import (
	"flag"
)

// parseFlags defines the config flags on fs, parses args and records
// SourceFlag for every flag the user set explicitly. A nil fs gets a
// fresh ContinueOnError set.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("simpletodo", flag.ContinueOnError)
	}

	// flag name -> config field
	fields := map[string]string{
		"storage":    "storage",
		"data-dir":   "data_dir",
		"key":        "storage_key",
		"redis-addr": "redis.addr",
		"redis-db":   "redis.db",
		"sql-driver": "sql.driver",
		"sql-dsn":    "sql.dsn",
		"id-scheme":  "id_scheme",
		"log-dir":    "log_dir",
		"log-level":  "log_level",
		"log-format": "log_format",
		"ephemeral":  "storage",
	}

	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (file, memory, redis, sql)")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory for the file and sqlite backends")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key for the task list")
	fs.StringVar(&cfg.Redis.Addr, "redis-addr", cfg.Redis.Addr, "Redis address (host:port)")
	fs.IntVar(&cfg.Redis.DB, "redis-db", cfg.Redis.DB, "Redis database number")
	fs.StringVar(&cfg.SQL.Driver, "sql-driver", cfg.SQL.Driver, "SQL driver (sqlite3, postgres, mysql)")
	fs.StringVar(&cfg.SQL.DSN, "sql-dsn", cfg.SQL.DSN, "SQL data source name")
	fs.StringVar(&cfg.IDScheme, "id-scheme", cfg.IDScheme, "Task id scheme (timestamp, uuid)")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	ephemeral := fs.Bool("ephemeral", false, "Keep tasks in memory only (same as -storage memory)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *ephemeral {
		cfg.Storage = StorageMemory
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := fields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
