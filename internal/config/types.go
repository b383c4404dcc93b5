package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, lowest priority first
}

// Default values.
const (
	DefaultStorage     = "file"
	DefaultDataDir     = "~/.simpletodo/data"
	DefaultStorageKey  = "tasks"
	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPrefix = "simpletodo:"
	DefaultSQLDriver   = "sqlite3"
	DefaultIDScheme    = "timestamp"
	DefaultLogDir      = "~/.simpletodo/logs"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// Config holds the full configuration for simpletodo.
type Config struct {
	// Storage backend: file, memory, redis or sql
	Storage    string `toml:"storage"`
	DataDir    string `toml:"data_dir"`
	StorageKey string `toml:"storage_key"`

	Redis RedisConfig `toml:"redis"`
	SQL   SQLConfig   `toml:"sql"`

	// Task id generation: timestamp or uuid
	IDScheme string `toml:"id_scheme"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// RedisConfig holds settings for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// SQLConfig holds settings for the sql backend.
type SQLConfig struct {
	Driver string `toml:"driver"` // sqlite3, postgres or mysql
	DSN    string `toml:"dsn"`    // defaults to <data_dir>/tasks.db for sqlite3
}

// configFields returns the list of configurable field names for source tracking.
// Nested tables use dotted names matching their TOML keys.
func configFields() []string {
	return []string{
		"storage",
		"data_dir",
		"storage_key",
		"redis.addr",
		"redis.password",
		"redis.db",
		"redis.prefix",
		"sql.driver",
		"sql.dsn",
		"id_scheme",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
