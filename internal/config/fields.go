package config

import "strconv"

// Field is one effective configuration value.
type Field struct {
	Name   string
	Value  string
	Source ConfigSource
}

// Fields lists the effective values in configFields order. Secrets are masked.
func (c *ConfigWithSources) Fields() []Field {
	cfg := c.Config
	values := map[string]string{
		"storage":        cfg.Storage,
		"data_dir":       cfg.DataDir,
		"storage_key":    cfg.StorageKey,
		"redis.addr":     cfg.Redis.Addr,
		"redis.password": mask(cfg.Redis.Password),
		"redis.db":       strconv.Itoa(cfg.Redis.DB),
		"redis.prefix":   cfg.Redis.Prefix,
		"sql.driver":     cfg.SQL.Driver,
		"sql.dsn":        cfg.SQL.DSN,
		"id_scheme":      cfg.IDScheme,
		"log_dir":        cfg.LogDir,
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": strconv.FormatBool(cfg.LogTimestamps),
		"log_caller":     strconv.FormatBool(cfg.LogCaller),
	}

	fields := make([]Field, 0, len(values))
	for _, name := range configFields() {
		source := c.Sources[name]
		if source == "" {
			source = SourceDefault
		}
		fields = append(fields, Field{Name: name, Value: values[name], Source: source})
	}
	return fields
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
