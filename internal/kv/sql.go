package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nibzard/simpletodo/internal/utils"
)

// dialect holds the statements that differ between drivers.
type dialect struct {
	driver string
	create string
	get    string
	upsert string
	delete string
}

var dialects = map[string]dialect{
	"sqlite3": {
		driver: "sqlite3",
		create: `CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(255) PRIMARY KEY,
			v TEXT NOT NULL
		)`,
		get:    `SELECT v FROM kv_store WHERE k = ?`,
		upsert: `INSERT INTO kv_store (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		delete: `DELETE FROM kv_store WHERE k = ?`,
	},
	"postgres": {
		driver: "postgres",
		create: `CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(255) PRIMARY KEY,
			v TEXT NOT NULL
		)`,
		get:    `SELECT v FROM kv_store WHERE k = $1`,
		upsert: `INSERT INTO kv_store (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`,
		delete: `DELETE FROM kv_store WHERE k = $1`,
	},
	"mysql": {
		driver: "mysql",
		create: `CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(255) PRIMARY KEY,
			v LONGTEXT NOT NULL
		)`,
		get:    `SELECT v FROM kv_store WHERE k = ?`,
		upsert: `INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		delete: `DELETE FROM kv_store WHERE k = ?`,
	},
}

// SQLDrivers lists the accepted driver names.
func SQLDrivers() []string {
	return []string{"sqlite3", "postgres", "mysql"}
}

func lookupDialect(driver string) (dialect, error) {
	name := utils.NormalizeName(driver)
	switch name {
	case "sqlite":
		name = "sqlite3"
	case "postgresql", "pg":
		name = "postgres"
	}
	d, ok := dialects[name]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported sql driver %q (expected %s)", driver, strings.Join(SQLDrivers(), "|"))
	}
	return d, nil
}

// SQLStore keeps values in a kv_store table.
type SQLStore struct {
	db *sql.DB
	d  dialect
}

// NewSQLStore opens the database and creates the table if missing.
func NewSQLStore(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	d, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("sql dsn is empty")
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if d.driver == "sqlite3" {
		// sqlite3 allows a single writer.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, d.create); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv_store table: %w", err)
	}

	return &SQLStore{db: db, d: d}, nil
}

// Get implements Store.
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.d.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(v), nil
}

// Set implements Store.
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.d.upsert, key, string(value)); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.d.delete, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
