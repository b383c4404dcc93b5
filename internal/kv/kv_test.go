package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: expected ErrNotFound, got %v", err)
	}

	if err := s.Set(ctx, "tasks", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("Get: got %s", got)
	}

	if err := s.Set(ctx, "tasks", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, err = s.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("Get after overwrite failed: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("Get after overwrite: got %s, want []", got)
	}

	if err := s.Set(ctx, "other", []byte("x")); err != nil {
		t.Fatalf("Set other failed: %v", err)
	}
	if err := s.Delete(ctx, "tasks"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "tasks"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: expected ErrNotFound, got %v", err)
	}
	if got, err := s.Get(ctx, "other"); err != nil || string(got) != "x" {
		t.Errorf("unrelated key affected: %s, %v", got, err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	if err := s.Set(ctx, "k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'z'
	got, _ := s.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller buffer: %s", got)
	}
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()
	if err := s.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	exerciseStore(t, s)
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(context.Background(), "tasks", []byte("[]")); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatalf("expected tasks.json: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("file contents: got %s", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore(" "); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestEscapeKey(t *testing.T) {
	tests := map[string]string{
		"tasks":      "tasks",
		"a/b":        "a%2Fb",
		"a_b":        "a_b",
		"../../etc":  "..%2F..%2Fetc",
		"user:tasks": "user%3Atasks",
		"50%":        "50%25",
	}
	for in, want := range tests {
		if got := escapeKey(in); got != want {
			t.Errorf("escapeKey(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestFileStoreKeysDoNotCollide(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Set(ctx, "a/b", []byte("slash")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "a_b", []byte("underscore")); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Get(ctx, "a/b"); err != nil || string(got) != "slash" {
		t.Errorf("Get(a/b): got %q, %v", got, err)
	}
	if err := s.Set(ctx, "", []byte("x")); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: "simpletodo:"})
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer s.Close()

	exerciseStore(t, s)

	if err := s.Set(context.Background(), "tasks", []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if got, err := mr.Get("simpletodo:tasks"); err != nil || got != "[]" {
		t.Errorf("raw redis value: got %q, %v", got, err)
	}
	if ttl := mr.TTL("simpletodo:tasks"); ttl != 0 {
		t.Errorf("expected no TTL, got %v", ttl)
	}
}

func TestRedisStoreWithClient(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(rdb, "")
	defer s.Close()

	if err := mr.Set("tasks", "[]"); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(context.Background(), "tasks")
	if err != nil || string(got) != "[]" {
		t.Errorf("Get: got %q, %v", got, err)
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr}); err == nil {
		t.Error("expected ping error")
	}
}

func TestSQLStoreSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "tasks.db")
	s, err := NewSQLStore(context.Background(), "sqlite3", dsn)
	if err != nil {
		t.Fatalf("NewSQLStore failed: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLStoreReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "tasks.db")

	s, err := NewSQLStore(ctx, "sqlite", dsn)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "tasks", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLStore(ctx, "sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "tasks")
	if err != nil || string(got) != `[{"id":"1"}]` {
		t.Errorf("after reopen: got %s, %v", got, err)
	}
}

func TestLookupDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"sqlite3", "sqlite3", false},
		{"SQLite", "sqlite3", false},
		{"postgres", "postgres", false},
		{"postgresql", "postgres", false},
		{"mysql", "mysql", false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := lookupDialect(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if d.driver != tt.want {
				t.Errorf("driver: got %q, want %q", d.driver, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("default is file", func(t *testing.T) {
		s, err := Open(ctx, Options{DataDir: t.TempDir()})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := s.(*FileStore); !ok {
			t.Errorf("got %T, want *FileStore", s)
		}
	})

	t.Run("memory", func(t *testing.T) {
		s, err := Open(ctx, Options{Backend: "Memory"})
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := s.(*MemoryStore); !ok {
			t.Errorf("got %T, want *MemoryStore", s)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, err := Open(ctx, Options{Backend: "redis", RedisAddr: mr.Addr()})
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		if _, ok := s.(*RedisStore); !ok {
			t.Errorf("got %T, want *RedisStore", s)
		}
	})

	t.Run("sql", func(t *testing.T) {
		s, err := Open(ctx, Options{Backend: "sql", SQLDriver: "sqlite3", SQLDSN: filepath.Join(t.TempDir(), "kv.db")})
		if err != nil {
			t.Fatal(err)
		}
		defer s.Close()
		if _, ok := s.(*SQLStore); !ok {
			t.Errorf("got %T, want *SQLStore", s)
		}
	})

	t.Run("sql without dsn", func(t *testing.T) {
		if _, err := Open(ctx, Options{Backend: "sql", SQLDriver: "sqlite3"}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("unknown sql driver", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: "sql", SQLDriver: "oracle", SQLDSN: "x"})
		if err == nil {
			t.Fatal("expected error")
		}
		for _, d := range SQLDrivers() {
			if !strings.Contains(err.Error(), d) {
				t.Errorf("error should list %s: %v", d, err)
			}
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: "etcd"})
		if err == nil || !strings.Contains(err.Error(), "unknown storage backend") {
			t.Errorf("expected unknown backend error, got %v", err)
		}
	})
}
