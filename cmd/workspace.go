package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/simpletodo/internal/app"
	"github.com/nibzard/simpletodo/internal/config"
	"github.com/nibzard/simpletodo/internal/kv"
	"github.com/nibzard/simpletodo/internal/logging"
	"github.com/nibzard/simpletodo/internal/persist"
	"github.com/nibzard/simpletodo/internal/todo"
)

// closeTimeout bounds the final flush when the command context is already done.
const closeTimeout = 5 * time.Second

// workspace is the loaded task list plus the storage behind it.
type workspace struct {
	store    kv.Store
	gateway  *persist.Gateway
	app      *app.App
	logger   *log.Logger
	saveErrs chan error
}

// storeOptions maps config onto kv.Options.
func storeOptions(cfg *config.Config) kv.Options {
	return kv.Options{
		Backend:       cfg.Storage,
		DataDir:       cfg.DataDir,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		RedisPrefix:   cfg.Redis.Prefix,
		SQLDriver:     cfg.SQL.Driver,
		SQLDSN:        cfg.SQL.DSN,
	}
}

// openStore opens the configured backend. For sqlite file databases the
// parent directory is created first.
func openStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	opts := storeOptions(cfg)
	if strings.EqualFold(strings.TrimSpace(opts.Backend), kv.BackendSQL) {
		if err := ensureSQLiteDir(opts.SQLDriver, opts.SQLDSN); err != nil {
			return nil, err
		}
	}
	store, err := kv.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Storage, err)
	}
	return store, nil
}

func ensureSQLiteDir(driver, dsn string) error {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite3", "sqlite":
	default:
		return nil
	}
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return fmt.Errorf("create sqlite dir: %w", err)
	}
	return nil
}

// openWorkspace opens storage, loads the list and builds the controller.
// Asynchronous save failures are delivered on saveErrs.
func openWorkspace(ctx context.Context, cfg *config.Config, logger *log.Logger) (*workspace, error) {
	ids, err := todo.NewIDGenerator(cfg.IDScheme)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	w := &workspace{
		store:    store,
		logger:   logger,
		saveErrs: make(chan error, 16),
	}
	w.gateway = persist.New(store,
		persist.WithKey(cfg.StorageKey),
		persist.WithLogger(logger),
		persist.WithErrorHandler(func(err error) {
			select {
			case w.saveErrs <- err:
			default:
			}
		}),
	)

	initial := w.gateway.LoadList(ctx)
	w.app = app.New(initial, w.gateway, app.WithIDGenerator(ids), app.WithLogger(logger))
	return w, nil
}

// close flushes queued saves, stops the writer and closes the store. Save
// failures that nobody consumed are returned.
func (w *workspace) close(ctx context.Context) error {
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
	}

	var errs []error
	if err := w.gateway.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flushing tasks: %w", err))
	}
	if err := w.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing storage: %w", err))
	}
drain:
	for {
		select {
		case err := <-w.saveErrs:
			errs = append(errs, err)
		default:
			break drain
		}
	}
	stats := w.gateway.Stats()
	w.logger.Debug("storage closed", "writes", stats.Writes, "failures", stats.Failures, "coalesced", stats.Coalesced)
	return errors.Join(errs...)
}

// newLogger returns the stderr logger used by non-interactive commands.
func newLogger(cfg *config.Config) *log.Logger {
	return logging.New(stderr, logging.OptionsFromConfig(cfg))
}

// resolveID maps a CLI task reference to an id. "#n" is a 1-based
// position; anything else must be an existing id, falling back to a bare
// position number when no id matches.
func resolveID(tasks todo.List, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("task reference is empty")
	}
	if pos, ok := strings.CutPrefix(ref, "#"); ok {
		return idAt(tasks, pos, ref)
	}
	if _, found := tasks.Get(ref); found {
		return ref, nil
	}
	if id, err := idAt(tasks, ref, ref); err == nil {
		return id, nil
	}
	return "", &todo.NotFoundError{ID: ref}
}

func idAt(tasks todo.List, pos, ref string) (string, error) {
	var n int
	if _, err := fmt.Sscanf(pos, "%d", &n); err != nil || fmt.Sprint(n) != pos {
		return "", fmt.Errorf("invalid task position %q", ref)
	}
	if n < 1 || n > tasks.Len() {
		return "", &todo.NotFoundError{ID: ref}
	}
	return tasks[n-1].ID, nil
}
