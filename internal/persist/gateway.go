// Package persist loads the task list once and writes it back after every
// mutation.
//
// Save is fire-and-forget: it snapshots the list and returns. A single
// writer goroutine drains snapshots in order and skips any that were
// superseded before it got to them, so the last Save call always wins.
// Failures are logged and handed to the optional error handler; they never
// undo the in-memory mutation.
package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nibzard/simpletodo/internal/kv"
	"github.com/nibzard/simpletodo/internal/todo"
)

// DefaultKey is the storage key holding the serialized list.
const DefaultKey = "tasks"

// PersistenceError reports a failed storage read or write.
type PersistenceError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ErrClosed is wrapped by errors reported for saves after Close.
var ErrClosed = errors.New("gateway closed")

// Stats counts writer activity.
type Stats struct {
	Writes    int // successful writes
	Failures  int // failed writes
	Coalesced int // snapshots replaced before they were written
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(g *Gateway) {
		if key != "" {
			g.key = key
		}
	}
}

// WithLogger sets the logger used for load and save failures.
func WithLogger(logger *log.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithErrorHandler registers fn to observe asynchronous save failures.
// fn runs on the writer goroutine.
func WithErrorHandler(fn func(error)) Option {
	return func(g *Gateway) {
		g.onError = fn
	}
}

// Gateway adapts a kv.Store to whole-list load and save.
type Gateway struct {
	store   kv.Store
	key     string
	logger  *log.Logger
	onError func(error)

	writeMu sync.Mutex // serializes store writes

	mu      sync.Mutex
	pending []byte
	busy    bool
	closed  bool
	waiters []chan struct{}
	stats   Stats

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// New starts a gateway over store. Call Close to stop the writer.
func New(store kv.Store, opts ...Option) *Gateway {
	g := &Gateway{
		store:  store,
		key:    DefaultKey,
		logger: log.Default(),
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	go g.run()
	return g
}

// Key returns the storage key.
func (g *Gateway) Key() string {
	return g.key
}

// Load reads the raw persisted value. A missing key is reported as
// found=false with a nil error.
func (g *Gateway) Load(ctx context.Context) (data []byte, found bool, err error) {
	data, err = g.store.Get(ctx, g.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &PersistenceError{Op: "load", Key: g.key, Err: err}
	}
	return data, true, nil
}

// LoadList loads and decodes the list. Any failure is logged and yields an
// empty list.
func (g *Gateway) LoadList(ctx context.Context) todo.List {
	data, found, err := g.Load(ctx)
	if err != nil {
		g.logger.Error("loading tasks", "err", err)
		return todo.List{}
	}
	if !found {
		g.logger.Debug("no stored tasks", "key", g.key)
		return todo.List{}
	}
	l := todo.Decode(data, g.logger)
	g.logger.Debug("loaded tasks", "key", g.key, "count", l.Len())
	return l
}

// Save queues a snapshot of l for writing and returns immediately.
func (g *Gateway) Save(l todo.List) {
	data, err := todo.Encode(l)
	if err != nil {
		g.report(&PersistenceError{Op: "save", Key: g.key, Err: err})
		return
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.report(&PersistenceError{Op: "save", Key: g.key, Err: ErrClosed})
		return
	}
	if g.pending != nil {
		g.stats.Coalesced++
	}
	g.pending = data
	g.mu.Unlock()

	select {
	case g.wake <- struct{}{}:
	default:
	}
}

// SaveSync waits for queued snapshots, then writes l and returns the
// result.
func (g *Gateway) SaveSync(ctx context.Context, l todo.List) error {
	if err := g.Flush(ctx); err != nil {
		return err
	}
	data, err := todo.Encode(l)
	if err != nil {
		return &PersistenceError{Op: "save", Key: g.key, Err: err}
	}
	if err := g.write(ctx, data); err != nil {
		return &PersistenceError{Op: "save", Key: g.key, Err: err}
	}
	return nil
}

// Flush blocks until every queued snapshot has been written or ctx ends.
func (g *Gateway) Flush(ctx context.Context) error {
	g.mu.Lock()
	if g.pending == nil && !g.busy {
		g.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	g.waiters = append(g.waiters, ch)
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes and stops the writer. Later Saves are
// reported as failures wrapping ErrClosed.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return g.Flush(ctx)
	}
	g.closed = true
	g.mu.Unlock()

	flushErr := g.Flush(ctx)
	close(g.stop)

	select {
	case <-g.done:
	case <-ctx.Done():
		if flushErr == nil {
			flushErr = ctx.Err()
		}
	}
	return flushErr
}

// Stats returns a snapshot of the writer counters.
func (g *Gateway) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

func (g *Gateway) run() {
	defer close(g.done)
	for {
		select {
		case <-g.stop:
			// Close stops accepting saves before it signals, so this
			// drain sees the final snapshot.
			g.drain()
			return
		case <-g.wake:
			g.drain()
		}
	}
}

// drain writes the newest pending snapshot until none is left, then wakes
// Flush callers.
func (g *Gateway) drain() {
	for {
		g.mu.Lock()
		data := g.pending
		g.pending = nil
		if data == nil {
			g.busy = false
			for _, w := range g.waiters {
				close(w)
			}
			g.waiters = nil
			g.mu.Unlock()
			return
		}
		g.busy = true
		g.mu.Unlock()

		err := g.write(context.Background(), data)

		g.mu.Lock()
		if err != nil {
			g.stats.Failures++
		} else {
			g.stats.Writes++
		}
		g.mu.Unlock()

		if err != nil {
			g.report(&PersistenceError{Op: "save", Key: g.key, Err: err})
		}
	}
}

func (g *Gateway) write(ctx context.Context, data []byte) error {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	return g.store.Set(ctx, g.key, data)
}

func (g *Gateway) report(err error) {
	g.logger.Error("saving tasks", "err", err)
	if g.onError != nil {
		g.onError(err)
	}
}
