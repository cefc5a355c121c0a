package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Loader opens the model of one granularity.
type Loader func(g Granularity) (Session, error)

type entry struct {
	once  sync.Once
	sess  Session
	err   error
	ready bool // guarded by Registry.mu
}

// Registry lazily opens and caches one Session per granularity. Loading
// happens at most once per granularity; a failed load is cached too and
// reported to every later caller.
type Registry struct {
	load Loader

	mu      sync.Mutex
	entries map[Granularity]*entry
}

// NewRegistry creates a registry backed by load.
func NewRegistry(load Loader) *Registry {
	return &Registry{
		load:    load,
		entries: make(map[Granularity]*entry),
	}
}

// Get returns the session for g, opening it on first use.
func (r *Registry) Get(g Granularity) (Session, error) {
	r.mu.Lock()
	e, ok := r.entries[g]
	if !ok {
		e = &entry{}
		r.entries[g] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		start := time.Now()
		e.sess, e.err = r.load(g)
		if e.err != nil {
			slog.Error("failed to load model", "granularity", g, "error", e.err)
			return
		}
		slog.Debug("model loaded", "granularity", g, "duration", time.Since(start))
		r.mu.Lock()
		e.ready = true
		r.mu.Unlock()
	})
	return e.sess, e.err
}

// Loaded reports whether g has been opened successfully.
func (r *Registry) Loaded(g Granularity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[g]
	return ok && e.ready
}

// Close closes every open session. Loads still in flight are waited for
// and their sessions closed. A Get that picked up an entry before Close and
// had not started loading yet fails with ErrClosed; later calls to Get load
// afresh.
func (r *Registry) Close() error {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[Granularity]*entry)
	r.mu.Unlock()

	var errs []error
	for _, e := range entries {
		// blocks until a running load finishes
		e.once.Do(func() { e.err = ErrClosed })
		if e.err == nil && e.sess != nil {
			if err := e.sess.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
