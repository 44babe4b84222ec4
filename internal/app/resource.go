package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Lafiorentina/siteweb/internal/adapters/observability"
)

// State is where a section's remote content stands.
type State int

const (
	Unloaded State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// Fetcher retrieves and normalizes one section's content.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Resource holds one section's content. It is fetched at most once; until then (or after a
// failed fetch) Get reports no value and renderers show their empty view.
type Resource[T any] struct {
	name  string
	fetch Fetcher[T]

	once sync.Once
	err  error

	mu     sync.RWMutex
	state  State
	value  T
	closed bool
}

func NewResource[T any](name string, fetch Fetcher[T]) *Resource[T] {
	return &Resource[T]{name: name, fetch: fetch}
}

func (r *Resource[T]) Name() string { return r.name }

// Load runs the fetcher on the first call and returns its error on every call.
// Failures are logged and leave the previous (empty) value in place.
func (r *Resource[T]) Load(ctx context.Context) error {
	r.once.Do(func() { r.err = r.load(ctx) })
	return r.err
}

func (r *Resource[T]) load(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	prev := r.state
	r.state = Loading
	r.mu.Unlock()

	v, err := r.fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		observability.ObserveFetch(r.name, "discarded")
		return err
	}
	if err != nil {
		r.state = prev
		observability.ObserveFetch(r.name, "error")
		log.Warn().
			Str("section", r.name).
			Str("err_type", observability.LabelErr(err)).
			Err(err).
			Msg("content fetch failed")
		return err
	}
	r.value = v
	r.state = Loaded
	observability.ObserveFetch(r.name, "ok")
	log.Debug().Str("section", r.name).Msg("content fetched")
	return nil
}

// Get returns the content and whether it has been loaded.
func (r *Resource[T]) Get() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != Loaded {
		var zero T
		return zero, false
	}
	return r.value, true
}

func (r *Resource[T]) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Close tears the resource down; a fetch still in flight will not write its result.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}
