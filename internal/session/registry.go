package session

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lox/pogoda/internal/metrics"
	"github.com/lox/pogoda/internal/screen"
)

// DefaultIdleTimeout is how long a screen survives without requests.
const DefaultIdleTimeout = 30 * time.Minute

var ErrShutdown = errors.New("session: registry shut down")

type entry struct {
	screen   *screen.Screen
	lastSeen time.Time
}

// Registry tracks the screen mounted for each browser session.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*entry
	locations []string
	closed    bool

	idle         time.Duration
	reapInterval time.Duration
	now          func() time.Time
	screenOpts   []screen.Option
}

type Option func(*Registry)

// WithIdleTimeout overrides DefaultIdleTimeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Registry) { r.idle = d }
}

// WithReapInterval sets how often Run looks for idle screens.
func WithReapInterval(d time.Duration) Option {
	return func(r *Registry) { r.reapInterval = d }
}

// WithScreenOptions passes options to every mounted screen.
func WithScreenOptions(opts ...screen.Option) Option {
	return func(r *Registry) { r.screenOpts = append(r.screenOpts, opts...) }
}

// WithNow replaces the clock used for idle bookkeeping.
func WithNow(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(locations []string, opts ...Option) *Registry {
	r := &Registry{
		entries:      make(map[string]*entry),
		locations:    slices.Clone(locations),
		idle:         DefaultIdleTimeout,
		reapInterval: time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mount creates a new screen and returns its session id.
func (r *Registry) Mount() (string, *screen.Screen, error) {
	opts := append(slices.Clone(r.screenOpts), screen.WithOnLoaded(metrics.LoadingCompleted.Inc))
	s, err := screen.Mount(r.locations, opts...)
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		s.Close()
		return "", nil, ErrShutdown
	}
	r.entries[id] = &entry{screen: s, lastSeen: r.now()}
	r.mu.Unlock()

	metrics.ScreensMounted.Inc()
	metrics.ScreensActive.Inc()
	return id, s, nil
}

// Get returns the screen for id and marks the session as active.
func (r *Registry) Get(id string) (*screen.Screen, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.screen, true
}

// Teardown closes the screen for id. It reports whether id was mounted.
func (r *Registry) Teardown(id string) bool {
	return r.remove(id, "closed")
}

func (r *Registry) remove(id, reason string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	e.screen.Close()
	metrics.ScreensTornDown.WithLabelValues(reason).Inc()
	metrics.ScreensActive.Dec()
	return true
}

// Locations returns the locations every screen selects from.
func (r *Registry) Locations() []string {
	return slices.Clone(r.locations)
}

// Len returns the number of mounted screens.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reap tears down screens idle for longer than the idle timeout.
func (r *Registry) Reap(now time.Time) int {
	r.mu.Lock()
	var expired []string
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.idle {
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	n := 0
	for _, id := range expired {
		if r.remove(id, "idle") {
			n++
		}
	}
	return n
}

// Run reaps idle screens until ctx is done, then tears down every screen.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Shutdown()
			return
		case <-ticker.C:
			if n := r.Reap(r.now()); n > 0 {
				log.Printf("session: reaped %d idle screens", n)
			}
		}
	}
}

// Shutdown tears down every screen and refuses further mounts.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.remove(id, "shutdown")
	}
	if len(ids) > 0 {
		log.Printf("session: tore down %d screens", len(ids))
	}
}
