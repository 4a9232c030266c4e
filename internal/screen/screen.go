package screen

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/lox/pogoda/internal/theme"
)

// DefaultLoadingDelay is how long a freshly mounted screen shows the loading
// view.
const DefaultLoadingDelay = time.Second

var (
	ErrNoLocations     = errors.New("screen: no locations configured")
	ErrInvalidTab      = errors.New("screen: invalid forecast tab")
	ErrInvalidScreen   = errors.New("screen: invalid screen")
	ErrUnknownLocation = errors.New("screen: unknown location")
	ErrClosed          = errors.New("screen: torn down")
)

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules one-shot callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Screen at mount.
type Option func(*Screen)

// WithLoadingDelay overrides DefaultLoadingDelay.
func WithLoadingDelay(d time.Duration) Option {
	return func(s *Screen) { s.delay = d }
}

// WithClock replaces the wall clock used to schedule the loading timer.
func WithClock(c Clock) Option {
	return func(s *Screen) { s.clock = c }
}

// WithOnLoaded registers a callback run once when loading finishes.
func WithOnLoaded(fn func()) Option {
	return func(s *Screen) { s.onLoaded = fn }
}

// Screen owns the AppState of one mounted weather screen. All methods are
// safe for concurrent use.
type Screen struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	state     AppState
	locations []string
	closed    bool
	timer     Timer
	ready     chan struct{}
	listeners map[int]func(AppState)
	nextID    int

	delay    time.Duration
	clock    Clock
	onLoaded func()
}

// Mount creates a screen with default state and starts the loading timer.
func Mount(locations []string, opts ...Option) (*Screen, error) {
	if len(locations) == 0 {
		return nil, ErrNoLocations
	}

	s := &Screen{
		state: AppState{
			ActiveForecastTab: TabCurrent,
			ActiveScreen:      ScreenWeather,
			SelectedLocation:  locations[0],
			IsLoading:         true,
		},
		locations: slices.Clone(locations),
		ready:     make(chan struct{}),
		listeners: make(map[int]func(AppState)),
		delay:     DefaultLoadingDelay,
		clock:     realClock{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.timer = s.clock.AfterFunc(s.delay, s.finishLoading)
	s.mu.Unlock()
	return s, nil
}

func (s *Screen) finishLoading() {
	s.mu.Lock()
	if s.closed || !s.state.IsLoading {
		s.mu.Unlock()
		return
	}
	s.state.IsLoading = false
	close(s.ready)
	onLoaded := s.onLoaded
	s.mu.Unlock()

	if onLoaded != nil {
		onLoaded()
	}
	s.notify()
}

// State returns a copy of the current state.
func (s *Screen) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Locations returns the locations this screen can select from.
func (s *Screen) Locations() []string {
	return slices.Clone(s.locations)
}

// Ready is closed once the loading view has cleared. It is never closed if
// the screen is torn down first.
func (s *Screen) Ready() <-chan struct{} {
	return s.ready
}

// Theme returns the gradient token for the given wall-clock time.
func (s *Screen) Theme(now time.Time) theme.Token {
	return theme.ForTime(now)
}

// SetForecastTab switches the weather screen sub-view.
func (s *Screen) SetForecastTab(tab ForecastTab) error {
	if !tab.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTab, tab)
	}
	return s.update(func(st *AppState) { st.ActiveForecastTab = tab })
}

// SetScreen switches the top-level screen.
func (s *Screen) SetScreen(id ScreenID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScreen, id)
	}
	return s.update(func(st *AppState) { st.ActiveScreen = id })
}

// SetLocation selects one of the configured locations.
func (s *Screen) SetLocation(location string) error {
	if !slices.Contains(s.locations, location) {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, location)
	}
	return s.update(func(st *AppState) { st.SelectedLocation = location })
}

func (s *Screen) update(fn func(*AppState)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	fn(&s.state)
	s.mu.Unlock()

	s.notify()
	return nil
}

// Subscribe registers fn to receive the state after every change. The
// returned function removes the subscription. fn must not mutate the screen.
func (s *Screen) Subscribe(fn func(AppState)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// notify delivers the latest state to listeners. Deliveries are serialised
// so the last one a listener sees is never older than an earlier one.
func (s *Screen) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	st := s.state
	fns := make([]func(AppState), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Close tears the screen down. A loading timer that has not fired yet is
// cancelled and a firing already in flight is discarded. Close is
// idempotent.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	clear(s.listeners)
}

// Closed reports whether the screen has been torn down.
func (s *Screen) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
