package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lox/pogoda/internal/screen"
)

var testLocations = []string{"Москва", "Санкт-Петербург", "Казань"}

// manualClock never fires on its own; the registry tests only care about
// mount and teardown.
type manualClock struct {
	mu      sync.Mutex
	stopped int
}

type manualTimer struct{ c *manualClock }

func (t manualTimer) Stop() bool {
	t.c.mu.Lock()
	t.c.stopped++
	t.c.mu.Unlock()
	return true
}

func (c *manualClock) AfterFunc(time.Duration, func()) screen.Timer {
	return manualTimer{c: c}
}

func (c *manualClock) Stopped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

type fakeNow struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *manualClock, *fakeNow) {
	t.Helper()
	clock := &manualClock{}
	now := &fakeNow{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithScreenOptions(screen.WithClock(clock)), WithNow(now.Now)}, opts...)
	r := NewRegistry(testLocations, opts...)
	t.Cleanup(r.Shutdown)
	return r, clock, now
}

func TestMountAndGet(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	id, s, err := r.Mount()
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}
	if !s.State().IsLoading {
		t.Error("new screen should be loading")
	}

	got, ok := r.Get(id)
	if !ok || got != s {
		t.Fatalf("Get(%s) = %v, %v", id, got, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should fail")
	}

	id2, _, err := r.Mount()
	if err != nil {
		t.Fatal(err)
	}
	if id2 == id {
		t.Error("session ids must be unique")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestTeardown(t *testing.T) {
	r, clock, _ := newTestRegistry(t)

	id, s, err := r.Mount()
	if err != nil {
		t.Fatal(err)
	}
	if !r.Teardown(id) {
		t.Fatal("Teardown returned false for mounted session")
	}
	if r.Teardown(id) {
		t.Error("second Teardown should return false")
	}
	if !s.Closed() {
		t.Error("screen not closed on teardown")
	}
	if clock.Stopped() != 1 {
		t.Errorf("timers stopped = %d, want 1", clock.Stopped())
	}
	if err := s.SetForecastTab(screen.TabHourly); !errors.Is(err, screen.ErrClosed) {
		t.Errorf("mutation after teardown err = %v", err)
	}
}

func TestReapIdle(t *testing.T) {
	r, _, now := newTestRegistry(t, WithIdleTimeout(10*time.Minute))

	stale, _, _ := r.Mount()
	now.Advance(6 * time.Minute)
	fresh, _, _ := r.Mount()
	now.Advance(6 * time.Minute)

	if n := r.Reap(now.Now()); n != 1 {
		t.Fatalf("Reap() = %d, want 1", n)
	}
	if _, ok := r.Get(stale); ok {
		t.Error("stale session survived reap")
	}
	if _, ok := r.Get(fresh); !ok {
		t.Error("fresh session was reaped")
	}
}

func TestGetRefreshesIdle(t *testing.T) {
	r, _, now := newTestRegistry(t, WithIdleTimeout(10*time.Minute))

	id, _, _ := r.Mount()
	now.Advance(8 * time.Minute)
	r.Get(id)
	now.Advance(8 * time.Minute)

	if n := r.Reap(now.Now()); n != 0 {
		t.Errorf("Reap() = %d, want 0 after recent Get", n)
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	r, _, _ := newTestRegistry(t, WithReapInterval(time.Hour))

	_, s, _ := r.Mount()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !s.Closed() {
		t.Error("screen not torn down on shutdown")
	}
	if _, _, err := r.Mount(); !errors.Is(err, ErrShutdown) {
		t.Errorf("Mount after shutdown err = %v, want ErrShutdown", err)
	}
}

func TestMountWithoutLocations(t *testing.T) {
	r := NewRegistry(nil)
	if _, _, err := r.Mount(); !errors.Is(err, screen.ErrNoLocations) {
		t.Errorf("Mount err = %v, want ErrNoLocations", err)
	}
}
