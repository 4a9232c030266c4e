package screen

import (
	"errors"
	"sync"
	"testing"
	"time"
)

var testLocations = []string{"Москва", "Санкт-Петербург", "Казань"}

type fakeTimer struct {
	clock   *fakeClock
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasPending := !t.stopped
	t.stopped = true
	return wasPending
}

// fakeClock records scheduled callbacks and runs them on Fire.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, fn: f}
	c.timers = append(c.timers, t)
	c.delays = append(c.delays, d)
	return t
}

// Fire runs every pending callback, ignoring Stop, to model a timer that
// was already firing when it was stopped.
func (c *fakeClock) Fire(ignoreStop bool) {
	c.mu.Lock()
	timers := append([]*fakeTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		c.mu.Lock()
		stopped := t.stopped
		c.mu.Unlock()
		if stopped && !ignoreStop {
			continue
		}
		t.fn()
	}
}

func mountFake(t *testing.T, opts ...Option) (*Screen, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	s, err := Mount(testLocations, append([]Option{WithClock(clock)}, opts...)...)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(s.Close)
	return s, clock
}

func TestMountDefaults(t *testing.T) {
	s, clock := mountFake(t)

	want := AppState{
		ActiveForecastTab: TabCurrent,
		ActiveScreen:      ScreenWeather,
		SelectedLocation:  "Москва",
		IsLoading:         true,
	}
	if got := s.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
	if len(clock.delays) != 1 || clock.delays[0] != DefaultLoadingDelay {
		t.Errorf("scheduled delays = %v, want [%v]", clock.delays, DefaultLoadingDelay)
	}
}

func TestMountNoLocations(t *testing.T) {
	if _, err := Mount(nil); !errors.Is(err, ErrNoLocations) {
		t.Fatalf("Mount(nil) err = %v, want ErrNoLocations", err)
	}
}

func TestLoadingClearsOnce(t *testing.T) {
	loaded := 0
	s, clock := mountFake(t, WithLoadingDelay(250*time.Millisecond), WithOnLoaded(func() { loaded++ }))

	if clock.delays[0] != 250*time.Millisecond {
		t.Errorf("delay = %v, want 250ms", clock.delays[0])
	}

	clock.Fire(false)
	if s.State().IsLoading {
		t.Fatal("IsLoading still true after timer fired")
	}
	select {
	case <-s.Ready():
	default:
		t.Error("Ready() not closed after loading")
	}

	// A second firing must not re-run the transition.
	clock.Fire(true)
	if loaded != 1 {
		t.Errorf("onLoaded ran %d times, want 1", loaded)
	}

	for _, tab := range ForecastTabs() {
		if err := s.SetForecastTab(tab); err != nil {
			t.Fatalf("SetForecastTab: %v", err)
		}
		if s.State().IsLoading {
			t.Fatal("IsLoading returned to true")
		}
	}
}

func TestSetForecastTab(t *testing.T) {
	s, _ := mountFake(t)

	for _, tab := range ForecastTabs() {
		before := s.State()
		if err := s.SetForecastTab(tab); err != nil {
			t.Fatalf("SetForecastTab(%s): %v", tab, err)
		}
		after := s.State()
		before.ActiveForecastTab = tab
		if after != before {
			t.Errorf("after SetForecastTab(%s) state = %+v, want %+v", tab, after, before)
		}
	}
}

func TestSetScreen(t *testing.T) {
	s, _ := mountFake(t)

	for _, id := range ScreenIDs() {
		before := s.State()
		if err := s.SetScreen(id); err != nil {
			t.Fatalf("SetScreen(%s): %v", id, err)
		}
		before.ActiveScreen = id
		if after := s.State(); after != before {
			t.Errorf("after SetScreen(%s) state = %+v, want %+v", id, after, before)
		}
	}
}

func TestSetLocation(t *testing.T) {
	s, _ := mountFake(t)

	for _, loc := range testLocations {
		if err := s.SetLocation(loc); err != nil {
			t.Fatalf("SetLocation(%s): %v", loc, err)
		}
		if got := s.State().SelectedLocation; got != loc {
			t.Errorf("SelectedLocation = %q, want %q", got, loc)
		}
	}
}

func TestInvalidValuesRejected(t *testing.T) {
	s, _ := mountFake(t)
	before := s.State()

	if err := s.SetForecastTab("monthly"); !errors.Is(err, ErrInvalidTab) {
		t.Errorf("SetForecastTab(monthly) err = %v", err)
	}
	if err := s.SetScreen("radar"); !errors.Is(err, ErrInvalidScreen) {
		t.Errorf("SetScreen(radar) err = %v", err)
	}
	if err := s.SetLocation("Лондон"); !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("SetLocation(Лондон) err = %v", err)
	}
	if after := s.State(); after != before {
		t.Errorf("state changed on invalid input: %+v -> %+v", before, after)
	}
}

func TestParse(t *testing.T) {
	if tab, err := ParseForecastTab("hourly"); err != nil || tab != TabHourly {
		t.Errorf("ParseForecastTab(hourly) = %q, %v", tab, err)
	}
	if _, err := ParseForecastTab(""); !errors.Is(err, ErrInvalidTab) {
		t.Errorf("ParseForecastTab(\"\") err = %v", err)
	}
	if id, err := ParseScreenID("cities"); err != nil || id != ScreenCities {
		t.Errorf("ParseScreenID(cities) = %q, %v", id, err)
	}
	if _, err := ParseScreenID("Weather"); !errors.Is(err, ErrInvalidScreen) {
		t.Errorf("ParseScreenID(Weather) err = %v", err)
	}
}

func TestCloseBeforeDelay(t *testing.T) {
	clock := &fakeClock{}
	s, err := Mount(testLocations, WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}

	notified := 0
	s.Subscribe(func(AppState) { notified++ })

	s.Close()
	s.Close()

	if !clock.timers[0].stopped {
		t.Error("loading timer not stopped on teardown")
	}

	// Model the callback racing teardown.
	clock.Fire(true)

	if !s.State().IsLoading {
		t.Error("state mutated after teardown")
	}
	if notified != 0 {
		t.Errorf("listener notified %d times after teardown", notified)
	}
	select {
	case <-s.Ready():
		t.Error("Ready() closed after teardown")
	default:
	}

	if err := s.SetScreen(ScreenMap); !errors.Is(err, ErrClosed) {
		t.Errorf("SetScreen after Close err = %v, want ErrClosed", err)
	}
	if got := s.State().ActiveScreen; got != ScreenWeather {
		t.Errorf("ActiveScreen = %q after teardown, want weather", got)
	}
}

func TestSubscribe(t *testing.T) {
	s, clock := mountFake(t)

	var got []AppState
	cancel := s.Subscribe(func(st AppState) { got = append(got, st) })

	clock.Fire(false)
	s.SetForecastTab(TabWeekly)
	cancel()
	s.SetScreen(ScreenSettings)

	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if got[0].IsLoading {
		t.Error("first notification should report loading finished")
	}
	if got[1].ActiveForecastTab != TabWeekly {
		t.Errorf("second notification tab = %q, want weekly", got[1].ActiveForecastTab)
	}
}

func TestRealClock(t *testing.T) {
	s, err := Mount(testLocations, WithLoadingDelay(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	select {
	case <-s.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("loading did not clear")
	}
	if s.State().IsLoading {
		t.Error("IsLoading true after Ready")
	}
}

func TestConcurrentMutations(t *testing.T) {
	s, clock := mountFake(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); s.SetForecastTab(ForecastTabs()[i%3]) }()
		go func() { defer wg.Done(); s.SetScreen(ScreenIDs()[i%4]) }()
		go func() { defer wg.Done(); s.SetLocation(testLocations[i%3]) }()
	}
	clock.Fire(false)
	wg.Wait()

	st := s.State()
	if !st.ActiveForecastTab.Valid() || !st.ActiveScreen.Valid() || st.IsLoading {
		t.Errorf("unexpected final state %+v", st)
	}
}
