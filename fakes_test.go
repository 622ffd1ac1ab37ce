package bpmeter

import (
	"sync"
	"time"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	ticker *fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ticker: &fakeTicker{c: make(chan time.Time)},
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After advances the clock by d and fires immediately.
func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	return c.ticker
}

// fakeTicker only fires when the test sends on c.
type fakeTicker struct {
	c chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()               {}

// scriptSensor replays readings, repeating the last one when the script runs
// out. errs makes the n-th read (0-based) fail.
type scriptSensor struct {
	readings []float64
	errs     map[int]error
	calls    int
}

func (s *scriptSensor) Pressure() (float64, error) {
	i := s.calls
	s.calls++
	if err, ok := s.errs[i]; ok {
		return 0, err
	}
	if i >= len(s.readings) {
		return s.readings[len(s.readings)-1], nil
	}
	return s.readings[i], nil
}

type funcSensor func() (float64, error)

func (f funcSensor) Pressure() (float64, error) { return f() }

// scriptTrigger replays button states, repeating the last one.
type scriptTrigger struct {
	states []bool
	calls  int
}

func (t *scriptTrigger) Pressed() bool {
	i := t.calls
	t.calls++
	if i >= len(t.states) {
		return t.states[len(t.states)-1]
	}
	return t.states[i]
}

func pressedAfter(released, pressed int) []bool {
	states := make([]bool, released+pressed)
	for i := released; i < len(states); i++ {
		states[i] = true
	}
	return states
}

type recordDisplay struct {
	mu        sync.Mutex
	statuses  int
	recording []bool
	over      []bool
	warnings  []bool
}

func (d *recordDisplay) Status(float64, float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses++
}

func (d *recordDisplay) Recording(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recording = append(d.recording, on)
}

func (d *recordDisplay) Overpressure(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.over = append(d.over, on)
}

func (d *recordDisplay) ReleaseWarning(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnings = append(d.warnings, on)
}

func (d *recordDisplay) warningsSeen() []bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bool(nil), d.warnings...)
}

// notifyDisplay signals every release warning update.
type notifyDisplay struct {
	*recordDisplay
	warned chan struct{}
}

func newNotifyDisplay() *notifyDisplay {
	return &notifyDisplay{
		recordDisplay: &recordDisplay{},
		warned:        make(chan struct{}, 1),
	}
}

func (d *notifyDisplay) ReleaseWarning(on bool) {
	d.recordDisplay.ReleaseWarning(on)
	d.warned <- struct{}{}
}
