package bpmeter

import "time"

type (
	// Clock abstracts the subset of package time used by a session, so tests
	// can control apparent time.
	Clock interface {
		Now() time.Time
		After(d time.Duration) <-chan time.Time
		NewTicker(d time.Duration) Ticker
	}

	// Ticker abstracts the functionality of time.Ticker.
	Ticker interface {
		C() <-chan time.Time
		Stop()
	}

	wallClock struct{}

	ticker struct {
		*time.Ticker
	}
)

// Now indirects time.Now.
func (wallClock) Now() time.Time {
	return time.Now()
}

// After indirects time.After.
func (wallClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// NewTicker indirects time.NewTicker.
func (wallClock) NewTicker(d time.Duration) Ticker {
	return ticker{Ticker: time.NewTicker(d)}
}

// C indirects time.Ticker.C.
func (t ticker) C() <-chan time.Time {
	return t.Ticker.C
}
