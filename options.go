package bpmeter

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cgxeiji/bpmeter/internal/log"
)

// An Option configures a session. Each option returns the option that restores
// the previous value.
type Option func(s *Session) Option

// Overflow selects what happens when the envelope history is full.
type Overflow int

const (
	// DropNewest keeps the session running and stops recording envelope
	// points.
	DropNewest Overflow = iota
	// StopSession ends the session as soon as a point cannot be recorded.
	StopSession
)

func (o Overflow) String() string {
	switch o {
	case DropNewest:
		return "drop"
	case StopSession:
		return "stop"
	}
	return fmt.Sprintf("Overflow(%d)", int(o))
}

// ParseOverflow parses "drop" or "stop".
func ParseOverflow(s string) (Overflow, error) {
	switch strings.ToLower(s) {
	case "", "drop":
		return DropNewest, nil
	case "stop":
		return StopSession, nil
	}
	return 0, fmt.Errorf("bpmeter: unknown overflow policy %q", s)
}

// Options applies options and returns the option that restores the previous
// value of the last one passed.
func (s *Session) Options(options ...Option) Option {
	var old Option
	for _, opt := range options {
		old = opt(s)
	}
	return old
}

// WithLogger sets the logger. By default, nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) Option {
		old := s.logger
		s.logger = logger
		s.log = log.Wrap(logger)
		return WithLogger(old)
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Session) Option {
		old := s.clock
		s.clock = c
		return WithClock(old)
	}
}

// WithTrigger sets the operator trigger that starts recording. A trigger held
// down when the session starts must be released and pressed again. By
// default (nil), recording starts with the first sample.
func WithTrigger(t Trigger) Option {
	return func(s *Session) Option {
		old := s.trigger
		s.trigger = t
		return WithTrigger(old)
	}
}

// WithDisplay sets where the session outputs are shown. By default, they are
// discarded.
func WithDisplay(d Display) Option {
	return func(s *Session) Option {
		old := s.display
		s.display = d
		return WithDisplay(old)
	}
}

// SampleInterval sets the delay between samples. By default, it is 200ms.
func SampleInterval(d time.Duration) Option {
	return func(s *Session) Option {
		old := s.interval
		s.interval = d
		return SampleInterval(old)
	}
}

// CalibrationSamples sets how many readings are averaged to find the zero
// offset. By default, 100.
func CalibrationSamples(n int) Option {
	return func(s *Session) Option {
		old := s.calibrationSamples
		s.calibrationSamples = n
		return CalibrationSamples(old)
	}
}

// GradientPeriod sets how often the release rate is checked. By default,
// every second.
func GradientPeriod(d time.Duration) Option {
	return func(s *Session) Option {
		old := s.period
		s.period = d
		return GradientPeriod(old)
	}
}

// Capacity sets the maximum number of envelope points kept by a session. It
// takes effect on the next calibration. By default, 1000.
func Capacity(n int) Option {
	return func(s *Session) Option {
		old := s.capacity
		s.capacity = n
		return Capacity(old)
	}
}

// OverflowPolicy sets what happens when the envelope is full. By default,
// DropNewest.
func OverflowPolicy(o Overflow) Option {
	return func(s *Session) Option {
		old := s.overflow
		s.overflow = o
		return OverflowPolicy(old)
	}
}

// ResidualBound only accepts envelope points closer than bound to the
// characteristic targets (see EstimateWithin). By default, there is no bound.
func ResidualBound(bound float64) Option {
	return func(s *Session) Option {
		old := s.bound
		s.bound = bound
		return ResidualBound(old)
	}
}

// MaxSensorErrors sets how many consecutive failed reads end a session. By
// default, 10.
func MaxSensorErrors(n int) Option {
	return func(s *Session) Option {
		old := s.maxSensorErrors
		s.maxSensorErrors = n
		return MaxSensorErrors(old)
	}
}
