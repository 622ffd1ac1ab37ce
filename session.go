package bpmeter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/cgxeiji/bpmeter/internal/log"
)

const (
	calibrationGap = 10 * time.Millisecond
	statusPeriod   = time.Second

	// overpressure asks the operator to start releasing the cuff.
	overpressure = 200.0
	// endPressure ends a recording session once the cuff is empty.
	endPressure = 5.0
)

// Session drives a single measurement: calibration, sampling while the cuff
// deflates, and the final estimation. A session is not safe for concurrent
// use; only the gradient monitor runs alongside the sampling loop.
type Session struct {
	sensor  Sensor
	trigger Trigger
	display Display
	clock   Clock
	logger  *slog.Logger
	log     log.Logger

	interval           time.Duration
	period             time.Duration
	calibrationSamples int
	capacity           int
	overflow           Overflow
	maxSensorErrors    int
	bound              float64

	offset float64

	norm  window
	env   *envelope
	peak  arterial
	start time.Time

	active     bool
	held       bool
	over       bool
	exhausted  bool
	lastStatus time.Time

	mu    sync.Mutex
	state snapshot
}

// Report summarizes a finished session.
type Report struct {
	// MAP is the mean arterial pressure in mmHg and MAPAmplitude the
	// oscillation amplitude at that pressure.
	MAP           float64
	MAPAmplitude  float64
	BloodPressure BloodPressure
	Pulse         Pulse
	// Points is the number of envelope points and Peaks the number of peak
	// times recorded.
	Points int
	Peaks  int
}

// New returns a new session reading from sensor.
func New(sensor Sensor, options ...Option) *Session {
	s := &Session{
		sensor:             sensor,
		display:            noDisplay{},
		clock:              wallClock{},
		interval:           200 * time.Millisecond,
		period:             time.Second,
		calibrationSamples: 100,
		capacity:           defaultCapacity,
		overflow:           DropNewest,
		maxSensorErrors:    10,
		bound:              math.Inf(1),
	}
	s.Options(options...)
	s.reset()

	return s
}

func (s *Session) reset() {
	s.norm.reset()
	s.env = newEnvelope(s.capacity)
	s.peak = arterial{}
	s.active = false
	s.held = false
	s.over = false
	s.exhausted = false

	s.mu.Lock()
	s.state = snapshot{}
	s.mu.Unlock()
}

// Calibrate starts a new session: it clears any previous state and averages
// the first readings to find the zero-pressure offset applied to every
// following reading. The cuff should be empty while calibrating.
func (s *Session) Calibrate(ctx context.Context) error {
	s.reset()
	s.offset = 0

	n := s.calibrationSamples
	if n <= 0 {
		return fmt.Errorf("bpmeter: %w: %d calibration samples", ErrCalibration, n)
	}

	s.log.Info(ctx, "calibrating sensor", slog.Int("samples", n))
	readings := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		p, err := s.sensor.Pressure()
		if err != nil {
			return fmt.Errorf("bpmeter: %w: reading %d: %w", ErrCalibration, i, err)
		}
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("bpmeter: %w: reading %d is %v", ErrCalibration, i, p)
		}
		readings = append(readings, p)

		if err := s.wait(ctx, calibrationGap); err != nil {
			return err
		}
	}
	s.offset = stat.Mean(readings, nil)

	s.log.Info(ctx, "calibration complete", slog.Float64("offset", s.offset))
	return nil
}

// Offset returns the zero-pressure offset found by Calibrate.
func (s *Session) Offset() float64 {
	return s.offset
}

// Run samples the sensor until the cuff is deflated after recording started,
// the context is done, or the session cannot continue. The recorded history
// is kept in every case and Finalize can be called afterwards.
func (s *Session) Run(ctx context.Context) error {
	s.start = s.clock.Now()
	s.lastStatus = s.start
	if s.trigger != nil && !s.active {
		s.held = s.trigger.Pressed()
	}
	s.log.Info(ctx, "session started", slog.Bool("held", s.held))

	mctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.monitor(mctx)
	}()

	err := s.loop(ctx)
	cancel()
	wg.Wait()

	if err != nil {
		s.log.Err(ctx, err)
		return err
	}
	s.log.Info(ctx, "session ended",
		slog.Int("points", len(s.env.points)),
		slog.Int("peaks", len(s.env.peaks)),
	)
	return nil
}

func (s *Session) loop(ctx context.Context) error {
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		done, err := s.sample(ctx)
		switch {
		case errors.Is(err, ErrBufferExhausted):
			return err
		case err != nil:
			failures++
			s.log.Warn(ctx, "could not read pressure",
				slog.Int("failures", failures),
				slog.String("error", err.Error()),
			)
			if failures >= s.maxSensorErrors {
				return fmt.Errorf("bpmeter: %w: %d consecutive failures: %w", ErrSensor, failures, err)
			}
		default:
			failures = 0
		}
		if done {
			return nil
		}

		if err := s.wait(ctx, s.interval); err != nil {
			return err
		}
	}
}

// sample processes one reading. It reports whether the session is over.
func (s *Session) sample(ctx context.Context) (bool, error) {
	p, err := s.sensor.Pressure()
	if err != nil {
		return false, err
	}
	raw := p - s.offset
	now := s.clock.Now()

	if !s.active && s.pressed() {
		s.active = true
		s.display.Recording(true)
		s.log.Info(ctx, "recording started", slog.Float64("pressure", raw))
	}

	normalized := s.norm.ingest(raw)
	amp, gated, err := s.env.track(raw, normalized, now.Sub(s.start), s.active)
	if errors.Is(err, ErrBufferExhausted) {
		if !s.exhausted {
			s.exhausted = true
			s.log.Warn(ctx, "envelope is full",
				slog.Int("capacity", s.env.capacity),
				slog.String("policy", s.overflow.String()),
			)
		}
		if s.overflow == StopSession {
			return true, fmt.Errorf("bpmeter: %w after %d points", err, len(s.env.points))
		}
	}
	if gated {
		s.peak.update(amp, normalized)
	}

	s.mu.Lock()
	s.state.normalized = normalized
	s.state.current = raw
	s.state.samples++
	rate := s.state.rate
	s.mu.Unlock()

	if over := normalized > overpressure; over != s.over {
		s.over = over
		s.display.Overpressure(over)
	}
	if now.Sub(s.lastStatus) >= statusPeriod {
		s.lastStatus = now
		s.display.Status(normalized, rate)
		s.log.Debug(ctx, "status",
			slog.Float64("pressure", normalized),
			slog.Float64("rate", rate),
		)
	}

	return s.active && normalized < endPressure, nil
}

// pressed reports a rising edge of the trigger.
func (s *Session) pressed() bool {
	if s.trigger == nil {
		return true
	}
	p := s.trigger.Pressed()
	edge := p && !s.held
	s.held = p
	return edge
}

func (s *Session) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(d):
		return nil
	}
}

// monitor checks the release rate every period until ctx is done.
func (s *Session) monitor(ctx context.Context) {
	if s.period <= 0 {
		return
	}
	t := s.clock.NewTicker(s.period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			s.checkGradient(ctx)
		}
	}
}

func (s *Session) checkGradient(ctx context.Context) {
	s.mu.Lock()
	rate, warn, ok := releaseRate(s.state)
	if ok {
		s.state.rate = rate
		s.state.warning = warn
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	if warn {
		s.log.Warn(ctx, "cuff released too fast", slog.Float64("rate", rate))
	}
	s.display.ReleaseWarning(warn)
}

// Pressure returns the current normalized pressure.
func (s *Session) Pressure() (float64, error) {
	return s.norm.mean()
}

// ReleaseRate returns the last release rate computed by the gradient monitor
// and whether it raised a warning.
func (s *Session) ReleaseRate() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.rate, s.state.warning
}

// MAP returns the mean arterial pressure and the envelope amplitude at it.
func (s *Session) MAP() (pressure, amplitude float64) {
	return s.peak.pressure, s.peak.amplitude
}

// Envelope returns a copy of the envelope points recorded so far.
func (s *Session) Envelope() []Point {
	return append([]Point(nil), s.env.points...)
}

// Peaks returns a copy of the peak times, relative to the session start.
func (s *Session) Peaks() []time.Duration {
	return append([]time.Duration(nil), s.env.peaks...)
}

// Finalize estimates the blood pressure and the pulse rate from the recorded
// history. It should be called after Run returns.
func (s *Session) Finalize() (BloodPressure, Pulse) {
	return EstimateWithin(s.env.points, s.peak.amplitude, s.bound), EstimatePulse(s.env.peaks)
}

// Report finalizes the session, logs the result and summarizes it.
func (s *Session) Report() Report {
	bp, pulse := s.Finalize()
	s.log.Info(context.Background(), "measurement complete",
		slog.Bool("reliable", bp.Reliable()),
		slog.Float64("systolic", bp.Systolic),
		slog.Float64("diastolic", bp.Diastolic),
		slog.Float64("map", s.peak.pressure),
		slog.Float64("pulse", pulse.Rate),
		slog.Int("intervals", pulse.Count),
	)
	return Report{
		MAP:           s.peak.pressure,
		MAPAmplitude:  s.peak.amplitude,
		BloodPressure: bp,
		Pulse:         pulse,
		Points:        len(s.env.points),
		Peaks:         len(s.env.peaks),
	}
}
