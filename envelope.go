package bpmeter

import (
	"math"
	"time"
)

const (
	envelopeLow  = 70.0
	envelopeHigh = 160.0
	// maxAmplitude rejects samples where the raw reading runs away from the
	// smoothed pressure.
	maxAmplitude = 12.0
	minPeakGap   = 500 * time.Millisecond

	defaultCapacity = 1000
)

// Point is a point of the oscillometric waveform envelope.
type Point struct {
	// Pressure is the normalized cuff pressure in mmHg when the peak was
	// confirmed.
	Pressure float64
	// Amplitude is the oscillation amplitude in mmHg at the peak.
	Amplitude float64
}

// envelope builds the oscillometric waveform envelope from local maxima of
// the oscillation amplitude, and keeps the time of each maximum for the pulse
// estimation.
type envelope struct {
	points   []Point
	peaks    []time.Duration
	prev     float64
	capacity int
}

func newEnvelope(capacity int) *envelope {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &envelope{
		points:   make([]Point, 0, capacity),
		peaks:    make([]time.Duration, 0, capacity),
		capacity: capacity,
	}
}

// track feeds one sample to the envelope. It returns the oscillation amplitude
// of the sample and whether it passed the recording gate; only gated samples
// update the previous amplitude, so the local maximum comparison ignores
// everything rejected in between. If a maximum is found but the envelope is
// full, nothing is recorded and ErrBufferExhausted is returned.
func (e *envelope) track(raw, normalized float64, elapsed time.Duration, active bool) (float64, bool, error) {
	amp := math.Abs(raw - normalized)
	if !active || amp >= maxAmplitude {
		return amp, false, nil
	}

	var err error
	if normalized >= envelopeLow && normalized <= envelopeHigh && amp < e.prev {
		err = e.record(normalized, elapsed)
	}
	e.prev = amp

	return amp, true, err
}

func (e *envelope) record(normalized float64, elapsed time.Duration) error {
	if len(e.points) >= e.capacity {
		return ErrBufferExhausted
	}
	e.points = append(e.points, Point{
		Pressure:  normalized,
		Amplitude: e.prev,
	})

	// Peaks closer than minPeakGap are double detections of the same beat.
	if n := len(e.peaks); n == 0 || elapsed-e.peaks[n-1] >= minPeakGap {
		e.peaks = append(e.peaks, elapsed)
	}

	return nil
}
