package bpmeter

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Pulse rates outside this range are not physiological and their intervals
// are discarded.
const (
	minPulse = 35.0
	maxPulse = 150.0
)

// Pulse is the pulse rate estimated from the envelope peaks.
type Pulse struct {
	// Rate in beats per minute, or -1 if no interval qualified.
	Rate float64
	// Count is the number of intervals averaged.
	Count int
}

// Detected reports whether a pulse rate could be estimated.
func (p Pulse) Detected() bool {
	return p.Count > 0
}

// EstimatePulse averages the intervals between consecutive peaks that fall
// between 35 and 150 bpm and returns the matching rate.
func EstimatePulse(peaks []time.Duration) Pulse {
	shortest := 60000 / maxPulse
	longest := 60000 / minPulse

	spans := make([]float64, 0, len(peaks))
	for i := 1; i < len(peaks); i++ {
		span := float64(peaks[i]-peaks[i-1]) / float64(time.Millisecond)
		if span < shortest || span > longest {
			continue
		}
		spans = append(spans, span)
	}

	if len(spans) == 0 {
		return Pulse{Rate: -1}
	}

	return Pulse{
		Rate:  60000 / stat.Mean(spans, nil),
		Count: len(spans),
	}
}
