package bpmeter

import "gonum.org/v1/gonum/stat"

const windowSize = 5

// window holds the latest raw readings in a ring and smooths them into the
// normalized cuff pressure.
type window struct {
	buffer [windowSize]float64
	idx    int
	filled int
}

// ingest overwrites the oldest reading with v and returns the new mean.
func (w *window) ingest(v float64) float64 {
	w.buffer[w.idx] = v
	w.idx++
	w.idx %= len(w.buffer)
	if w.filled < len(w.buffer) {
		w.filled++
	}

	return stat.Mean(w.buffer[:w.filled], nil)
}

// mean returns the mean of the readings held, or ErrNoSamples if there are
// none yet.
func (w *window) mean() (float64, error) {
	if w.filled == 0 {
		return 0, ErrNoSamples
	}

	return stat.Mean(w.buffer[:w.filled], nil), nil
}

func (w *window) reset() {
	*w = window{}
}
