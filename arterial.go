package bpmeter

// The mean arterial pressure is only searched in a narrower band than the
// envelope.
const (
	arterialLow  = 70.0
	arterialHigh = 110.0
)

// arterial tracks the largest oscillation amplitude and the normalized
// pressure it was seen at. That pressure is the mean arterial pressure (MAP).
type arterial struct {
	amplitude float64
	pressure  float64
}

// update records amplitude as the new peak if it is larger than the current
// one and normalized is inside the MAP band. It reports whether the peak
// changed.
func (a *arterial) update(amplitude, normalized float64) bool {
	if amplitude <= a.amplitude {
		return false
	}
	if normalized <= arterialLow || normalized >= arterialHigh {
		return false
	}

	a.amplitude = amplitude
	a.pressure = normalized
	return true
}
