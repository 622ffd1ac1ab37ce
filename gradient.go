package bpmeter

const (
	// maxReleaseRate is the fastest safe deflation, in mmHg per period.
	maxReleaseRate = 4.0
	// gradientWarmup is the number of samples needed before the smoothed
	// pressure is stable enough to compare.
	gradientWarmup = 6
)

// snapshot is the part of the session state shared with the gradient monitor.
type snapshot struct {
	normalized float64
	current    float64
	samples    int
	rate       float64
	warning    bool
}

// releaseRate compares the smoothed pressure with the latest reading. It
// returns false in ok while the session is still warming up.
func releaseRate(s snapshot) (rate float64, warn, ok bool) {
	if s.samples < gradientWarmup {
		return 0, false, false
	}

	rate = s.normalized - s.current
	return rate, rate > maxReleaseRate, true
}
