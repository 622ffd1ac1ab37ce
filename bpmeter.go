// Package bpmeter estimates blood pressure and pulse rate from the cuff
// pressure of a manually deflated sphygmomanometer, using the maximum
// amplitude algorithm over the oscillometric waveform envelope.
package bpmeter

import "errors"

var (
	// ErrNoSamples is returned when the smoothed pressure is requested before
	// any reading has been recorded.
	ErrNoSamples = errors.New("no samples recorded")
	// ErrCalibration is returned when the zero-pressure offset cannot be
	// established (e.g. the sensor fails or returns a non-finite reading while
	// calibrating).
	ErrCalibration = errors.New("calibration failed")
	// ErrBufferExhausted is returned when the envelope history is full and a
	// new point cannot be recorded.
	ErrBufferExhausted = errors.New("envelope buffer exhausted")
	// ErrSensor is returned when too many consecutive sensor reads fail
	// during a session.
	ErrSensor = errors.New("sensor unavailable")
)

// Sensor supplies cuff pressure readings in mmHg. Retries on transaction
// failures belong to the implementation.
type Sensor interface {
	Pressure() (float64, error)
}

// Trigger reports whether the operator is asking to start recording.
// Recording starts on the first change from released to pressed; it is never
// stopped by the trigger.
type Trigger interface {
	Pressed() bool
}

// Display receives the outputs of a running session. ReleaseWarning is called
// from the gradient monitor goroutine, every other method from the sampling
// loop.
type Display interface {
	// Status shows the smoothed pressure and the latest release rate, about
	// once per second.
	Status(normalized, releaseRate float64)
	// Recording is set once the envelope starts being recorded.
	Recording(on bool)
	// Overpressure asks the operator to start releasing the cuff.
	Overpressure(on bool)
	// ReleaseWarning signals the cuff is being deflated too fast.
	ReleaseWarning(on bool)
}

type noDisplay struct{}

func (noDisplay) Status(float64, float64) {}
func (noDisplay) Recording(bool)          {}
func (noDisplay) Overpressure(bool)       {}
func (noDisplay) ReleaseWarning(bool)     {}
