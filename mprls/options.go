package mprls

import (
	"time"

	"periph.io/x/periph/conn/physic"
)

// Option defines a functional option for the device. It returns the option
// that restores the previous value.
type Option func(d *Device) Option

// Options set different configuration options and returns the previous value
// of the last option passed.
func (d *Device) Options(options ...Option) Option {
	var old Option
	for _, opt := range options {
		old = opt(d)
	}

	return old
}

// Frequency sets the SPI clock. It only takes effect when passed to New.
func Frequency(f physic.Frequency) Option {
	return func(d *Device) Option {
		old := d.freq
		d.freq = f
		return Frequency(old)
	}
}

// ConversionDelay sets how long to wait for a conversion before reading it.
func ConversionDelay(delay time.Duration) Option {
	return func(d *Device) Option {
		old := d.delay
		d.delay = delay
		return ConversionDelay(old)
	}
}

// OutputRange sets the counts at the minimum and maximum pressure, for parts
// with a transfer function other than B.
func OutputRange(low, high uint32) Option {
	return func(d *Device) Option {
		oldMin, oldMax := d.outMin, d.outMax
		d.outMin = float64(low)
		d.outMax = float64(high)
		return OutputRange(uint32(oldMin), uint32(oldMax))
	}
}

// PressureRange sets the pressure range of the part, in mmHg.
func PressureRange(low, high float64) Option {
	return func(d *Device) Option {
		oldMin, oldMax := d.pMin, d.pMax
		d.pMin = low
		d.pMax = high
		return PressureRange(oldMin, oldMax)
	}
}
