// Package panel drives the front panel of the meter: a push button to start
// recording and three LEDs.
package panel

import (
	"context"
	"fmt"
	"log/slog"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/cgxeiji/bpmeter/internal/log"
)

// Pins names the GPIO pins of the panel, as known by gpioreg ("GPIO17",
// "P1_11", "17").
type Pins struct {
	Button       string
	Recording    string
	Overpressure string
	Release      string
}

// Panel is a bpmeter.Trigger and bpmeter.Display on GPIO pins.
type Panel struct {
	button       gpio.PinIn
	recording    gpio.PinOut
	overpressure gpio.PinOut
	release      gpio.PinOut

	log log.Logger
}

// New returns a new panel on pins. Status lines are logged on logger, which
// can be nil.
func New(pins Pins, logger *slog.Logger) (*Panel, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("panel: could not initialize host: %w", err)
	}

	lookup := func(name string) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("panel: no pin named %q", name)
		}
		return p, nil
	}

	button, err := lookup(pins.Button)
	if err != nil {
		return nil, err
	}
	recording, err := lookup(pins.Recording)
	if err != nil {
		return nil, err
	}
	overpressure, err := lookup(pins.Overpressure)
	if err != nil {
		return nil, err
	}
	release, err := lookup(pins.Release)
	if err != nil {
		return nil, err
	}

	return newPanel(button, recording, overpressure, release, logger)
}

func newPanel(button gpio.PinIn, recording, overpressure, release gpio.PinOut, logger *slog.Logger) (*Panel, error) {
	if err := button.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("panel: could not configure button: %w", err)
	}

	p := &Panel{
		button:       button,
		recording:    recording,
		overpressure: overpressure,
		release:      release,
		log:          log.Wrap(logger),
	}
	for _, led := range []gpio.PinOut{recording, overpressure, release} {
		if err := led.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("panel: could not clear LED %s: %w", led, err)
		}
	}

	return p, nil
}

// Pressed reports whether the button is held down.
func (p *Panel) Pressed() bool {
	return p.button.Read() == gpio.High
}

// Status logs the smoothed pressure and the release rate.
func (p *Panel) Status(normalized, releaseRate float64) {
	p.log.Info(context.Background(), "cuff pressure",
		slog.Float64("mmHg", normalized),
		slog.Float64("release", releaseRate),
	)
}

// Recording lights the recording LED.
func (p *Panel) Recording(on bool) {
	p.set(p.recording, on)
}

// Overpressure lights the LED asking to release the cuff.
func (p *Panel) Overpressure(on bool) {
	p.set(p.overpressure, on)
}

// ReleaseWarning lights the LED warning about a fast release.
func (p *Panel) ReleaseWarning(on bool) {
	p.set(p.release, on)
}

func (p *Panel) set(led gpio.PinOut, on bool) {
	if err := led.Out(gpio.Level(on)); err != nil {
		p.log.Err(context.Background(), fmt.Errorf("panel: could not set LED %s: %w", led, err))
	}
}
