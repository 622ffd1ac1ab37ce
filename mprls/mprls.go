// Package mprls drives a Honeywell MicroPressure (MPR series) sensor over SPI.
package mprls

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

var (
	// ErrNotPowered is returned when the status byte does not report the
	// device as powered.
	ErrNotPowered = errors.New("mprls: device not powered")
	// ErrBusy is returned when a conversion is still running after every
	// poll.
	ErrBusy = errors.New("mprls: device busy")
	// ErrIntegrity is returned when the device memory checksum failed.
	ErrIntegrity = errors.New("mprls: memory integrity test failed")
	// ErrSaturated is returned when the internal math saturated.
	ErrSaturated = errors.New("mprls: math saturation")
)

// maxPolls bounds how many times a busy conversion is read again.
const maxPolls = 5

type txer interface {
	Tx(w, r []byte) error
}

// Device defines an MPR sensor.
type Device struct {
	conn txer
	port spi.PortCloser

	freq   physic.Frequency
	delay  time.Duration
	outMin float64
	outMax float64
	pMin   float64
	pMax   float64
}

// New returns a new MPR device. By default, the bus runs at 100kHz, a
// conversion waits 10ms, and readings use transfer function B over 0-300 mmHg.
//
// Argument "busName" can be used to specify the exact bus to use
// ("/dev/spidev0.0", "SPI0.0"). If it is an empty string "" the first
// available bus will be used.
func New(busName string, options ...Option) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("mprls: could not initialize host: %w", err)
	}

	port, err := spireg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("mprls: could not open SPI bus: %w", err)
	}

	d := newDevice(nil, options...)
	d.port = port

	conn, err := port.Connect(d.freq, spi.Mode1, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("mprls: could not connect to SPI bus: %w", err)
	}
	d.conn = conn

	return d, nil
}

func newDevice(conn txer, options ...Option) *Device {
	d := &Device{
		conn:   conn,
		freq:   100 * physic.KiloHertz,
		delay:  10 * time.Millisecond,
		outMin: OutputMin,
		outMax: OutputMax,
		pMin:   PressureMin,
		pMax:   PressureMax,
	}
	d.Options(options...)
	return d
}

// Close closes the devices and cleans after itself.
func (d *Device) Close() {
	if d.port != nil {
		d.port.Close()
	}
}

// ReadCounts starts a conversion and returns the raw 24-bit output.
func (d *Device) ReadCounts() (uint32, error) {
	if err := d.conn.Tx([]byte{CmdMeasure, 0x00, 0x00}, make([]byte, 3)); err != nil {
		return 0, fmt.Errorf("mprls: could not start conversion: %w", err)
	}

	r := make([]byte, 4)
	for i := 0; i < maxPolls; i++ {
		time.Sleep(d.delay)

		if err := d.conn.Tx([]byte{CmdRead, 0x00, 0x00, 0x00}, r); err != nil {
			return 0, fmt.Errorf("mprls: could not read conversion: %w", err)
		}
		err := checkStatus(r[0])
		if errors.Is(err, ErrBusy) {
			continue
		} else if err != nil {
			return 0, err
		}

		return uint32(r[1])<<16 | uint32(r[2])<<8 | uint32(r[3]), nil
	}

	return 0, ErrBusy
}

func checkStatus(status byte) error {
	switch {
	case status&StatusPower == 0:
		return fmt.Errorf("%w: status %#b", ErrNotPowered, status)
	case status&StatusBusy != 0:
		return ErrBusy
	case status&StatusIntegrity != 0:
		return ErrIntegrity
	case status&StatusSaturated != 0:
		return ErrSaturated
	}
	return nil
}

// Pressure returns the current pressure in mmHg.
func (d *Device) Pressure() (float64, error) {
	counts, err := d.ReadCounts()
	if err != nil {
		return 0, err
	}

	return d.convert(counts), nil
}

func (d *Device) convert(counts uint32) float64 {
	return (float64(counts)-d.outMin)*(d.pMax-d.pMin)/(d.outMax-d.outMin) + d.pMin
}
