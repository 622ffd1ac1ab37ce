package mprls

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeConn records writes and replies with the next scripted read.
type fakeConn struct {
	writes  [][]byte
	replies [][]byte
	err     error
}

func (c *fakeConn) Tx(w, r []byte) error {
	c.writes = append(c.writes, append([]byte(nil), w...))
	if c.err != nil {
		return c.err
	}
	if w[0] == CmdRead && len(c.replies) > 0 {
		copy(r, c.replies[0])
		c.replies = c.replies[1:]
	}
	return nil
}

func reply(status byte, counts uint32) []byte {
	return []byte{status, byte(counts >> 16), byte(counts >> 8), byte(counts)}
}

func TestReadCounts(t *testing.T) {
	c := &fakeConn{replies: [][]byte{reply(StatusPower, 0x123456)}}
	d := newDevice(c, ConversionDelay(0))

	counts, err := d.ReadCounts()
	require.NoError(t, err)
	require.Equal(t, uint32(0x123456), counts)
	require.Equal(t, [][]byte{
		{CmdMeasure, 0x00, 0x00},
		{CmdRead, 0x00, 0x00, 0x00},
	}, c.writes)
}

func TestReadCountsBusy(t *testing.T) {
	c := &fakeConn{replies: [][]byte{
		reply(StatusPower|StatusBusy, 0),
		reply(StatusPower|StatusBusy, 0),
		reply(StatusPower, OutputMax),
	}}
	d := newDevice(c, ConversionDelay(0))

	counts, err := d.ReadCounts()
	require.NoError(t, err)
	require.Equal(t, uint32(OutputMax), counts)
	require.Len(t, c.writes, 4)
}

func TestReadCountsStillBusy(t *testing.T) {
	c := &fakeConn{}
	for i := 0; i < maxPolls; i++ {
		c.replies = append(c.replies, reply(StatusPower|StatusBusy, 0))
	}
	d := newDevice(c, ConversionDelay(0))

	_, err := d.ReadCounts()
	require.ErrorIs(t, err, ErrBusy)
}

func TestReadCountsStatus(t *testing.T) {
	for _, tc := range []struct {
		status byte
		want   error
	}{
		{status: 0x00, want: ErrNotPowered},
		{status: StatusPower | StatusIntegrity, want: ErrIntegrity},
		{status: StatusPower | StatusSaturated, want: ErrSaturated},
	} {
		c := &fakeConn{replies: [][]byte{reply(tc.status, 0)}}
		d := newDevice(c, ConversionDelay(0))

		_, err := d.ReadCounts()
		require.ErrorIs(t, err, tc.want, "status %#b", tc.status)
	}
}

func TestReadCountsTxError(t *testing.T) {
	errBus := errors.New("bus error")
	d := newDevice(&fakeConn{err: errBus}, ConversionDelay(0))

	_, err := d.Pressure()
	require.ErrorIs(t, err, errBus)
}

func TestPressure(t *testing.T) {
	for _, tc := range []struct {
		counts uint32
		want   float64
	}{
		{counts: OutputMin, want: PressureMin},
		{counts: OutputMax, want: PressureMax},
		{counts: (OutputMin + OutputMax + 1) / 2, want: 150},
	} {
		c := &fakeConn{replies: [][]byte{reply(StatusPower, tc.counts)}}
		d := newDevice(c, ConversionDelay(0))

		p, err := d.Pressure()
		require.NoError(t, err)
		require.InDelta(t, tc.want, p, 0.001, "counts %d", tc.counts)
	}
}

func TestPressureRange(t *testing.T) {
	c := &fakeConn{replies: [][]byte{reply(StatusPower, 1000)}}
	d := newDevice(c,
		ConversionDelay(0),
		OutputRange(0, 2000),
		PressureRange(0, 100),
	)

	p, err := d.Pressure()
	require.NoError(t, err)
	require.InDelta(t, 50.0, p, 1e-9)
}

func TestOptionsRestore(t *testing.T) {
	d := newDevice(nil)

	old := d.Options(PressureRange(10, 20))
	require.Equal(t, 10.0, d.pMin)
	d.Options(old)
	require.Equal(t, PressureMin, d.pMin)
	require.Equal(t, PressureMax, d.pMax)
}
