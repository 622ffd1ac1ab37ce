package bpmeter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArterialSinglePeak(t *testing.T) {
	var a arterial

	require.True(t, a.update(4.2, 90))
	require.Equal(t, 4.2, a.amplitude)
	require.Equal(t, 90.0, a.pressure)
}

func TestArterialOutOfBand(t *testing.T) {
	var a arterial

	for _, p := range []float64{60, 70, 110, 140} {
		require.False(t, a.update(4.2, p), "pressure %v", p)
	}
	require.Zero(t, a.amplitude)
	require.Zero(t, a.pressure)
}

func TestArterialMonotonic(t *testing.T) {
	var a arterial

	require.True(t, a.update(5, 90))
	require.False(t, a.update(3, 95))
	require.False(t, a.update(5, 96))
	require.Equal(t, 90.0, a.pressure)

	require.True(t, a.update(6, 100))
	require.Equal(t, 6.0, a.amplitude)
	require.Equal(t, 100.0, a.pressure)
}
