package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cgxeiji/bpmeter/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, int64(100_000), cfg.Sensor.Frequency)
	require.Equal(t, 10*time.Millisecond, cfg.Sensor.ConversionDelay)
	require.Equal(t, "GPIO17", cfg.Panel.Button)
	require.Equal(t, 200*time.Millisecond, cfg.Session.SampleInterval)
	require.Equal(t, time.Second, cfg.Session.GradientPeriod)
	require.Equal(t, 100, cfg.Session.CalibrationSamples)
	require.Equal(t, 1000, cfg.Session.Capacity)
	require.Equal(t, "drop", cfg.Session.Overflow)
	require.Empty(t, cfg.NATS.URL)
	require.Equal(t, "bpmeter.results", cfg.NATS.Subject)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
sensor:
  bus: SPI0.0
  frequency: 400000
session:
  sample_interval: 100ms
  overflow: stop
nats:
  url: nats://127.0.0.1:4222
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	require.Equal(t, "SPI0.0", cfg.Sensor.Bus)
	require.Equal(t, int64(400000), cfg.Sensor.Frequency)
	require.Equal(t, 100*time.Millisecond, cfg.Session.SampleInterval)
	require.Equal(t, "stop", cfg.Session.Overflow)
	require.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	// Keys missing from the file keep their defaults.
	require.Equal(t, 100, cfg.Session.CalibrationSamples)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("BPMETER_NATS_SUBJECT", "ward.3.bp")
	t.Setenv("BPMETER_SESSION_CAPACITY", "50")

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "ward.3.bp", cfg.NATS.Subject)
	require.Equal(t, 50, cfg.Session.Capacity)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("sensor: [unclosed"), 0o600))

	_, err := config.Load(dir)
	require.Error(t, err)
}
