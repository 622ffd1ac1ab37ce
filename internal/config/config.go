// Package config loads the meter configuration from config.yaml and BPMETER_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the meter configuration.
type Config struct {
	Sensor struct {
		Bus             string        `mapstructure:"bus"`
		Frequency       int64         `mapstructure:"frequency"` // Hz
		ConversionDelay time.Duration `mapstructure:"conversion_delay"`
	} `mapstructure:"sensor"`
	Panel struct {
		Button       string `mapstructure:"button"`
		Recording    string `mapstructure:"recording"`
		Overpressure string `mapstructure:"overpressure"`
		Release      string `mapstructure:"release"`
	} `mapstructure:"panel"`
	Session struct {
		SampleInterval     time.Duration `mapstructure:"sample_interval"`
		GradientPeriod     time.Duration `mapstructure:"gradient_period"`
		CalibrationSamples int           `mapstructure:"calibration_samples"`
		Capacity           int           `mapstructure:"capacity"`
		Overflow           string        `mapstructure:"overflow"`
		MaxSensorErrors    int           `mapstructure:"max_sensor_errors"`
	} `mapstructure:"session"`
	NATS struct {
		URL     string `mapstructure:"url"`
		Subject string `mapstructure:"subject"`
	} `mapstructure:"nats"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// Load reads config.yaml from path. A missing file is not an error; every key
// has a default and can be overridden from the environment, e.g.
// BPMETER_NATS_URL for nats.url.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("bpmeter")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: could not read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sensor.bus", "")
	v.SetDefault("sensor.frequency", 100_000)
	v.SetDefault("sensor.conversion_delay", 10*time.Millisecond)

	v.SetDefault("panel.button", "GPIO17")
	v.SetDefault("panel.recording", "GPIO22")
	v.SetDefault("panel.overpressure", "GPIO23")
	v.SetDefault("panel.release", "GPIO24")

	v.SetDefault("session.sample_interval", 200*time.Millisecond)
	v.SetDefault("session.gradient_period", time.Second)
	v.SetDefault("session.calibration_samples", 100)
	v.SetDefault("session.capacity", 1000)
	v.SetDefault("session.overflow", "drop")
	v.SetDefault("session.max_sensor_errors", 10)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "bpmeter.results")

	v.SetDefault("log.level", "info")
}
