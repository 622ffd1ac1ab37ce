package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"periph.io/x/periph/conn/physic"

	"github.com/cgxeiji/bpmeter"
	"github.com/cgxeiji/bpmeter/internal/config"
	"github.com/cgxeiji/bpmeter/internal/stream"
	"github.com/cgxeiji/bpmeter/mprls"
	"github.com/cgxeiji/bpmeter/panel"
)

func main() {
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level(cfg.Log.Level),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("measurement failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	sensor, err := mprls.New(cfg.Sensor.Bus,
		mprls.Frequency(physic.Frequency(cfg.Sensor.Frequency)*physic.Hertz),
		mprls.ConversionDelay(cfg.Sensor.ConversionDelay),
	)
	if err != nil {
		return err
	}
	defer sensor.Close()

	p, err := panel.New(panel.Pins{
		Button:       cfg.Panel.Button,
		Recording:    cfg.Panel.Recording,
		Overpressure: cfg.Panel.Overpressure,
		Release:      cfg.Panel.Release,
	}, logger)
	if err != nil {
		return err
	}

	overflow, err := bpmeter.ParseOverflow(cfg.Session.Overflow)
	if err != nil {
		return err
	}

	s := bpmeter.New(sensor,
		bpmeter.WithLogger(logger),
		bpmeter.WithTrigger(p),
		bpmeter.WithDisplay(p),
		bpmeter.SampleInterval(cfg.Session.SampleInterval),
		bpmeter.GradientPeriod(cfg.Session.GradientPeriod),
		bpmeter.CalibrationSamples(cfg.Session.CalibrationSamples),
		bpmeter.Capacity(cfg.Session.Capacity),
		bpmeter.OverflowPolicy(overflow),
		bpmeter.MaxSensorErrors(cfg.Session.MaxSensorErrors),
	)

	fmt.Println("Calibrating the sensor, keep the cuff empty...")
	if err := s.Calibrate(ctx); err != nil {
		return err
	}

	fmt.Println("Inflate the cuff, then press the button and release slowly.")
	if err := s.Run(ctx); err != nil {
		// Whatever was recorded is still worth a report.
		logger.Warn("session ended early", slog.String("error", err.Error()))
	}

	r := s.Report()
	printReport(r)

	if cfg.NATS.URL == "" {
		return nil
	}
	nc, err := stream.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("could not connect to NATS: %w", err)
	}
	defer nc.Drain()

	return stream.PublishReport(nc, cfg.NATS.Subject, r, time.Now())
}

func printReport(r bpmeter.Report) {
	bp := r.BloodPressure
	if bp.Reliable() {
		fmt.Println("Pressure measurement completed successfully.")
	} else {
		fmt.Println("Pressure measurement unsuccessful! Perform again...")
	}
	fmt.Printf("  MAP = %.1f mmHg\n", r.MAP)
	fmt.Printf("  systolic residual = %.3f\n", bp.SystolicResidual)
	fmt.Printf("  diastolic residual = %.3f\n", bp.DiastolicResidual)
	fmt.Printf("  systolic = %.1f mmHg\n", bp.Systolic)
	fmt.Printf("  diastolic = %.1f mmHg\n", bp.Diastolic)

	if r.Pulse.Detected() {
		fmt.Printf("  pulse = %.1f bpm (%d intervals)\n", r.Pulse.Rate, r.Pulse.Count)
	} else {
		fmt.Println("No pulse detected! Perform again...")
	}
}

func level(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
