// Package stream publishes measurement reports on NATS.
package stream

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/cgxeiji/bpmeter"
)

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name("bpmeter"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}

// Publisher is the subset of *nats.Conn used to publish.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ReportMsg is the JSON form of a report. A residual is omitted when no
// envelope point matched.
type ReportMsg struct {
	Ts           int64    `json:"ts"`
	Reliable     bool     `json:"reliable"`
	Systolic     float64  `json:"systolic"`
	Diastolic    float64  `json:"diastolic"`
	SysResidual  *float64 `json:"systolic_residual,omitempty"`
	DiaResidual  *float64 `json:"diastolic_residual,omitempty"`
	MAP          float64  `json:"map"`
	MAPAmplitude float64  `json:"map_amplitude"`
	Pulse        float64  `json:"pulse"`
	PulseCount   int      `json:"pulse_count"`
	Points       int      `json:"points"`
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// NewReportMsg converts r, measured at ts.
func NewReportMsg(r bpmeter.Report, ts time.Time) ReportMsg {
	return ReportMsg{
		Ts:           ts.UnixMilli(),
		Reliable:     r.BloodPressure.Reliable(),
		Systolic:     r.BloodPressure.Systolic,
		Diastolic:    r.BloodPressure.Diastolic,
		SysResidual:  finite(r.BloodPressure.SystolicResidual),
		DiaResidual:  finite(r.BloodPressure.DiastolicResidual),
		MAP:          r.MAP,
		MAPAmplitude: r.MAPAmplitude,
		Pulse:        r.Pulse.Rate,
		PulseCount:   r.Pulse.Count,
		Points:       r.Points,
	}
}

// PublishReport publishes r as JSON on subject.
func PublishReport(p Publisher, subject string, r bpmeter.Report, ts time.Time) error {
	b, err := json.Marshal(NewReportMsg(r, ts))
	if err != nil {
		return fmt.Errorf("stream: could not encode report: %w", err)
	}
	if err := p.Publish(subject, b); err != nil {
		return fmt.Errorf("stream: could not publish on %q: %w", subject, err)
	}
	return nil
}
