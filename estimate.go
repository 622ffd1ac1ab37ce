package bpmeter

import "math"

// Characteristic ratios are the midpoints of the published ranges
// Rs = [0.45, 0.73] and Rd = [0.69, 0.83].
const (
	systolicRatio  = (0.45 + 0.73) / 2
	diastolicRatio = (0.69 + 0.83) / 2

	systolicLow   = 100.0
	systolicHigh  = 200.0
	diastolicLow  = 50.0
	diastolicHigh = 90.0

	// FirmwareResidual is the residual bound used by bedside MAA firmware
	// (an error threshold of 0.5 plus 1). See EstimateWithin.
	FirmwareResidual = 0.5 + 1

	// Unreliable is the pressure reported when no estimate could be found.
	Unreliable = -1.0
)

// BloodPressure is the result of a measurement.
type BloodPressure struct {
	// Systolic and Diastolic pressures in mmHg. Both are Unreliable if either
	// could not be found.
	Systolic  float64
	Diastolic float64
	// SystolicResidual and DiastolicResidual are the distances between the
	// chosen envelope amplitudes and their characteristic targets.
	SystolicResidual  float64
	DiastolicResidual float64
}

// Reliable reports whether both pressures were found. An unreliable
// measurement should be repeated.
func (b BloodPressure) Reliable() bool {
	return b.Systolic >= 0 && b.Diastolic >= 0
}

// Estimate finds the systolic and diastolic pressures on the envelope points,
// given the peak (MAP) amplitude. The systolic pressure is the point closest
// to Rs*peak inside (100, 200) mmHg and the diastolic pressure the point
// closest to Rd*peak inside (50, 90) mmHg. On ties, the first point wins.
// If no point lies in a band, its residual is +Inf.
func Estimate(points []Point, peak float64) BloodPressure {
	return EstimateWithin(points, peak, math.Inf(1))
}

// EstimateWithin is like Estimate, but only accepts points whose residual is
// below bound. When nothing qualifies, the reported residual is bound.
func EstimateWithin(points []Point, peak, bound float64) BloodPressure {
	systolic := systolicRatio * peak
	diastolic := diastolicRatio * peak

	bp := BloodPressure{
		SystolicResidual:  bound,
		DiastolicResidual: bound,
	}
	si, di := -1, -1
	for i, p := range points {
		if r := math.Abs(p.Amplitude - systolic); r < bp.SystolicResidual &&
			p.Pressure > systolicLow && p.Pressure < systolicHigh {
			bp.SystolicResidual = r
			si = i
		}
		if r := math.Abs(p.Amplitude - diastolic); r < bp.DiastolicResidual &&
			p.Pressure > diastolicLow && p.Pressure < diastolicHigh {
			bp.DiastolicResidual = r
			di = i
		}
	}

	if si < 0 || di < 0 {
		bp.Systolic = Unreliable
		bp.Diastolic = Unreliable
		return bp
	}
	bp.Systolic = points[si].Pressure
	bp.Diastolic = points[di].Pressure

	return bp
}
