package adaptive

import "math"

// Parameter bounds.
const (
	MinFrequency = 2
	MaxFrequency = 6
	MinRest      = 15.0
	MaxRest      = 180.0
)

// AdaptiveParameters are the numeric knobs driving exercise-level decisions.
type AdaptiveParameters struct {
	Intensity              float64 `json:"intensity"`
	Volume                 float64 `json:"volume"`
	Frequency              int     `json:"frequency"`
	RestPeriod             float64 `json:"rest_period_sec"`
	ProgressionRate        float64 `json:"progression_rate"`
	PeriodizationAmplitude float64 `json:"periodization_amplitude"`
}

// BaseParameters returns the starting parameters for an experience tier.
func BaseParameters(e ExperienceLevel) AdaptiveParameters {
	switch e {
	case Intermediate:
		return AdaptiveParameters{Intensity: 0.65, Volume: 0.6, Frequency: 4, RestPeriod: 45, ProgressionRate: 0.4, PeriodizationAmplitude: 0.3}
	case Advanced:
		return AdaptiveParameters{Intensity: 0.8, Volume: 0.8, Frequency: 5, RestPeriod: 30, ProgressionRate: 0.5, PeriodizationAmplitude: 0.4}
	default:
		return AdaptiveParameters{Intensity: 0.5, Volume: 0.4, Frequency: 3, RestPeriod: 60, ProgressionRate: 0.3, PeriodizationAmplitude: 0.2}
	}
}

// Clamp forces every bounded field into its documented range.
func (p AdaptiveParameters) Clamp() AdaptiveParameters {
	p.Intensity = Clamp01(p.Intensity)
	p.Volume = Clamp01(p.Volume)
	p.ProgressionRate = Clamp01(p.ProgressionRate)
	p.PeriodizationAmplitude = Clamp01(p.PeriodizationAmplitude)
	p.RestPeriod = ClampFloat(p.RestPeriod, MinRest, MaxRest)
	p.Frequency = ClampInt(p.Frequency, MinFrequency, MaxFrequency)
	return p
}

// ClampFloat bounds v to [lo, hi]. NaN maps to lo.
func ClampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 { return ClampFloat(v, 0, 1) }

// ClampInt bounds v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// RoundHalf rounds to the nearest 0.5.
func RoundHalf(v float64) float64 {
	return math.Round(v*2) / 2
}
