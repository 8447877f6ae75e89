package adjuster

import (
	"github.com/claude/flexifit/internal/adaptive"
)

// Parameter bounds after adjustment. Rest is tighter than the profiler's
// range.
const (
	minLoad    = 0.3
	maxLoad    = 1.0
	maxAdjRest = 120.0
)

var wave = [4]float64{1.0, 1.1, 1.2, 0.8}

// levelMultipliers returns the intensity/volume multiplier and the rest
// multiplier for a level.
func (r *run) levelMultipliers() (load, rest float64) {
	switch r.level {
	case adaptive.Deload:
		return 0.7, 1.3
	case adaptive.Maintenance:
		return 0.95 + r.rand.Float64()*0.1, 1.0
	case adaptive.VerySlowProgress:
		return 1.02, 0.98
	case adaptive.SlowProgress:
		return 1.05, 0.95
	case adaptive.NormalProgress:
		return 1.1, 0.9
	case adaptive.ModerateProgress:
		return 1.12, 0.88
	case adaptive.FastProgress:
		return 1.15, 0.85
	case adaptive.Breakthrough:
		return 1.2, 0.8
	}
	return 1, 1
}

// dynamicFactor scales load from how recent sessions felt.
func (r *run) dynamicFactor() float64 {
	f := 1 + 0.1*(r.st.Experience.OptimalDifficulty()-r.difficulty)
	switch {
	case r.fatigue > 4:
		f -= 0.1
	case r.fatigue > 3.5:
		f -= 0.05
	case r.fatigue < 2.5:
		f += 0.05
	}
	switch c := r.st.Metrics.ConsistencyScore; {
	case c >= 0.7:
		f += 0.05
	case c < 0.3:
		f -= 0.05
	}
	return adaptive.ClampFloat(f, 0.7, 1.3)
}

// periodizationFactor follows a four-workout wave once the user has a base.
func (r *run) periodizationFactor() float64 {
	if r.level == adaptive.Deload || r.st.CompletedWorkouts < 8 {
		return 1
	}
	w := wave[r.st.CompletedWorkouts%len(wave)]
	if r.st.Experience == adaptive.Advanced {
		w = 1 + (w-1)*1.1
	}
	return w
}

func (r *run) adjustParameters() {
	load, restMult := r.levelMultipliers()
	dyn := r.dynamicFactor()
	period := r.periodizationFactor()

	p := r.st.Params
	p.Intensity = adaptive.ClampFloat(p.Intensity*load*dyn*period, minLoad, maxLoad)
	p.Volume = adaptive.ClampFloat(p.Volume*load*dyn*period, minLoad, maxLoad)
	p.RestPeriod = adaptive.ClampFloat(p.RestPeriod*restMult/(dyn*period), adaptive.MinRest, maxAdjRest)
	p.ProgressionRate = adaptive.Clamp01(r.level.Rate())

	switch r.level {
	case adaptive.FastProgress, adaptive.Breakthrough:
		p.Frequency++
	case adaptive.Deload:
		p.Frequency--
	}
	p.Frequency = adaptive.ClampInt(p.Frequency, adaptive.MinFrequency, adaptive.MaxFrequency)

	r.res.Params = p
	r.log.Debug("parameters adjusted", "dynamic", dyn, "periodization", period,
		"intensity", p.Intensity, "volume", p.Volume, "rest", p.RestPeriod, "frequency", p.Frequency)

	switch r.level {
	case adaptive.Deload:
		r.reason("Load reduced for a deload week to let fatigue clear")
	case adaptive.Maintenance:
		r.reason("Load held steady while consistency is rebuilt")
	default:
		r.reason("Training load adjusted for %s", humanLevel(r.level))
	}
}
