package profiler

import (
	"math"
	"strings"

	"github.com/claude/flexifit/internal/adaptive"
	"github.com/claude/flexifit/internal/models"
)

func initialParameters(exp adaptive.ExperienceLevel, s models.StaticAttributes, fb []models.UserFeedback) adaptive.AdaptiveParameters {
	p := adaptive.BaseParameters(exp)

	jointPain, injury := healthFlags(s.HealthStatus)
	if jointPain {
		p.Intensity *= 0.85
		p.Volume *= 0.9
	}
	if injury {
		p.Intensity *= 0.7
		p.Volume *= 0.8
		p.ProgressionRate *= 0.8
	}
	if s.Age > 50 {
		p.Intensity *= 0.9
		p.Volume *= 0.9
		p.RestPeriod *= 1.2
	}

	if recent := models.LastN(fb, 3); len(recent) > 0 {
		var diff, fat float64
		for _, f := range recent {
			diff += float64(f.Difficulty)
			fat += float64(f.Fatigue)
		}
		diff /= float64(len(recent))
		fat /= float64(len(recent))
		switch {
		case diff > 4.2:
			p.Intensity *= 0.9
			p.Volume *= 0.9
		case diff < 2.5:
			p.Intensity *= 1.1
			p.Volume *= 1.1
		}
		if fat > 4 {
			p.RestPeriod *= 1.2
			p.Frequency = max(adaptive.MinFrequency, p.Frequency-1)
		}
	}
	return p.Clamp()
}

// healthFlags scans health entries for joint pain and injury recovery.
func healthFlags(entries []models.HealthEntry) (jointPain, injury bool) {
	for _, h := range entries {
		d := strings.ToLower(h.Description)
		if strings.Contains(d, "joint") || strings.Contains(d, "arthritis") {
			jointPain = true
		}
		if h.Structured() || strings.Contains(d, "injur") || strings.Contains(d, "recover") ||
			strings.Contains(d, "surgery") || strings.Contains(d, "sprain") {
			injury = true
		}
	}
	return jointPain, injury
}

func bodyMetrics(s models.StaticAttributes, goal string) adaptive.BodyMetrics {
	b := adaptive.BodyMetrics{BMICategory: "unknown"}
	if s.HeightCm > 0 && s.WeightKg > 0 {
		h := s.HeightCm / 100
		b.BMI = math.Round(s.WeightKg/(h*h)*10) / 10
		switch {
		case b.BMI < 18.5:
			b.BMICategory = "underweight"
		case b.BMI < 25:
			b.BMICategory = "normal"
		case b.BMI < 30:
			b.BMICategory = "overweight"
		default:
			b.BMICategory = "obese"
		}
	}

	switch goal {
	case models.GoalMuscleGain:
		b.IdealRepMin, b.IdealRepMax = 6, 12
	case models.GoalFatLoss:
		b.IdealRepMin, b.IdealRepMax = 12, 15
	case models.GoalEndurance:
		b.IdealRepMin, b.IdealRepMax = 15, 20
	default:
		b.IdealRepMin, b.IdealRepMax = 8, 15
	}
	if s.Age > 50 {
		b.IdealRepMin += 2
		b.IdealRepMax += 2
	}

	intensity := 0.7
	switch goal {
	case models.GoalMuscleGain, models.GoalStrength:
		intensity += 0.1
	case models.GoalEndurance:
		intensity -= 0.1
	}
	switch {
	case s.Age > 50:
		intensity -= 0.1
	case s.Age > 0 && s.Age < 30:
		intensity += 0.1
	}
	switch b.BMICategory {
	case "obese", "underweight":
		intensity -= 0.1
	}
	b.RecommendedIntensity = adaptive.ClampFloat(intensity, 0.4, 0.9)
	return b
}
