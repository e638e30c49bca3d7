package freshness

import (
	"fmt"
	"math"
)

var sensoryDefaults = map[Level]SensoryData{
	LevelExcellent: {Smell: 5, Texture: 5, Moisture: 5, Drip: 5},
	LevelGood:      {Smell: 25, Texture: 20, Moisture: 20, Drip: 10},
	LevelAverage:   {Smell: 55, Texture: 50, Moisture: 45, Drip: 30},
	LevelWarning:   {Smell: 80, Texture: 85, Moisture: 80, Drip: 70},
	LevelSpoiled:   {Smell: 95, Texture: 95, Moisture: 95, Drip: 95},
}

var fallbackSensory = SensoryData{Smell: 10, Texture: 10, Moisture: 10, Drip: 10}

// PredictSensoryDefaults is the expected survey for a level, used to
// pre-populate the sensory form.
func PredictSensoryDefaults(level Level) SensoryData {
	if s, ok := sensoryDefaults[level]; ok {
		return s
	}
	return fallbackSensory
}

// SensoryThreshold is the score above which smell or sliminess alone
// condemns the meat.
const SensoryThreshold = 60

// SensoryOverride reports whether the survey forces a level of at least 4.
func SensoryOverride(s SensoryData) bool {
	return s.Smell > SensoryThreshold || s.Moisture > SensoryThreshold
}

// EnforceSensoryThreshold raises level to LevelWarning when the survey trips
// the smell or moisture threshold. It never lowers a level.
func EnforceSensoryThreshold(level Level, s SensoryData) Level {
	if !SensoryOverride(s) {
		return level
	}
	if level < LevelWarning || level > LevelSpoiled {
		return LevelWarning
	}
	return level
}

// PenaltyScore folds the survey into a single 0-100 score.
func PenaltyScore(s SensoryData) float64 {
	return 0.35*float64(clampPercent(s.Smell)) +
		0.30*float64(clampPercent(s.Moisture)) +
		0.20*float64(clampPercent(s.Texture)) +
		0.15*float64(clampPercent(s.Drip))
}

// SensoryLevel maps the penalty score onto the level scale.
func SensoryLevel(s SensoryData) Level {
	p := PenaltyScore(s)
	switch {
	case p < 20:
		return LevelExcellent
	case p < 40:
		return LevelGood
	case p < 60:
		return LevelAverage
	case p < 80:
		return LevelWarning
	default:
		return LevelSpoiled
	}
}

// BlendLevel merges an image-only level with the survey when no model is
// available to do it. The result leans toward the worse of the two and
// always honours the sensory threshold.
func BlendLevel(imageLevel Level, s SensoryData) Level {
	sensory := SensoryLevel(s)
	if !imageLevel.Valid() {
		imageLevel = LevelSpoiled
	}

	merged := Level(math.Ceil(float64(imageLevel+sensory) / 2))
	if merged < sensory-1 {
		merged = sensory - 1
	}
	return EnforceSensoryThreshold(merged, s)
}

// ScoreForLevel is the midpoint freshness score (0-100) of a level band.
func ScoreForLevel(l Level) int {
	switch l {
	case LevelExcellent:
		return 90
	case LevelGood:
		return 75
	case LevelAverage:
		return 55
	case LevelWarning:
		return 35
	default:
		return 15
	}
}

// SensoryCues describes which survey channels pushed the verdict, so the
// merged result shows why it was overridden.
func SensoryCues(s SensoryData) []string {
	var cues []string
	if s.Smell > SensoryThreshold {
		cues = append(cues, fmt.Sprintf("Strong off odour confirmed by user (smell %d/100)", s.Smell))
	}
	if s.Moisture > SensoryThreshold {
		cues = append(cues, fmt.Sprintf("Slimy surface confirmed by user (sliminess %d/100)", s.Moisture))
	}
	if s.Texture > SensoryThreshold {
		cues = append(cues, fmt.Sprintf("Soft, inelastic texture reported (texture %d/100)", s.Texture))
	}
	if s.Drip > SensoryThreshold {
		cues = append(cues, fmt.Sprintf("Cloudy drip loss reported (drip %d/100)", s.Drip))
	}
	if len(cues) == 0 {
		cues = append(cues, fmt.Sprintf("User survey within normal range (smell %d, texture %d, sliminess %d, drip %d)",
			s.Smell, s.Texture, s.Moisture, s.Drip))
	}
	return cues
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
