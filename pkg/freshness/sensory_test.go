package freshness

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPredictSensoryDefaults(t *testing.T) {
	tests := []struct {
		level Level
		want  SensoryData
	}{
		{1, SensoryData{Smell: 5, Texture: 5, Moisture: 5, Drip: 5}},
		{2, SensoryData{Smell: 25, Texture: 20, Moisture: 20, Drip: 10}},
		{3, SensoryData{Smell: 55, Texture: 50, Moisture: 45, Drip: 30}},
		{4, SensoryData{Smell: 80, Texture: 85, Moisture: 80, Drip: 70}},
		{5, SensoryData{Smell: 95, Texture: 95, Moisture: 95, Drip: 95}},
		{0, SensoryData{Smell: 10, Texture: 10, Moisture: 10, Drip: 10}},
		{9, SensoryData{Smell: 10, Texture: 10, Moisture: 10, Drip: 10}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, PredictSensoryDefaults(tt.level)); diff != "" {
			t.Errorf("level %d mismatch (-want +got):\n%s", tt.level, diff)
		}
	}
}

func TestPredictSensoryDefaults_Monotonic(t *testing.T) {
	prev := PredictSensoryDefaults(LevelExcellent)
	for l := LevelGood; l <= LevelSpoiled; l++ {
		cur := PredictSensoryDefaults(l)
		assert.GreaterOrEqual(t, cur.Smell, prev.Smell)
		assert.GreaterOrEqual(t, cur.Texture, prev.Texture)
		assert.GreaterOrEqual(t, cur.Moisture, prev.Moisture)
		assert.GreaterOrEqual(t, cur.Drip, prev.Drip)
		prev = cur
	}
}

func TestEnforceSensoryThreshold(t *testing.T) {
	smelly := SensoryData{Smell: 70}
	slimy := SensoryData{Moisture: 61}
	borderline := SensoryData{Smell: 60, Moisture: 60, Texture: 100, Drip: 100}

	for l := LevelExcellent; l <= LevelSpoiled; l++ {
		assert.GreaterOrEqual(t, int(EnforceSensoryThreshold(l, smelly)), 4)
		assert.GreaterOrEqual(t, int(EnforceSensoryThreshold(l, slimy)), 4)
		assert.Equal(t, l, EnforceSensoryThreshold(l, borderline))
	}
	assert.Equal(t, LevelSpoiled, EnforceSensoryThreshold(LevelSpoiled, smelly))
	assert.Equal(t, LevelWarning, EnforceSensoryThreshold(0, smelly))
}

func TestBlendLevel(t *testing.T) {
	t.Run("smell over threshold never merges below 4", func(t *testing.T) {
		s := SensoryData{Smell: 70}
		for l := LevelExcellent; l <= LevelSpoiled; l++ {
			assert.GreaterOrEqual(t, int(BlendLevel(l, s)), 4, "image level %d", l)
		}
	})

	t.Run("clean survey keeps a fresh image fresh", func(t *testing.T) {
		assert.Equal(t, LevelExcellent, BlendLevel(LevelExcellent, PredictSensoryDefaults(LevelExcellent)))
	})

	t.Run("good survey moderates a poor image", func(t *testing.T) {
		assert.Equal(t, LevelAverage, BlendLevel(LevelWarning, SensoryData{Smell: 10, Texture: 10, Moisture: 10, Drip: 10}))
	})

	t.Run("bad survey pulls a fresh image down", func(t *testing.T) {
		s := SensoryData{Smell: 55, Texture: 95, Moisture: 55, Drip: 95}
		assert.Equal(t, LevelWarning, SensoryLevel(s))
		assert.Equal(t, LevelAverage, BlendLevel(LevelExcellent, s))
	})

	t.Run("invalid image level is treated as spoiled", func(t *testing.T) {
		assert.Equal(t, LevelAverage, BlendLevel(0, PredictSensoryDefaults(LevelExcellent)))
	})
}

func TestSensoryCues(t *testing.T) {
	cues := SensoryCues(SensoryData{Smell: 90, Moisture: 75, Texture: 20, Drip: 10})
	assert.Len(t, cues, 2)
	assert.Contains(t, cues[0], "smell 90/100")
	assert.Contains(t, cues[1], "sliminess 75/100")

	calm := SensoryCues(SensoryData{Smell: 5, Texture: 5, Moisture: 5, Drip: 5})
	assert.Len(t, calm, 1)
	assert.Contains(t, calm[0], "normal range")
}

func TestSafetyStatusForLevel(t *testing.T) {
	assert.Equal(t, SafetyFresh, SafetyStatusForLevel(LevelGood))
	assert.Equal(t, SafetyCaution, SafetyStatusForLevel(LevelAverage))
	assert.Equal(t, SafetySpoiled, SafetyStatusForLevel(LevelWarning))
	assert.Equal(t, SafetyUnknown, SafetyStatusForLevel(7))
}
