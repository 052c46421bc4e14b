package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticExamples builds a training set where points track the trailing
// mean closely, so a sane regressor separates hot and cold scorers.
func syntheticExamples(n int, seed int64) []Example {
	rng := rand.New(rand.NewSource(seed))
	opponents := []string{"BOS", "LAL", "MIA", "DEN"}
	positions := []string{"Guard", "Forward", "Center"}

	examples := make([]Example, n)
	for i := range examples {
		trail := 5.0 + rng.Float64()*25.0
		examples[i] = Example{
			IsHome:        i%2 == 0,
			RestDays:      float64(rng.Intn(6)),
			TrailPoints:   trail,
			TrailRebounds: 4 + rng.Float64()*6,
			TrailAssists:  2 + rng.Float64()*6,
			TrailMinutes:  20 + rng.Float64()*16,
			TrailFGA:      trail * 0.8,
			SeasonPoints:  trail + rng.Float64()*2 - 1,
			FormDelta:     rng.Float64()*4 - 2,
			Position:      positions[i%len(positions)],
			Opponent:      opponents[i%len(opponents)],
			Points:        trail + rng.Float64()*4 - 2,
			Rebounds:      4 + rng.Float64()*6,
			Assists:       2 + rng.Float64()*6,
		}
	}
	return examples
}

func TestTrainEmptySetFails(t *testing.T) {
	_, err := Train(nil, DefaultForestConfig(1))
	assert.ErrorIs(t, err, ErrInsufficientTrainingData)

	_, err = Train([]Example{}, DefaultForestConfig(1))
	assert.ErrorIs(t, err, ErrInsufficientTrainingData)
}

func TestTrainDeterministicWithSeed(t *testing.T) {
	examples := syntheticExamples(120, 7)
	cfg := DefaultForestConfig(42).WithTrees(20)

	m1, err := Train(examples, cfg)
	require.NoError(t, err)
	m2, err := Train(examples, cfg)
	require.NoError(t, err)

	probe := examples[0]
	p1, r1, a1, ok1 := m1.Predict(probe)
	p2, r2, a2, ok2 := m2.Predict(probe)
	require.True(t, ok1)
	require.True(t, ok2)

	assert.Equal(t, p1, p2)
	assert.Equal(t, r1, r2)
	assert.Equal(t, a1, a2)
}

func TestForestSeparatesHotAndColdScorers(t *testing.T) {
	examples := syntheticExamples(200, 3)
	models, err := Train(examples, DefaultForestConfig(1).WithTrees(30))
	require.NoError(t, err)

	cold := examples[0]
	cold.TrailPoints = 6
	cold.SeasonPoints = 6
	cold.TrailFGA = 5

	hot := examples[0]
	hot.TrailPoints = 28
	hot.SeasonPoints = 28
	hot.TrailFGA = 22

	coldPts, _, _, ok := models.Predict(cold)
	require.True(t, ok)
	hotPts, _, _, ok := models.Predict(hot)
	require.True(t, ok)

	assert.Greater(t, hotPts, coldPts)
}

func TestSchemaClosedDomain(t *testing.T) {
	examples := syntheticExamples(60, 11)
	models, err := Train(examples, DefaultForestConfig(5).WithTrees(5))
	require.NoError(t, err)

	unseen := examples[0]
	unseen.Opponent = "SEA" // never in training

	_, _, _, ok := models.Predict(unseen)
	assert.False(t, ok, "unseen opponent must be filtered, not coerced")

	unseenPos := examples[0]
	unseenPos.Position = "Wing"
	_, _, _, ok = models.Predict(unseenPos)
	assert.False(t, ok)
}

func TestSchemaVectorLayout(t *testing.T) {
	examples := syntheticExamples(10, 2)
	schema := BuildSchema(examples)

	vec, ok := schema.Vector(examples[0])
	require.True(t, ok)
	assert.Len(t, vec, schema.Width())

	// Exactly one position and one opponent slot are set.
	hot := 0
	for _, v := range vec[numericFeatures:] {
		if v == 1 {
			hot++
		} else {
			assert.Zero(t, v)
		}
	}
	assert.Equal(t, 2, hot)
}
