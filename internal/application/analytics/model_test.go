package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onconet/healthai/internal/domain/staging"
	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/pkg/errors"
)

func binaryModel(coef []float64, intercept float64) task.LogisticModel {
	return task.LogisticModel{
		Classes:      []string{"dead", "alive"},
		Coefficients: [][]float64{coef},
		Intercepts:   []float64{intercept},
	}
}

func TestPredictProba_ZeroBinaryModelIsCoinFlip(t *testing.T) {
	m := binaryModel([]float64{0, 0, 0}, 0)

	probs, err := PredictProba(m, staging.FeatureVector{3, 2, 1})
	require.NoError(t, err)
	require.Len(t, probs, 2)
	assert.InDelta(t, 0.5, probs[0], 1e-9)
	assert.InDelta(t, 0.5, probs[1], 1e-9)
}

func TestPredictProba_MonotoneInLogit(t *testing.T) {
	m := binaryModel([]float64{-0.5, -0.5, -1.0}, 2.0)

	early, err := PredictProba(m, staging.FeatureVector{0, 0, 0})
	require.NoError(t, err)
	late, err := PredictProba(m, staging.FeatureVector{4, 3, 1})
	require.NoError(t, err)

	// Higher stage means lower survival probability under negative weights.
	assert.Greater(t, early[1], late[1])
	assert.InDelta(t, 1.0/(1.0+1.0/7.38905609893065), early[1], 1e-6) // sigmoid(2)
}

func TestPredict_BinaryPicksLikelierClass(t *testing.T) {
	m := binaryModel([]float64{-1, 0, 0}, 0.5)

	cls, p, err := Predict(m, staging.FeatureVector{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "alive", cls) // sigmoid(0.5) > 0.5
	assert.InDelta(t, 0.62245933, p, 1e-6)

	cls, p, err = Predict(m, staging.FeatureVector{2, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "dead", cls) // sigmoid(-1.5) < 0.5
	assert.InDelta(t, 1-0.18242552, p, 1e-6)
}

func TestPredictProba_MulticlassSoftmax(t *testing.T) {
	m := task.LogisticModel{
		Classes: []string{"alive", "dead", "lost to follow-up"},
		Coefficients: [][]float64{
			{1, 0, 0},
			{0, 0, 0},
			{0, 0, 0},
		},
		Intercepts: []float64{0, 0, 0},
	}

	probs, err := PredictProba(m, staging.FeatureVector{2, 0, 0})
	require.NoError(t, err)
	require.Len(t, probs, 3)

	var sum float64
	for _, p := range probs {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, probs[0], probs[1])
	assert.InDelta(t, probs[1], probs[2], 1e-9)

	cls, p, err := Predict(m, staging.FeatureVector{2, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "alive", cls)
	assert.InDelta(t, probs[0], p, 1e-9)
}

func TestPredictProba_RowCountMismatch(t *testing.T) {
	m := task.LogisticModel{
		Classes:      []string{"alive", "dead", "unknown"},
		Coefficients: [][]float64{{1, 2, 3}},
		Intercepts:   []float64{0},
	}

	_, err := PredictProba(m, staging.FeatureVector{0, 0, 0})
	require.Error(t, err)
	assert.True(t, errors.IsShapeViolation(err))
}

func TestPredictProba_CoefficientWidthMismatch(t *testing.T) {
	m := task.LogisticModel{
		Classes:      []string{"dead", "alive"},
		Coefficients: [][]float64{{1, 2}},
		Intercepts:   []float64{0},
	}

	_, err := PredictProba(m, staging.FeatureVector{0, 0, 0})
	require.Error(t, err)
	assert.True(t, errors.IsShapeViolation(err))
}

//Personal.AI order the ending
