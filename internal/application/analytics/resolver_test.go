package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onconet/healthai/internal/domain/staging"
	"github.com/onconet/healthai/pkg/errors"
)

func TestResolve_NearestCentroidWins(t *testing.T) {
	centroids := [][]float64{{0, 0, 0}, {10, 10, 10}}
	profiles := [][]string{{"A"}, {"B"}}

	got, err := Resolve(staging.FeatureVector{1, 1, 1}, centroids, profiles)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, got)
}

func TestResolve_SurvivalProfiles(t *testing.T) {
	centroids := [][]float64{{1, 0, 0}, {4, 3, 1}}
	profiles := [][]float64{{0.9, 0.5}, {0.6, 0.2}}

	got, err := Resolve(staging.FeatureVector{2, 1, 0}, centroids, profiles)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, 0.5}, got)
}

func TestResolve_TieGoesToFirstCentroid(t *testing.T) {
	centroids := [][]float64{{2, 0, 0}, {0, 2, 0}}
	profiles := []string{"first", "second"}

	got, err := Resolve(staging.FeatureVector{1, 1, 0}, centroids, profiles)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestResolve_EmptyCentroids(t *testing.T) {
	_, err := Resolve(staging.FeatureVector{}, nil, []string{})
	require.Error(t, err)
	assert.True(t, errors.IsShapeViolation(err))
}

func TestResolve_LengthMismatch(t *testing.T) {
	centroids := [][]float64{{0, 0, 0}, {1, 1, 1}}
	profiles := []string{"only-one"}

	_, err := Resolve(staging.FeatureVector{0, 0, 0}, centroids, profiles)
	require.Error(t, err)
	assert.True(t, errors.IsShapeViolation(err))
}

func TestResolve_BadCentroidWidth(t *testing.T) {
	centroids := [][]float64{{0, 0}}
	profiles := []string{"x"}

	_, err := Resolve(staging.FeatureVector{0, 0, 0}, centroids, profiles)
	require.Error(t, err)
	assert.True(t, errors.IsShapeViolation(err))
}

func TestSurvivalDays_DefaultParameters(t *testing.T) {
	days, err := SurvivalDays(730, 30)
	require.NoError(t, err)
	require.Len(t, days, 25)
	assert.Equal(t, 0, days[0])
	assert.Equal(t, 30, days[1])
	assert.Equal(t, 720, days[24])
}

func TestSurvivalDays_RejectsBadParameters(t *testing.T) {
	_, err := SurvivalDays(730, 0)
	require.Error(t, err)

	_, err = SurvivalDays(20, 30)
	require.Error(t, err)
}

func TestPairSurvival_ZipsPositionally(t *testing.T) {
	points, err := PairSurvival([]int{0, 30, 60}, []float64{1.0, 0.8, 0.7})
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, SurvivalPoint{Day: 30, Rate: 0.8}, points[1])
}

func TestPairSurvival_LengthMismatchFails(t *testing.T) {
	_, err := PairSurvival([]int{0, 30, 60}, []float64{1.0, 0.8})
	require.Error(t, err)
	assert.True(t, errors.IsShapeViolation(err))
}

//Personal.AI order the ending
