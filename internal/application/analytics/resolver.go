// Package analytics derives per-patient and per-organization answers from
// completed task results: nearest-centroid profile lookup, survival model
// inference, and reshaping of heterogeneous organization records into
// comparable tables.
package analytics

import (
	"fmt"
	"math"

	"github.com/onconet/healthai/internal/domain/staging"
	"github.com/onconet/healthai/pkg/errors"
)

// Resolve finds the centroid nearest to query by Euclidean distance and
// returns the profile paired with it.  Ties go to the first centroid
// encountered (stable argmin).
//
// The centroid and profile sequences are validated on every call: both must
// be non-empty and of equal length, and every centroid must live in the
// 3-dimensional staging feature space.  A violation is a data error and is
// reported, never papered over with a wrong profile.
func Resolve[T any](query staging.FeatureVector, centroids [][]float64, profiles []T) (T, error) {
	var zero T
	if len(centroids) == 0 {
		return zero, errors.ShapeViolation("centroid set is empty")
	}
	if len(centroids) != len(profiles) {
		return zero, errors.ShapeViolation("centroid and profile counts differ").
			WithDetail(fmt.Sprintf("centroids=%d profiles=%d", len(centroids), len(profiles)))
	}

	q := query.Floats()
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if len(c) != len(q) {
			return zero, errors.ShapeViolation("centroid dimensionality does not match the feature space").
				WithDetail(fmt.Sprintf("centroid=%d width=%d want=%d", i, len(c), len(q)))
		}
		var sum float64
		for j := range q {
			d := q[j] - c[j]
			sum += d * d
		}
		if dist := math.Sqrt(sum); dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return profiles[best], nil
}

// SurvivalDays generates the fixed day axis for survival curves: the
// arithmetic sequence 0, delta, 2*delta, ... strictly below cutoff.  With the
// default cutoff of 730 and delta of 30 this yields 25 values, 0 through 720.
func SurvivalDays(cutoff, delta int) ([]int, error) {
	if delta <= 0 {
		return nil, errors.InvalidParam("delta must be positive").
			WithDetail(fmt.Sprintf("delta=%d", delta))
	}
	if cutoff <= delta {
		return nil, errors.InvalidParam("cutoff must exceed delta").
			WithDetail(fmt.Sprintf("cutoff=%d delta=%d", cutoff, delta))
	}
	days := make([]int, 0, cutoff/delta+1)
	for d := 0; d < cutoff; d += delta {
		days = append(days, d)
	}
	return days, nil
}

// SurvivalPoint is one (day, rate) sample of a survival curve.
type SurvivalPoint struct {
	Day  int     `json:"day"`
	Rate float64 `json:"rate"`
}

// PairSurvival zips the day axis with a profile's survival rates.  The two
// sequences must be the same length; a mismatch fails the lookup instead of
// truncating to the shorter side.
func PairSurvival(days []int, rates []float64) ([]SurvivalPoint, error) {
	if len(days) != len(rates) {
		return nil, errors.ShapeViolation("survival day axis and rate curve lengths differ").
			WithDetail(fmt.Sprintf("days=%d rates=%d", len(days), len(rates)))
	}
	points := make([]SurvivalPoint, len(days))
	for i := range days {
		points[i] = SurvivalPoint{Day: days[i], Rate: rates[i]}
	}
	return points, nil
}

//Personal.AI order the ending
