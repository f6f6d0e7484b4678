package analytics

import (
	"fmt"
	"math"

	"github.com/onconet/healthai/internal/domain/staging"
	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/pkg/errors"
)

// scores computes the per-row linear scores of the model on q.
func scores(m task.LogisticModel, q []float64) ([]float64, error) {
	out := make([]float64, len(m.Coefficients))
	for i, row := range m.Coefficients {
		if len(row) != len(q) {
			return nil, errors.ShapeViolation("model coefficient row does not match the feature space").
				WithDetail(fmt.Sprintf("row=%d coefficients=%d want=%d", i, len(row), len(q)))
		}
		z := m.Intercepts[i]
		for j, w := range row {
			z += w * q[j]
		}
		out[i] = z
	}
	return out, nil
}

// PredictProba evaluates the fitted logistic model on an encoded staging
// vector and returns one probability per class, aligned with m.Classes.  A
// binary model scores its second class through the sigmoid; a multiclass
// model distributes the per-class scores through a softmax.
func PredictProba(m task.LogisticModel, v staging.FeatureVector) ([]float64, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	f := v.Floats()
	z, err := scores(m, f[:])
	if err != nil {
		return nil, err
	}

	if m.Binary() {
		p := 1.0 / (1.0 + math.Exp(-z[0]))
		return []float64{1 - p, p}, nil
	}

	// Softmax with the max subtracted for numerical stability.
	max := z[0]
	for _, s := range z[1:] {
		if s > max {
			max = s
		}
	}
	probs := make([]float64, len(z))
	var sum float64
	for i, s := range z {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs, nil
}

// Predict returns the most probable class label together with that class's
// probability.  Ties resolve to the first class in model order.
func Predict(m task.LogisticModel, v staging.FeatureVector) (string, float64, error) {
	probs, err := PredictProba(m, v)
	if err != nil {
		return "", 0, err
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return m.Classes[best], probs[best], nil
}

//Personal.AI order the ending
