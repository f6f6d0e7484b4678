// Package staging models the TNM clinical staging scheme: the reference
// enumeration of valid stage labels per axis, and the codec that converts
// categorical labels into the integer feature space used by the analytics
// layer.
package staging

import (
	"encoding/json"
	"os"

	"github.com/onconet/healthai/pkg/errors"
)

// Axis identifies one of the three TNM staging axes.
type Axis string

const (
	AxisT Axis = "t"
	AxisN Axis = "n"
	AxisM Axis = "m"
)

// Axes lists the three axes in feature-vector order.  FeatureVector
// positions follow this order.
var Axes = [3]Axis{AxisT, AxisN, AxisM}

// FeatureVector is the ordered (t, n, m) triple of integer stage ranks,
// used as a point in a small Euclidean space.
type FeatureVector [3]int

// Floats returns the vector as float64 coordinates for distance computations.
func (v FeatureVector) Floats() [3]float64 {
	return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
}

// axisEntry mirrors one axis section of the common data model document.
type axisEntry struct {
	Values []string `json:"values"`
}

// CDM is the clinical common data model: per axis, the ordered list of valid
// category labels.  The order defines both the UI dropdown order and the
// enumeration-rank encoding.
type CDM struct {
	values map[Axis][]string
}

// NewCDM constructs a CDM from explicit per-axis enumerations.  Every axis in
// Axes must be present and non-empty.
func NewCDM(values map[Axis][]string) (*CDM, error) {
	for _, axis := range Axes {
		if len(values[axis]) == 0 {
			return nil, errors.New(errors.ErrCodeUnknownAxis, "reference data missing axis").
				WithDetail("axis=" + string(axis))
		}
	}
	copied := make(map[Axis][]string, len(values))
	for axis, labels := range values {
		copied[axis] = append([]string(nil), labels...)
	}
	return &CDM{values: copied}, nil
}

// LoadCDM reads the common data model document from path.  The document is
// keyed by axis name, each axis holding an ordered list of valid labels:
//
//	{"t": {"values": ["T0", "T1", ...]}, "n": {...}, "m": {...}}
func LoadCDM(path string) (*CDM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read reference data file")
	}
	var doc map[Axis]axisEntry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to parse reference data file")
	}
	values := make(map[Axis][]string, len(doc))
	for axis, entry := range doc {
		values[axis] = entry.Values
	}
	return NewCDM(values)
}

// Labels returns the ordered enumeration for axis, or an error when the axis
// is not part of the model.
func (c *CDM) Labels(axis Axis) ([]string, error) {
	labels, ok := c.values[axis]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownAxis, "unknown staging axis").
			WithDetail("axis=" + string(axis))
	}
	return labels, nil
}

//Personal.AI order the ending
