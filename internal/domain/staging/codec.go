package staging

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/onconet/healthai/pkg/errors"
)

// Policy selects the stage-encoding scheme.  Exactly one policy is active per
// codec instance; the two schemes are not interchangeable (under enumeration
// "T1a" encodes to its position in the enumeration, under digit extraction it
// encodes to 1).
type Policy string

const (
	// PolicyEnumeration maps a label to its index in the axis enumeration.
	// Unknown labels are an error, never a silent default.
	PolicyEnumeration Policy = "enumeration"

	// PolicyDigit is the legacy scheme: the first digit found in the label,
	// or -1 when the label contains no digit.
	PolicyDigit Policy = "digit"
)

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyEnumeration, PolicyDigit:
		return Policy(s), nil
	default:
		return "", errors.InvalidParam("invalid stage encoding policy").WithDetail("policy=" + s)
	}
}

var digitRe = regexp.MustCompile(`\d`)

// Codec converts categorical stage labels into integer ranks under a single
// active policy.  Codec is immutable and safe for concurrent use.
type Codec struct {
	cdm    *CDM
	policy Policy
	// rank indexes label → position per axis, built once for the
	// enumeration policy.
	rank map[Axis]map[string]int
}

// NewCodec builds a Codec over the given reference data and policy.
func NewCodec(cdm *CDM, policy Policy) (*Codec, error) {
	if cdm == nil {
		return nil, errors.InvalidParam("reference data is required")
	}
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	rank := make(map[Axis]map[string]int, len(Axes))
	for _, axis := range Axes {
		labels, err := cdm.Labels(axis)
		if err != nil {
			return nil, err
		}
		m := make(map[string]int, len(labels))
		for i, label := range labels {
			m[label] = i
		}
		rank[axis] = m
	}
	return &Codec{cdm: cdm, policy: policy, rank: rank}, nil
}

// Policy returns the active encoding policy.
func (c *Codec) Policy() Policy { return c.policy }

// Encode converts a stage label on the given axis into its integer rank.
//
// Under PolicyEnumeration the label must belong to the axis enumeration;
// unknown labels yield ErrCodeUnknownStage.  Under PolicyDigit the first digit
// of the label is extracted and labels without a digit map to -1; the axis
// must still be valid.
func (c *Codec) Encode(axis Axis, label string) (int, error) {
	ranks, ok := c.rank[axis]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownAxis, "unknown staging axis").
			WithDetail("axis=" + string(axis))
	}

	if c.policy == PolicyDigit {
		if d := digitRe.FindString(label); d != "" {
			n, _ := strconv.Atoi(d)
			return n, nil
		}
		return -1, nil
	}

	r, ok := ranks[label]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownStage, "stage label not in the configured enumeration").
			WithDetail(fmt.Sprintf("axis=%s label=%s", axis, label))
	}
	return r, nil
}

// Decode is the inverse of Encode for the enumeration policy: it maps a rank
// back to its label.  The digit policy is not invertible and Decode reports a
// validation error for it.
func (c *Codec) Decode(axis Axis, rank int) (string, error) {
	if c.policy != PolicyEnumeration {
		return "", errors.InvalidParam("decode is only defined for the enumeration policy")
	}
	labels, err := c.cdm.Labels(axis)
	if err != nil {
		return "", err
	}
	if rank < 0 || rank >= len(labels) {
		return "", errors.New(errors.ErrCodeUnknownStage, "rank outside the enumeration range").
			WithDetail(fmt.Sprintf("axis=%s rank=%d size=%d", axis, rank, len(labels)))
	}
	return labels[rank], nil
}

// EncodeVector encodes the (t, n, m) label triple into a FeatureVector.
func (c *Codec) EncodeVector(t, n, m string) (FeatureVector, error) {
	var v FeatureVector
	labels := [3]string{t, n, m}
	for i, axis := range Axes {
		r, err := c.Encode(axis, labels[i])
		if err != nil {
			return FeatureVector{}, err
		}
		v[i] = r
	}
	return v, nil
}

//Personal.AI order the ending
