package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/onconet/healthai/pkg/errors"
)

// ResultRecord is one organization's raw result row as returned by the
// platform's result listing.  Result holds the undecoded payload; typed
// decoding happens per workflow.
type ResultRecord struct {
	Organization int             `json:"organization"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
	Result       json.RawMessage `json:"result"`
}

// SimilarityResult is the decoded payload of the patient-similarity master
// task: k cluster centroids in the encoded (t, n, m) feature space and,
// row-aligned with them, the k survival profiles of those clusters.
type SimilarityResult struct {
	Centroids [][]float64 `json:"centroids"`
	Profiles  [][]float64 `json:"profiles"`
}

// Validate enforces the centroid/profile pairing invariants: both matrices
// non-empty, equal row counts, and every centroid a (t, n, m) triple.
// Profile rows are survival curves and may have any length; their pairing
// with the day axis is validated at lookup time.
func (r *SimilarityResult) Validate() error {
	if len(r.Centroids) == 0 || len(r.Profiles) == 0 {
		return errors.ShapeViolation("similarity result has no centroids or profiles")
	}
	if len(r.Centroids) != len(r.Profiles) {
		return errors.ShapeViolation("centroid and profile row counts differ").
			WithDetail(fmt.Sprintf("centroids=%d profiles=%d", len(r.Centroids), len(r.Profiles)))
	}
	for i, row := range r.Centroids {
		if len(row) != 3 {
			return errors.ShapeViolation("centroid row is not a (t, n, m) triple").
				WithDetail(fmt.Sprintf("row=%d width=%d", i, len(row)))
		}
	}
	return nil
}

// SurvivalResult is the decoded payload of the federated survival task: the
// fitted logistic model plus the training accuracy reported by the master
// node.
type SurvivalResult struct {
	Model    LogisticModel `json:"model"`
	Accuracy float64       `json:"accuracy"`
}

// LogisticModel holds a fitted logistic regression over the encoded (t, n, m)
// feature space.  Classes lists the vital-status labels predictions are drawn
// from; Coefficients holds one row per score with its intercept in the same
// position.  A binary model carries a single row scoring the second class.
type LogisticModel struct {
	Classes      []string    `json:"classes"`
	Coefficients [][]float64 `json:"coef"`
	Intercepts   []float64   `json:"intercept"`
}

// Binary reports whether the model is a two-class, single-row fit.
func (m LogisticModel) Binary() bool { return len(m.Classes) == 2 }

// Validate checks the class/coefficient/intercept shape of the model.
func (m LogisticModel) Validate() error {
	if len(m.Classes) < 2 {
		return errors.ShapeViolation("survival model needs at least two classes").
			WithDetail(fmt.Sprintf("classes=%d", len(m.Classes)))
	}
	rows := len(m.Classes)
	if m.Binary() {
		rows = 1
	}
	if len(m.Coefficients) != rows || len(m.Intercepts) != rows {
		return errors.ShapeViolation("survival model rows do not match its classes").
			WithDetail(fmt.Sprintf("classes=%d coef_rows=%d intercepts=%d",
				len(m.Classes), len(m.Coefficients), len(m.Intercepts)))
	}
	for i, row := range m.Coefficients {
		if len(row) != 3 {
			return errors.ShapeViolation("survival model coefficient row does not match feature width").
				WithDetail(fmt.Sprintf("row=%d coefficients=%d want=3", i, len(row)))
		}
	}
	return nil
}

// Validate checks the embedded model.
func (r *SurvivalResult) Validate() error {
	return r.Model.Validate()
}

// OrganizationRecord is one organization's contribution to the federated
// statistics task: record count, per-category stage counts on each axis,
// vital-status counts, and the per-day survival rate curve.
type OrganizationRecord struct {
	Organization int                       `json:"organization"`
	NIDs         int                       `json:"nids"`
	Stages       map[string]map[string]int `json:"stages"`
	VitalStatus  map[string]int            `json:"vital_status"`
	Survival     []float64                 `json:"survival"`
}

// Validate enforces the minimal shape of a statistics contribution.
func (r *OrganizationRecord) Validate() error {
	if r.NIDs < 0 {
		return errors.ShapeViolation("negative record count").
			WithDetail(fmt.Sprintf("organization=%d nids=%d", r.Organization, r.NIDs))
	}
	if len(r.Stages) == 0 {
		return errors.ShapeViolation("statistics contribution has no stage counts").
			WithDetail(fmt.Sprintf("organization=%d", r.Organization))
	}
	return nil
}

// decode unmarshals a raw result payload into dst, classifying JSON failures
// as malformed-result errors.
func decode(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return errors.New(errors.ErrCodeResultMissing, "result payload is empty")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeMalformedResult, "failed to decode result payload")
	}
	return nil
}

// DecodeSimilarity decodes and validates a similarity result payload.
func DecodeSimilarity(raw json.RawMessage) (*SimilarityResult, error) {
	var r SimilarityResult
	if err := decode(raw, &r); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// DecodeSurvival decodes and validates a survival result payload.
func DecodeSurvival(raw json.RawMessage) (*SurvivalResult, error) {
	var r SurvivalResult
	if err := decode(raw, &r); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// DecodeStatistics decodes one organization's statistics contribution.  The
// organization ID from the surrounding record takes precedence over any value
// inside the payload.
func DecodeStatistics(rec ResultRecord) (*OrganizationRecord, error) {
	var r OrganizationRecord
	if err := decode(rec.Result, &r); err != nil {
		return nil, err
	}
	r.Organization = rec.Organization
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// DecodeStatisticsSet decodes every organization record in a result listing.
func DecodeStatisticsSet(records []ResultRecord) ([]OrganizationRecord, error) {
	out := make([]OrganizationRecord, 0, len(records))
	for _, rec := range records {
		r, err := DecodeStatistics(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

//Personal.AI order the ending
