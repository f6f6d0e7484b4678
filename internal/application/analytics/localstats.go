package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/onconet/healthai/pkg/errors"
)

// dateLayout is the wire format of the dataset's date columns.
const dateLayout = "2006-01-02"

// PatientRow is one record of the local tabular dataset, used by the
// non-federated statistics variant.
type PatientRow struct {
	ID          string
	Centre      string
	Stage       string
	VitalStatus string
	Diagnosis   time.Time
	FollowUp    time.Time
}

// datasetColumns are the required header fields, in any order.
var datasetColumns = []string{"id", "centre", "stage", "vital_status", "date_of_diagnosis", "date_of_follow_up"}

// LoadDataset reads the local CSV dataset at path.  The header row must name
// every required column; extra columns are ignored.
func LoadDataset(path string) ([]PatientRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetParse, "failed to open dataset")
	}
	defer f.Close()
	return ParseDataset(f)
}

// ParseDataset reads patient rows from CSV data.
func ParseDataset(r io.Reader) ([]PatientRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetParse, "failed to read dataset header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, want := range datasetColumns {
		if _, ok := col[want]; !ok {
			return nil, errors.New(errors.ErrCodeDatasetParse, "dataset is missing a required column").
				WithDetail("column=" + want)
		}
	}

	var rows []PatientRow
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetParse, "failed to read dataset row").
				WithDetail(fmt.Sprintf("line=%d", line))
		}

		diagnosis, err := time.Parse(dateLayout, record[col["date_of_diagnosis"]])
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetParse, "invalid date_of_diagnosis").
				WithDetail(fmt.Sprintf("line=%d", line))
		}
		followUp, err := time.Parse(dateLayout, record[col["date_of_follow_up"]])
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatasetParse, "invalid date_of_follow_up").
				WithDetail(fmt.Sprintf("line=%d", line))
		}

		rows = append(rows, PatientRow{
			ID:          record[col["id"]],
			Centre:      record[col["centre"]],
			Stage:       record[col["stage"]],
			VitalStatus: record[col["vital_status"]],
			Diagnosis:   diagnosis,
			FollowUp:    followUp,
		})
	}
	return rows, nil
}

// CentreSummary is the local-variant counterpart of an organization record:
// aggregate statistics for one treatment centre.
type CentreSummary struct {
	Centre      string         `json:"centre"`
	NIDs        int            `json:"nids"`
	Stages      map[string]int `json:"stages"`
	VitalStatus map[string]int `json:"vital_status"`
	Survival    []float64      `json:"survival"`
}

// Summarize aggregates patient rows per centre: record counts, stage and
// vital-status breakdowns, and the survival rate at each day of the binning
// axis.  A patient counts as surviving at day d when their observed follow-up
// interval reaches d.  Centres are returned in name order.
func Summarize(rows []PatientRow, cutoff, delta int) ([]CentreSummary, error) {
	days, err := SurvivalDays(cutoff, delta)
	if err != nil {
		return nil, err
	}

	byCentre := make(map[string][]PatientRow)
	for _, row := range rows {
		byCentre[row.Centre] = append(byCentre[row.Centre], row)
	}

	centres := make([]string, 0, len(byCentre))
	for centre := range byCentre {
		centres = append(centres, centre)
	}
	sort.Strings(centres)

	summaries := make([]CentreSummary, 0, len(centres))
	for _, centre := range centres {
		group := byCentre[centre]
		s := CentreSummary{
			Centre:      centre,
			NIDs:        len(group),
			Stages:      make(map[string]int),
			VitalStatus: make(map[string]int),
			Survival:    make([]float64, len(days)),
		}
		for _, row := range group {
			s.Stages[row.Stage]++
			s.VitalStatus[row.VitalStatus]++
		}
		for i, d := range days {
			surviving := 0
			for _, row := range group {
				if int(row.FollowUp.Sub(row.Diagnosis).Hours()/24) >= d {
					surviving++
				}
			}
			s.Survival[i] = float64(surviving) / float64(len(group))
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

//Personal.AI order the ending
