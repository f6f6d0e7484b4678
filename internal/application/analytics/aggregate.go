package analytics

import (
	"sort"

	"github.com/onconet/healthai/internal/domain/task"
	"github.com/onconet/healthai/pkg/errors"
)

// CountRow is one (organization, category) cell of a reshaped count table.
type CountRow struct {
	Organization int    `json:"organization"`
	Category     string `json:"category"`
	Count        int    `json:"count"`
}

// StageCounts reshapes per-organization stage breakdowns for one axis into a
// flat count table.  The category axis is the union of categories reported by
// any organization; an organization that did not report a category gets an
// explicit zero row, never a missing one.  Rows are ordered by category, then
// by organization in input order.
func StageCounts(records []task.OrganizationRecord, axis string) ([]CountRow, error) {
	perOrg := make([]map[string]int, len(records))
	union := make(map[string]struct{})
	for i, rec := range records {
		counts, ok := rec.Stages[axis]
		if !ok {
			return nil, errors.ShapeViolation("organization record is missing the requested axis").
				WithDetail("axis=" + axis)
		}
		perOrg[i] = counts
		for cat := range counts {
			union[cat] = struct{}{}
		}
	}
	return buildRows(records, perOrg, union), nil
}

// VitalStatusCounts reshapes vital-status breakdowns across organizations,
// with the same category-union and zero-fill semantics as StageCounts.
func VitalStatusCounts(records []task.OrganizationRecord) []CountRow {
	perOrg := make([]map[string]int, len(records))
	union := make(map[string]struct{})
	for i, rec := range records {
		perOrg[i] = rec.VitalStatus
		for cat := range rec.VitalStatus {
			union[cat] = struct{}{}
		}
	}
	return buildRows(records, perOrg, union)
}

func buildRows(records []task.OrganizationRecord, perOrg []map[string]int, union map[string]struct{}) []CountRow {
	categories := make([]string, 0, len(union))
	for cat := range union {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	rows := make([]CountRow, 0, len(categories)*len(records))
	for _, cat := range categories {
		for i, rec := range records {
			rows = append(rows, CountRow{
				Organization: rec.Organization,
				Category:     cat,
				Count:        perOrg[i][cat],
			})
		}
	}
	return rows
}

// RecordTotal is one organization's record count.
type RecordTotal struct {
	Organization int `json:"organization"`
	NIDs         int `json:"nids"`
}

// RecordTotals lists per-organization record counts in input order.
func RecordTotals(records []task.OrganizationRecord) []RecordTotal {
	totals := make([]RecordTotal, len(records))
	for i, rec := range records {
		totals[i] = RecordTotal{Organization: rec.Organization, NIDs: rec.NIDs}
	}
	return totals
}

// SurvivalCurves pairs every organization's survival curve with the shared
// day axis.  All curves must match the axis length.
func SurvivalCurves(records []task.OrganizationRecord, days []int) (map[int][]SurvivalPoint, error) {
	curves := make(map[int][]SurvivalPoint, len(records))
	for _, rec := range records {
		points, err := PairSurvival(days, rec.Survival)
		if err != nil {
			return nil, err
		}
		curves[rec.Organization] = points
	}
	return curves, nil
}

//Personal.AI order the ending
