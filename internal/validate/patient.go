package validate

import (
	"fmt"
	"strings"

	"serumqc/internal/dataset"
)

// PatientIDCheck verifies the patient study identifier column. A value is
// well formed when it contains at least one of the configured cohort
// markers as a case-sensitive substring.
type PatientIDCheck struct {
	Column  string
	Markers []string
}

// Name returns the column this check covers.
func (c *PatientIDCheck) Name() string { return c.Column }

// Run flags rows whose patient ID is missing or carries no cohort marker.
// The column is never modified.
func (c *PatientIDCheck) Run(t *dataset.Table, rec Recorder) (CheckStats, error) {
	stats := CheckStats{Check: c.Name(), Rows: t.RowCount()}

	col, ok := t.ColumnIndex(c.Column)
	if !ok {
		return stats, fmt.Errorf("%w: %s", ErrUnknownColumn, c.Column)
	}

	for i := range t.Rows {
		v := t.Cell(i, col)

		var issues []string

		if v.IsNull() {
			issues = append(issues, "PTID is NA")
		} else if !containsAny(v.String(), c.Markers) {
			issues = append(issues, fmt.Sprintf("PTID '%s' is not correctly formatted", v.String()))
		}

		if len(issues) == 0 {
			continue
		}

		stats.Entries++
		stats.Issues += len(issues)

		if err := rec.Record(&t.Rows[i], i, issues); err != nil {
			return stats, err
		}
	}

	return stats, nil
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}

	return false
}
