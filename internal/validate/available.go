package validate

import (
	"fmt"

	"serumqc/internal/dataset"
	"serumqc/internal/logger"
)

// AvailabilityCheck normalizes the availability column to booleans. Only an
// exact "N" marks a sample unavailable; anything else, including a missing
// value, defaults to available.
type AvailabilityCheck struct {
	Logger *logger.Logger
	Column string
}

// Name returns the column this check covers.
func (c *AvailabilityCheck) Name() string { return c.Column }

// Run rewrites every cell in the column to a boolean and flags rows whose
// original value was neither "Y" nor "N" nor missing. Cells already
// normalized pass through unchanged.
func (c *AvailabilityCheck) Run(t *dataset.Table, rec Recorder) (CheckStats, error) {
	stats := CheckStats{Check: c.Name(), Rows: t.RowCount()}

	col, ok := t.ColumnIndex(c.Column)
	if !ok {
		return stats, fmt.Errorf("%w: %s", ErrUnknownColumn, c.Column)
	}

	for i := range t.Rows {
		v := t.Cell(i, col)

		var issues []string

		switch v.Kind() {
		case dataset.KindNull:
			t.SetCell(i, col, dataset.BoolValue(true))
		case dataset.KindBool:
			// already normalized
		case dataset.KindString:
			switch v.Raw() {
			case "N":
				t.SetCell(i, col, dataset.BoolValue(false))
			case "Y":
				t.SetCell(i, col, dataset.BoolValue(true))
			default:
				t.SetCell(i, col, dataset.BoolValue(true))
				issues = append(issues, fmt.Sprintf("Availability is unknown at index: %d, check to confirm availability", i))
			}
		default:
			if c.Logger != nil {
				c.Logger.Warn(fmt.Sprintf("Unexpected value during '%s' validation at index: %d, value: %s", c.Column, i, v.String()))
			}

			stats.Skipped++

			continue
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
