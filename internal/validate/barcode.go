package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"serumqc/internal/dataset"
)

// BarcodeCheck verifies the tube identifier column: every value must have
// exactly the configured length, and values must be unique across the whole
// table.
type BarcodeCheck struct {
	Column string
	Length int
}

// Name returns the column this check covers.
func (c *BarcodeCheck) Name() string { return c.Column }

// Run flags rows with malformed identifiers, then scans the whole column for
// duplicates. Missing values render as the empty string, so a missing
// identifier is reported as a length violation and still participates in
// duplicate grouping.
func (c *BarcodeCheck) Run(t *dataset.Table, rec Recorder) (CheckStats, error) {
	stats := CheckStats{Check: c.Name(), Rows: t.RowCount()}

	col, ok := t.ColumnIndex(c.Column)
	if !ok {
		return stats, fmt.Errorf("%w: %s", ErrUnknownColumn, c.Column)
	}

	for i := range t.Rows {
		v := t.Cell(i, col)

		var issues []string

		if display := v.String(); len(display) != c.Length {
			issues = append(issues, fmt.Sprintf("%s '%s' length is not equal to %d", c.Column, display, c.Length))
		} else if v.IsNull() {
			issues = append(issues, fmt.Sprintf("%s is NA", c.Column))
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

	groups := make(map[string][]int)

	for i := range t.Rows {
		key := t.Cell(i, col).String()
		groups[key] = append(groups[key], i)
	}

	dupes := make([]string, 0, len(groups))

	for key, indices := range groups {
		if len(indices) > 1 {
			dupes = append(dupes, key)
		}
	}

	sort.Strings(dupes)

	for _, key := range dupes {
		indices := groups[key]
		issue := fmt.Sprintf("Duplicate %s: '%s' found in rows: %s", c.Column, key, formatIndices(indices))

		for _, idx := range indices {
			stats.Entries++
			stats.Issues++

			if err := rec.Record(&t.Rows[idx], idx, []string{issue}); err != nil {
				return stats, err
			}
		}
	}

	return stats, nil
}

func formatIndices(indices []int) string {
	parts := make([]string, len(indices))

	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
