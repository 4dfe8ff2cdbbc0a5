package validate

import (
	"fmt"
	"time"

	"serumqc/internal/dataset"
	"serumqc/internal/logger"
)

// DateCheck normalizes the collection date column and verifies each date
// falls between the configured floor and the current day, inclusive.
type DateCheck struct {
	Logger  *logger.Logger
	Now     func() time.Time
	Column  string
	Layouts []string
	Floor   time.Time
}

// Name returns the column this check covers.
func (c *DateCheck) Name() string { return c.Column }

// Run first rewrites every cell in the column to a parsed date, or to a
// missing value when no layout matches, then flags rows that are missing or
// out of range. Cells already normalized pass through unchanged, so a second
// run reports nothing new for in-range rows.
func (c *DateCheck) Run(t *dataset.Table, rec Recorder) (CheckStats, error) {
	stats := CheckStats{Check: c.Name(), Rows: t.RowCount()}

	col, ok := t.ColumnIndex(c.Column)
	if !ok {
		return stats, fmt.Errorf("%w: %s", ErrUnknownColumn, c.Column)
	}

	for i := range t.Rows {
		v := t.Cell(i, col)
		if v.Kind() != dataset.KindString {
			continue
		}

		if parsed, ok := c.parse(v.Raw()); ok {
			t.SetCell(i, col, dataset.DateValue(parsed))
		} else {
			t.SetCell(i, col, dataset.Null())
		}
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	// Parsed dates live at UTC midnight, so the ceiling is today's calendar
	// date in UTC.
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	for i := range t.Rows {
		v := t.Cell(i, col)

		var issues []string

		switch v.Kind() {
		case dataset.KindNull:
			issues = append(issues, fmt.Sprintf("%s is NA", c.Column))
		case dataset.KindDate:
			d, _ := v.Date()
			if d.Before(c.Floor) || d.After(today) {
				issues = append(issues, fmt.Sprintf("%s is outside of range, date: %s", c.Column, v.String()))
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

func (c *DateCheck) parse(raw string) (time.Time, bool) {
	for _, layout := range c.Layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}
