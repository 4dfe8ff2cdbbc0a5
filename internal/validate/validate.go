// Package validate implements the per-column rule checks that run in fixed
// order over the consolidated table.
package validate

import (
	"errors"
	"fmt"

	"serumqc/internal/config"
	"serumqc/internal/dataset"
	"serumqc/internal/logger"
)

// Validation errors.
var (
	ErrUnknownColumn = errors.New("column not present in dataset")
)

// Recorder receives one diagnostic entry per flagged row. The diagnostics
// log writer satisfies this.
type Recorder interface {
	Record(row *dataset.Row, index int, issues []string) error
}

// CheckStats summarizes one check's pass over the table.
type CheckStats struct {
	Check   string `json:"check"`
	Rows    int    `json:"rows"`
	Entries int    `json:"entries"`
	Issues  int    `json:"issues"`
	Skipped int    `json:"skipped,omitempty"`
}

// String returns a one-line summary of the stats.
func (s CheckStats) String() string {
	return fmt.Sprintf("%s: %d rows, %d entries, %d issues, %d skipped",
		s.Check, s.Rows, s.Entries, s.Issues, s.Skipped)
}

// Check validates, and for some columns normalizes, exactly one column of
// the consolidated table.
type Check interface {
	Name() string
	Run(t *dataset.Table, rec Recorder) (CheckStats, error)
}

// Pipeline runs its checks sequentially in fixed order, each to completion
// before the next. There is no branching: every check always runs.
type Pipeline struct {
	logger *logger.Logger
	checks []Check
}

// NewPipeline assembles the standard four-check pipeline from configuration:
// identifier, patient ID, collection date, availability.
func NewPipeline(cfg *config.Config, log *logger.Logger) (*Pipeline, error) {
	floor, err := cfg.Validation.FloorDate()
	if err != nil {
		return nil, fmt.Errorf("invalid date floor: %w", err)
	}

	checks := []Check{
		&BarcodeCheck{
			Column: cfg.Validation.Columns.Barcode,
			Length: cfg.Validation.BarcodeLength,
		},
		&PatientIDCheck{
			Column:  cfg.Validation.Columns.PatientID,
			Markers: cfg.Validation.PatientIDMarkers,
		},
		&DateCheck{
			Column:  cfg.Validation.Columns.Collected,
			Layouts: cfg.Validation.DateLayouts,
			Floor:   floor,
			Logger:  log,
		},
		&AvailabilityCheck{
			Column: cfg.Validation.Columns.Available,
			Logger: log,
		},
	}

	return &Pipeline{checks: checks, logger: log}, nil
}

// NewPipelineWithChecks creates a pipeline with injected checks.
func NewPipelineWithChecks(checks []Check, log *logger.Logger) *Pipeline {
	return &Pipeline{checks: checks, logger: log}
}

// Run executes every check over the table, appending diagnostics through rec
// as it goes. A check error (unknown column, log write failure) aborts the
// run; per-row oddities never do.
func (p *Pipeline) Run(t *dataset.Table, rec Recorder) ([]CheckStats, error) {
	stats := make([]CheckStats, 0, len(p.checks))

	for _, check := range p.checks {
		if p.logger != nil {
			p.logger.Info(fmt.Sprintf("Validating '%s'...", check.Name()))
		}

		s, err := check.Run(t, rec)
		if err != nil {
			return stats, fmt.Errorf("'%s' check failed: %w", check.Name(), err)
		}

		stats = append(stats, s)

		if p.logger != nil {
			p.logger.Info(fmt.Sprintf("✅ Validated '%s': %d entries, %d issues", check.Name(), s.Entries, s.Issues))
		}
	}

	return stats, nil
}
