// Package report collects run statistics and writes the machine-readable
// run report.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"serumqc/internal/logger"
	"serumqc/internal/validate"
)

// Report describes one full pipeline run.
type Report struct {
	RunID         string                `json:"run_id"`
	StartedAt     time.Time             `json:"started_at"`
	Archive       string                `json:"archive"`
	FilesRead     int                   `json:"files_read"`
	FilesSkipped  []string              `json:"files_skipped,omitempty"`
	Rows          int                   `json:"rows"`
	Columns       int                   `json:"columns"`
	Checks        []validate.CheckStats `json:"checks,omitempty"`
	LogEntries    int                   `json:"log_entries"`
	LogPath       string                `json:"log_path,omitempty"`
	DatasetPath   string                `json:"dataset_path,omitempty"`
	DatasetSHA256 string                `json:"dataset_sha256,omitempty"`
	Duration      time.Duration         `json:"duration"`
}

// New creates a report for a run over the given archive, stamped with a
// fresh run ID.
func New(archive string) *Report {
	return &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		Archive:   archive,
	}
}

// Finish records the total elapsed time.
func (r *Report) Finish() {
	r.Duration = time.Since(r.StartedAt)
}

// TotalEntries returns the number of diagnostic entries across all checks.
func (r *Report) TotalEntries() int {
	total := 0

	for _, s := range r.Checks {
		total += s.Entries
	}

	return total
}

// WriteJSON writes the report to path, indented when pretty is set.
func (r *Report) WriteJSON(path string, pretty bool) error {
	var (
		data []byte
		err  error
	)

	if pretty {
		data, err = json.MarshalIndent(r, "", "  ")
	} else {
		data, err = json.Marshal(r)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report to %s: %w", path, err)
	}

	return nil
}

// Summary renders the report as an aligned two-column console table.
func (r *Report) Summary() string {
	rows := [][2]string{
		{"Run ID", r.RunID},
		{"Archive", r.Archive},
		{"Files read", fmt.Sprintf("%d", r.FilesRead)},
		{"Files skipped", fmt.Sprintf("%d", len(r.FilesSkipped))},
		{"Rows", fmt.Sprintf("%d", r.Rows)},
		{"Columns", fmt.Sprintf("%d", r.Columns)},
		{"Log entries", fmt.Sprintf("%d", r.LogEntries)},
		{"Duration", r.Duration.Round(time.Millisecond).String()},
	}

	labelWidth := 0

	for _, row := range rows {
		if width := runewidth.StringWidth(row[0]); width > labelWidth {
			labelWidth = width
		}
	}

	var sb strings.Builder

	for _, row := range rows {
		sb.WriteString("  ")
		sb.WriteString(row[0])

		if padding := labelWidth - runewidth.StringWidth(row[0]); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString("  ")
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}

	return sb.String()
}

// LogSummary logs the per-check breakdown using the provided logger.
func (r *Report) LogSummary(l *logger.Logger) {
	l.Info("📊 Run Summary:")
	l.Info(fmt.Sprintf("   Rows: %d across %d columns from %d files", r.Rows, r.Columns, r.FilesRead))

	for i, s := range r.Checks {
		statusEmoji := "✅"
		if s.Entries > 0 {
			statusEmoji = "⚠️"
		}

		l.Info(fmt.Sprintf("%d. %s %s", i+1, statusEmoji, s.String()))
	}

	l.Info(fmt.Sprintf("   Diagnostic entries: %d", r.LogEntries))
}

// FileChecksum returns the hex SHA-256 of the file at path.
func FileChecksum(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for checksum: %w", path, err)
	}

	hash := sha256.Sum256(content)

	return hex.EncodeToString(hash[:]), nil
}
