package validate

import (
	"errors"
	"testing"

	"serumqc/internal/dataset"
)

func TestAvailabilityCheck_Normalization(t *testing.T) {
	tests := []struct {
		name     string
		value    dataset.Value
		expected bool
		hasIssue bool
	}{
		{"Explicit no", dataset.StringValue("N"), false, false},
		{"Explicit yes", dataset.StringValue("Y"), true, false},
		{"Missing defaults to available", dataset.Null(), true, false},
		{"Unknown marker defaults to available", dataset.StringValue("Maybe"), true, true},
		{"Lowercase n is not an exact match", dataset.StringValue("n"), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := buildTable(t, []string{"Available"}, [][]dataset.Value{
				{tt.value},
			})

			check := &AvailabilityCheck{Column: "Available"}
			rec := &MockRecorder{}

			stats, err := check.Run(table, rec)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			b, ok := table.Cell(0, 0).Bool()
			if !ok {
				t.Fatal("Expected cell normalized to a boolean")
			}

			if b != tt.expected {
				t.Errorf("Cell = %v, want %v", b, tt.expected)
			}

			if tt.hasIssue && stats.Entries != 1 {
				t.Errorf("Expected 1 entry, got %d", stats.Entries)
			}

			if !tt.hasIssue && stats.Entries != 0 {
				t.Errorf("Expected no entries, got %v", rec.Entries)
			}
		})
	}
}

func TestAvailabilityCheck_UnknownValueMessage(t *testing.T) {
	table := buildTable(t, []string{"Available"}, [][]dataset.Value{
		{dataset.StringValue("Y")},
		{dataset.StringValue("N")},
		{dataset.StringValue("pending")},
	})

	check := &AvailabilityCheck{Column: "Available"}
	rec := &MockRecorder{}

	if _, err := check.Run(table, rec); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(rec.Entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(rec.Entries))
	}

	want := "Availability is unknown at index: 2, check to confirm availability"
	if got := rec.Entries[0].Issues[0]; got != want {
		t.Errorf("Issue = %q, want %q", got, want)
	}
}

func TestAvailabilityCheck_SecondRunReportsNothingNew(t *testing.T) {
	table := buildTable(t, []string{"Available"}, [][]dataset.Value{
		{dataset.StringValue("N")},
		{dataset.StringValue("Maybe")},
	})

	check := &AvailabilityCheck{Column: "Available"}

	if _, err := check.Run(table, &MockRecorder{}); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	rec := &MockRecorder{}

	stats, err := check.Run(table, rec)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if stats.Entries != 0 {
		t.Fatalf("Expected no entries on second run, got %v", rec.Entries)
	}

	// The explicit no stays false; the defaulted value stays true
	if b, _ := table.Cell(0, 0).Bool(); b {
		t.Error("Expected first cell to stay false")
	}

	if b, _ := table.Cell(1, 0).Bool(); !b {
		t.Error("Expected second cell to stay true")
	}
}

func TestAvailabilityCheck_SkipsUnexpectedKind(t *testing.T) {
	table := buildTable(t, []string{"Available"}, [][]dataset.Value{
		{dataset.DateValue(timeFor(t, "2021-03-05"))},
	})

	check := &AvailabilityCheck{Column: "Available"}
	rec := &MockRecorder{}

	stats, err := check.Run(table, rec)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if stats.Skipped != 1 {
		t.Errorf("Expected 1 skipped row, got %d", stats.Skipped)
	}

	if table.Cell(0, 0).Kind() != dataset.KindDate {
		t.Error("Expected skipped cell left unchanged")
	}
}

func TestAvailabilityCheck_UnknownColumn(t *testing.T) {
	table := buildTable(t, []string{"Other"}, [][]dataset.Value{
		{dataset.StringValue("x")},
	})

	check := &AvailabilityCheck{Column: "Available"}

	_, err := check.Run(table, &MockRecorder{})
	if !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("Expected ErrUnknownColumn, got %v", err)
	}
}
