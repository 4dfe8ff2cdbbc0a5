package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Helper to write a zip archive with the given entries.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)

	for name, content := range entries {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", name, err)
		}

		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", name, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
}

func TestFindNewest(t *testing.T) {
	dir := t.TempDir()

	oldPath := filepath.Join(dir, "inventory_week1.zip")
	newPath := filepath.Join(dir, "inventory_week2.ZIP")

	writeZip(t, oldPath, map[string]string{"a.xlsx": "old"})
	writeZip(t, newPath, map[string]string{"b.xlsx": "new"})

	// A plain file and a directory must both be ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write decoy file: %v", err)
	}

	if err := os.Mkdir(filepath.Join(dir, "backup.zip.d"), 0755); err != nil {
		t.Fatalf("Failed to create decoy dir: %v", err)
	}

	now := time.Now()
	if err := os.Chtimes(oldPath, now.Add(-2*time.Hour), now.Add(-2*time.Hour)); err != nil {
		t.Fatalf("Failed to age old archive: %v", err)
	}

	if err := os.Chtimes(newPath, now, now); err != nil {
		t.Fatalf("Failed to touch new archive: %v", err)
	}

	got, err := FindNewest(dir)
	if err != nil {
		t.Fatalf("FindNewest failed: %v", err)
	}

	if got != newPath {
		t.Errorf("FindNewest() = %v, want %v", got, newPath)
	}
}

func TestFindNewest_NoArchive(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write decoy file: %v", err)
	}

	_, err := FindNewest(dir)
	if !errors.Is(err, ErrNoArchive) {
		t.Fatalf("Expected ErrNoArchive, got %v", err)
	}
}

func TestFindNewest_MissingDir(t *testing.T) {
	_, err := FindNewest("/nonexistent/archives")
	if err == nil {
		t.Fatal("Expected error for missing directory, got nil")
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "inventory.zip")

	writeZip(t, zipPath, map[string]string{
		"week1.xlsx":        "aaaa",
		"nested/week2.xlsx": "bbbbbb",
	})

	destDir := filepath.Join(dir, "extracted")

	result, err := Extract(zipPath, destDir)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(result.Files) != 2 {
		t.Fatalf("Expected 2 extracted files, got %d", len(result.Files))
	}

	if result.Bytes != 10 {
		t.Errorf("Expected 10 bytes extracted, got %d", result.Bytes)
	}

	content, err := os.ReadFile(filepath.Join(destDir, "week1.xlsx"))
	if err != nil {
		t.Fatalf("Failed to read extracted file: %v", err)
	}

	if string(content) != "aaaa" {
		t.Errorf("Expected content 'aaaa', got '%s'", content)
	}

	if _, err := os.Stat(filepath.Join(destDir, "nested", "week2.xlsx")); err != nil {
		t.Errorf("Expected nested file to be extracted: %v", err)
	}
}

func TestExtract_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")

	writeZip(t, zipPath, map[string]string{
		"../escape.txt": "nope",
	})

	_, err := Extract(zipPath, filepath.Join(dir, "extracted"))
	if !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("Expected ErrUnsafePath, got %v", err)
	}
}

func TestExtract_BadArchive(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "broken.zip")

	if err := os.WriteFile(zipPath, []byte("not a zip"), 0644); err != nil {
		t.Fatalf("Failed to write broken archive: %v", err)
	}

	_, err := Extract(zipPath, filepath.Join(dir, "extracted"))
	if err == nil {
		t.Fatal("Expected error for broken archive, got nil")
	}
}
