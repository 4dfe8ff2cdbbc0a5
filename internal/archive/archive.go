// Package archive discovers and extracts the spreadsheet bundles a run ingests.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Archive errors.
var (
	ErrNoArchive  = errors.New("no zip archive found")
	ErrUnsafePath = errors.New("archive entry escapes extraction directory")
)

// FindNewest returns the path of the most recently modified zip archive
// directly inside dir.
func FindNewest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read archive directory %s: %w", dir, err)
	}

	var newest string

	var newestMod time.Time

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			continue
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}

		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, entry.Name())
			newestMod = info.ModTime()
		}
	}

	if newest == "" {
		return "", fmt.Errorf("%w: %s", ErrNoArchive, dir)
	}

	return newest, nil
}

// ExtractResult reports what an extraction produced.
type ExtractResult struct {
	Files    []string
	Bytes    int64
	Duration time.Duration
}

// Extract unpacks zipPath into destDir, creating it if absent. Entries whose
// resolved path would escape destDir are rejected. Returns the extracted file
// paths in archive order.
func Extract(zipPath, destDir string) (*ExtractResult, error) {
	startTime := time.Now()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create extraction directory %s: %w", destDir, err)
	}

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer reader.Close()

	result := &ExtractResult{}

	for _, entry := range reader.File {
		target, pathErr := safePath(destDir, entry.Name)
		if pathErr != nil {
			return nil, pathErr
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", target, err)
			}

			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", target, err)
		}

		written, writeErr := writeEntry(entry, target)
		if writeErr != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", entry.Name, writeErr)
		}

		result.Files = append(result.Files, target)
		result.Bytes += written
	}

	result.Duration = time.Since(startTime)

	return result, nil
}

// safePath joins an archive entry name onto destDir, rejecting traversal.
func safePath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(name))

	clean := filepath.Clean(destDir)
	if target != clean && !strings.HasPrefix(target, clean+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}

	return target, nil
}

func writeEntry(entry *zip.File, target string) (int64, error) {
	src, err := entry.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}

	return written, err
}
