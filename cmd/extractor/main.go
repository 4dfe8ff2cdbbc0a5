// Package main provides the extractor command-line tool that merges the
// newest archive's spreadsheets into one raw CSV, without validation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"serumqc/internal/archive"
	"serumqc/internal/config"
	"serumqc/internal/dataset"
	"serumqc/internal/export"
	"serumqc/internal/spreadsheet"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	archiveDir := flag.String("archive-dir", "", "Directory to scan for inventory archives (overrides config)")
	outFile := flag.String("out", "raw_serum_records.csv", "Name of the merged CSV to write")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	cfg := loadConfig(*configFile)

	if *archiveDir != "" {
		cfg.Pipeline.Input.ArchiveDir = *archiveDir
	}

	dir, err := cfg.ArchiveDir()
	if err != nil {
		log.Fatalf("❌ Invalid archive directory: %v\n", err)
	}

	fmt.Printf("📂 Scanning: %s\n", dir)

	zipPath, err := archive.FindNewest(dir)
	if err != nil {
		log.Fatalf("❌ Discovery failed: %v\n", err)
	}

	fmt.Printf("🔍 Newest archive: %s\n", zipPath)

	extractDir := cfg.ExtractDir(dir)

	extracted, err := archive.Extract(zipPath, extractDir)
	if err != nil {
		log.Fatalf("❌ Extraction failed: %v\n", err)
	}

	fmt.Printf("✅ Extracted %d files (%d bytes) in %v\n", len(extracted.Files), extracted.Bytes, extracted.Duration)

	files, skipped, err := spreadsheet.ReadDir(extractDir)
	if err != nil {
		log.Fatalf("❌ Ingestion failed: %v\n", err)
	}

	for _, skip := range skipped {
		fmt.Printf("⚠️  Skipping unreadable file %s: %v\n", skip.Path, skip.Err)
	}

	table, err := dataset.Build(files)
	if err != nil {
		log.Fatalf("❌ Consolidation failed: %v\n", err)
	}

	fmt.Printf("📊 Consolidated %d rows across %d columns from %d files\n",
		table.RowCount(), table.ColumnCount(), len(files))

	outPath := cfg.OutputPath(dir, *outFile)

	result, err := export.WriteCSV(table, outPath)
	if err != nil {
		log.Fatalf("❌ Export failed: %v\n", err)
	}

	fmt.Printf("✍️  Wrote %s\n", result)
}

func loadConfig(path string) *config.Config {
	if path == "" {
		if _, err := os.Stat("configs/serumqc.yaml"); err == nil {
			path = "configs/serumqc.yaml"
		}
	}

	if path == "" {
		return config.DefaultConfig()
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}

	return cfg
}

func printUsage() {
	fmt.Println("Usage: ./bin/extractor [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/extractor -archive-dir ~/Downloads")
	fmt.Println("  ./bin/extractor -config configs/serumqc.yaml -out raw.csv")
}
