// Package main provides the unified worker command that discovers, ingests,
// validates, and exports serum inventory archives.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"serumqc/internal/archive"
	"serumqc/internal/config"
	"serumqc/internal/dataset"
	"serumqc/internal/diaglog"
	"serumqc/internal/export"
	"serumqc/internal/logger"
	"serumqc/internal/report"
	"serumqc/internal/spreadsheet"
	"serumqc/internal/validate"
	"serumqc/pkg/strutil"
)

func main() {
	// 1. Define Command-Line Flags
	// ----------------------------
	configFile := flag.String("config", "", "Path to YAML configuration file")
	archiveDir := flag.String("archive-dir", "", "Directory to scan for inventory archives (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	flag.Parse()

	// Load Configuration
	cfg := loadConfig(*configFile)

	if *archiveDir != "" {
		cfg.Pipeline.Input.ArchiveDir = *archiveDir
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	// Initialize Logger
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)

	dir, err := cfg.ArchiveDir()
	if err != nil {
		log.Error(fmt.Sprintf("❌ Invalid archive directory: %v", err))
		os.Exit(1)
	}

	log.Info("🚀 Starting Serum Inventory Pipeline")
	log.Info(fmt.Sprintf("📍 Source: %s", dir))
	log.Info(fmt.Sprintf("🎯 Dataset: %s", cfg.Pipeline.Output.DatasetFile))

	// 2. Discovery & Extraction
	// -------------------------
	log.Info("Phase 1: Discovery (Locating newest archive)...")

	startTime := time.Now()

	zipPath, err := archive.FindNewest(dir)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Discovery failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("🔍 Newest archive: %s", zipPath))

	run := report.New(zipPath)
	extractDir := cfg.ExtractDir(dir)

	extracted, err := archive.Extract(zipPath, extractDir)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Extraction failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Extracted %d files (%d bytes) in %v", len(extracted.Files), extracted.Bytes, extracted.Duration))

	// 3. Ingestion & Consolidation
	// ----------------------------
	log.Info("Phase 2: Ingestion (Reading spreadsheets)...")

	ingestStart := time.Now()

	files, skippedFiles, err := spreadsheet.ReadDir(extractDir)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Ingestion failed: %v", err))
		os.Exit(1)
	}

	for _, skip := range skippedFiles {
		log.Warn(fmt.Sprintf("⚠️  Skipping unreadable file %s: %v", skip.Path, skip.Err))
		run.FilesSkipped = append(run.FilesSkipped, skip.Path)
	}

	if cfg.Logging.ShowProgress {
		for _, fr := range files {
			log.Info(fmt.Sprintf("📂 %s: %d rows", fr.Source, len(fr.Rows)))
		}
	}

	table, err := dataset.Build(files)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Consolidation failed: %v", err))
		os.Exit(1)
	}

	run.FilesRead = len(files)
	run.Rows = table.RowCount()
	run.Columns = table.ColumnCount()

	log.Info(fmt.Sprintf("✅ Consolidated %d rows across %d columns from %d files in %v",
		table.RowCount(), table.ColumnCount(), len(files), time.Since(ingestStart)))

	logSample(log, table, cfg.Logging.SampleRows)

	// 4. Validation
	// -------------
	log.Info("Phase 3: Validation...")

	validateStart := time.Now()

	logPath := cfg.OutputPath(dir, cfg.Pipeline.Output.LogFile)

	diag, err := diaglog.Open(logPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}
	defer diag.Close()

	pipeline, err := validate.NewPipeline(cfg, log)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Validation setup failed: %v", err))
		os.Exit(1)
	}

	checkStats, err := pipeline.Run(table, diag)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Validation failed: %v", err))
		os.Exit(1)
	}

	run.Checks = checkStats
	run.LogEntries = diag.Entries()
	run.LogPath = logPath

	log.Info(fmt.Sprintf("✅ Ran %d checks, %d diagnostic entries appended to %s in %v",
		len(checkStats), diag.Entries(), logPath, time.Since(validateStart)))

	// 5. Export
	// ---------
	log.Info("Phase 4: Export...")

	datasetPath := cfg.OutputPath(dir, cfg.Pipeline.Output.DatasetFile)

	result, err := export.WriteCSV(table, datasetPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Export failed: %v", err))
		os.Exit(1)
	}

	run.DatasetPath = datasetPath

	if sum, sumErr := report.FileChecksum(datasetPath); sumErr != nil {
		log.Warn(fmt.Sprintf("⚠️  Could not checksum dataset: %v", sumErr))
	} else {
		run.DatasetSHA256 = sum
	}

	log.Info(fmt.Sprintf("✅ Exported %s", result))

	// 6. Final Report
	// ---------------
	run.Finish()

	reportPath := cfg.OutputPath(dir, cfg.Pipeline.Output.ReportFile)
	if err := run.WriteJSON(reportPath, cfg.Pipeline.Output.PrettyPrint); err != nil {
		log.Error(fmt.Sprintf("❌ Report write failed: %v", err))
		os.Exit(1)
	}

	log.Info("✨ Pipeline Complete!")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Print(run.Summary())
	fmt.Printf("Total Duration: %v\n", time.Since(startTime))
	fmt.Println("------------------------------------------------")

	run.LogSummary(log)
}

// loadConfig resolves the configuration from the flag, the default location,
// or built-in defaults, in that order. A config file that exists but fails
// to load is fatal.
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
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

func logSample(l *logger.Logger, t *dataset.Table, n int) {
	if n <= 0 || t.RowCount() == 0 {
		return
	}

	if n > t.RowCount() {
		n = t.RowCount()
	}

	l.Debug(fmt.Sprintf("👀 First %d rows:", n))

	for i := 0; i < n; i++ {
		cells := make([]string, len(t.Columns))

		for j := range t.Columns {
			cells[j] = strutil.Truncate(t.Cell(i, j).String(), 24)
		}

		l.Debug(fmt.Sprintf("   %d: %s", i, strings.Join(cells, " | ")))
	}
}
