// Package main provides the validator command-line tool that re-runs the
// rule checks over a previously merged CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"serumqc/internal/config"
	"serumqc/internal/dataset"
	"serumqc/internal/diaglog"
	"serumqc/internal/export"
	"serumqc/internal/logger"
	"serumqc/internal/validate"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	inputPath := flag.String("input", "", "Path to a previously merged CSV (e.g., raw_serum_records.csv)")
	logPath := flag.String("log", "", "Diagnostics log to append to (default: alongside input)")
	outPath := flag.String("out", "", "Normalized CSV to write with -write (default: alongside input)")
	write := flag.Bool("write", false, "Write the normalized dataset (default: false, validate only)")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *inputPath == "" {
		fmt.Println("Usage: validator -input <path>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := loadConfig(*configFile)

	baseDir := filepath.Dir(*inputPath)

	if *logPath == "" {
		*logPath = filepath.Join(baseDir, cfg.Pipeline.Output.LogFile)
	}

	if *outPath == "" {
		*outPath = filepath.Join(baseDir, cfg.Pipeline.Output.DatasetFile)
	}

	fmt.Printf("📂 Reading: %s\n", *inputPath)

	table, err := dataset.ReadRaw(*inputPath)
	if err != nil {
		log.Fatalf("❌ Error reading merged CSV: %v\n", err)
	}

	fmt.Printf("📊 Loaded %d rows across %d columns\n", table.RowCount(), table.ColumnCount())

	diag, err := diaglog.Open(*logPath)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}
	defer diag.Close()

	lg := logger.NewLogger(cfg.Logging.Level)

	pipeline, err := validate.NewPipeline(cfg, lg)
	if err != nil {
		log.Fatalf("❌ Validation setup failed: %v\n", err)
	}

	stats, err := pipeline.Run(table, diag)
	if err != nil {
		log.Fatalf("❌ Validation failed: %v\n", err)
	}

	for _, s := range stats {
		statusEmoji := "✅"
		if s.Entries > 0 {
			statusEmoji = "⚠️"
		}

		fmt.Printf("%s %s\n", statusEmoji, s.String())
	}

	fmt.Printf("✍️  %d diagnostic entries appended to %s\n", diag.Entries(), *logPath)

	if !*write {
		fmt.Println("💡 Dry-run complete. Re-run with -write to export the normalized dataset.")

		return
	}

	result, err := export.WriteCSV(table, *outPath)
	if err != nil {
		log.Fatalf("❌ Export failed: %v\n", err)
	}

	fmt.Printf("✅ Wrote %s\n", result)
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
	fmt.Println("Usage: ./bin/validator [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/validator -input raw_serum_records.csv")
	fmt.Println("  ./bin/validator -input raw_serum_records.csv -write")
}
