// Package config provides configuration management for the serum QC worker.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingArchiveDir    = errors.New("pipeline.input.archive_dir is required")
	ErrMissingExtractDir    = errors.New("pipeline.input.extract_dir is required")
	ErrMissingDatasetFile   = errors.New("pipeline.output.dataset_file is required")
	ErrMissingLogFile       = errors.New("pipeline.output.log_file is required")
	ErrMissingColumn        = errors.New("validation.columns entry is required")
	ErrInvalidBarcodeLength = errors.New("validation.barcode_length must be at least 1")
	ErrNoPatientIDMarkers   = errors.New("validation.patient_id_markers must not be empty")
	ErrNoDateLayouts        = errors.New("validation.date_layouts must not be empty")
	ErrInvalidDateFloor     = errors.New("validation.date_floor must be a YYYY-MM-DD date")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PipelineConfig contains input and output settings for a run.
type PipelineConfig struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
}

// InputConfig defines where archives are discovered and extracted.
type InputConfig struct {
	ArchiveDir string `yaml:"archive_dir"`
	ExtractDir string `yaml:"extract_dir"`
}

// OutputConfig defines the files a run produces.
type OutputConfig struct {
	DatasetFile string `yaml:"dataset_file"`
	LogFile     string `yaml:"log_file"`
	ReportFile  string `yaml:"report_file"`
	PrettyPrint bool   `yaml:"pretty_print"`
}

// ColumnsConfig names the spreadsheet columns the checks operate on.
type ColumnsConfig struct {
	Barcode   string `yaml:"barcode"`
	PatientID string `yaml:"patient_id"`
	Collected string `yaml:"collected"`
	Available string `yaml:"available"`
}

// ValidationConfig defines the domain rules applied to the dataset.
type ValidationConfig struct {
	Columns          ColumnsConfig `yaml:"columns"`
	PatientIDMarkers []string      `yaml:"patient_id_markers"`
	DateLayouts      []string      `yaml:"date_layouts"`
	DateFloor        string        `yaml:"date_floor"`
	BarcodeLength    int           `yaml:"barcode_length"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	SampleRows   int    `yaml:"sample_rows"`
	ShowProgress bool   `yaml:"show_progress"`
}

// DefaultConfig returns the configuration matching the historical fixed-path
// behavior: archives discovered in ~/Downloads, outputs written next to them.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Input: InputConfig{
				ArchiveDir: "~/Downloads",
				ExtractDir: "extracted_spreadsheets",
			},
			Output: OutputConfig{
				DatasetFile: "all_serum_records.csv",
				LogFile:     "invalid_data_log.txt",
				ReportFile:  "run_report.json",
				PrettyPrint: true,
			},
		},
		Validation: ValidationConfig{
			Columns: ColumnsConfig{
				Barcode:   "Barcode_ID",
				PatientID: "Patient_Study_ID",
				Collected: "Date_Collected",
				Available: "Available",
			},
			PatientIDMarkers: []string{"C", "H", "IN"},
			DateLayouts:      []string{"01/02/2006", "1/2/2006"},
			DateFloor:        "2020-02-14",
			BarcodeLength:    8,
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "text",
			SampleRows:   3,
			ShowProgress: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file. Settings absent from the
// file keep their defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Check input/output paths
	if c.Pipeline.Input.ArchiveDir == "" {
		return ErrMissingArchiveDir
	}

	if c.Pipeline.Input.ExtractDir == "" {
		return ErrMissingExtractDir
	}

	if c.Pipeline.Output.DatasetFile == "" {
		return ErrMissingDatasetFile
	}

	if c.Pipeline.Output.LogFile == "" {
		return ErrMissingLogFile
	}

	// Check column names
	columns := map[string]string{
		"barcode":    c.Validation.Columns.Barcode,
		"patient_id": c.Validation.Columns.PatientID,
		"collected":  c.Validation.Columns.Collected,
		"available":  c.Validation.Columns.Available,
	}

	for name, column := range columns {
		if column == "" {
			return fmt.Errorf("%w: columns.%s", ErrMissingColumn, name)
		}
	}

	// Check rule parameters
	if c.Validation.BarcodeLength < 1 {
		return ErrInvalidBarcodeLength
	}

	if len(c.Validation.PatientIDMarkers) == 0 {
		return ErrNoPatientIDMarkers
	}

	if len(c.Validation.DateLayouts) == 0 {
		return ErrNoDateLayouts
	}

	if _, err := c.Validation.FloorDate(); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDateFloor, c.Validation.DateFloor)
	}

	// Check logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// FloorDate parses the configured lower bound for collection dates.
func (v *ValidationConfig) FloorDate() (time.Time, error) {
	return time.Parse("2006-01-02", v.DateFloor)
}

// ExpandPath expands a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	if path == "~" {
		return home, nil
	}

	return filepath.Join(home, path[2:]), nil
}

// ArchiveDir returns the expanded archive discovery directory.
func (c *Config) ArchiveDir() (string, error) {
	return ExpandPath(c.Pipeline.Input.ArchiveDir)
}

// ExtractDir resolves the extraction directory against the archive directory
// when relative.
func (c *Config) ExtractDir(archiveDir string) string {
	return resolveAgainst(archiveDir, c.Pipeline.Input.ExtractDir)
}

// OutputPath resolves an output file name against the archive directory when
// relative.
func (c *Config) OutputPath(archiveDir, name string) string {
	return resolveAgainst(archiveDir, name)
}

func resolveAgainst(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(base, path)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{ArchiveDir: %s, Dataset: %s, BarcodeLength: %d, Markers: %d}",
		c.Pipeline.Input.ArchiveDir,
		c.Pipeline.Output.DatasetFile,
		c.Validation.BarcodeLength,
		len(c.Validation.PatientIDMarkers),
	)
}
