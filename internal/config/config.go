// =============================================================================
// Survey Ingestor - Configuration Module
// =============================================================================
//
// Loads the pipeline configuration from a YAML file and fills in defaults
// for anything unset. A missing configuration file is not an error: the
// pipeline runs out of the box against ./data with its standard output
// paths, which is how the operators invoke it day to day.
//
// =============================================================================

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/resiliencescan/ingestor/internal/loader"
	"github.com/resiliencescan/ingestor/internal/merge"
)

// Config holds the pipeline configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY & FILE SETTINGS
	// =========================================================================

	// DataDir is the default directory scanned for input files.
	// Default: "./data"
	DataDir string `yaml:"data_dir"`

	// WorkingDatasetPath is the canonical dataset downstream consumers read.
	// Default: "./data/cleaned_master.csv"
	WorkingDatasetPath string `yaml:"working_dataset_path"`

	// MasterArchivePath is the schema-superset historical twin of the
	// working dataset. Default: "./data/master_database.csv"
	MasterArchivePath string `yaml:"master_archive_path"`

	// BackupDir holds timestamped snapshots of the working dataset.
	// Default: "./data/backups"
	BackupDir string `yaml:"backup_dir"`

	// LogFile is the append-only audit log.
	// Default: "./logs/ingestion.log"
	LogFile string `yaml:"log_file"`

	// =========================================================================
	// MERGE SETTINGS
	// =========================================================================

	// PrimaryKey is the column the upsert merge matches rows on.
	// Default: "company_name"
	PrimaryKey string `yaml:"primary_key"`

	// =========================================================================
	// LOADER SETTINGS
	// =========================================================================

	// HeaderKeywords anchor the header row detector.
	HeaderKeywords []string `yaml:"header_keywords"`

	// MaxHeaderScanRows bounds how many leading rows the header detector
	// inspects. Default: 10
	MaxHeaderScanRows int `yaml:"max_header_scan_rows"`

	// SniffSampleBytes is the content window used for delimiter sniffing.
	// Default: 8192
	SniffSampleBytes int `yaml:"sniff_sample_bytes"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads a YAML configuration file. A nonexistent path yields the
// defaults without error; a malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&c)
	return &c, nil
}

// applyDefaults fills unset fields with the standard pipeline values.
func applyDefaults(c *Config) {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.WorkingDatasetPath == "" {
		c.WorkingDatasetPath = "./data/cleaned_master.csv"
	}
	if c.MasterArchivePath == "" {
		c.MasterArchivePath = "./data/master_database.csv"
	}
	if c.BackupDir == "" {
		c.BackupDir = "./data/backups"
	}
	if c.LogFile == "" {
		c.LogFile = "./logs/ingestion.log"
	}
	if c.PrimaryKey == "" {
		c.PrimaryKey = merge.DefaultPrimaryKey
	}
	if len(c.HeaderKeywords) == 0 {
		c.HeaderKeywords = append([]string(nil), loader.DefaultHeaderKeywords...)
	}
	if c.MaxHeaderScanRows == 0 {
		c.MaxHeaderScanRows = loader.DefaultMaxHeaderScanRows
	}
	if c.SniffSampleBytes == 0 {
		c.SniffSampleBytes = 8192
	}
}

// LoaderOptions derives the loader options from the configuration.
func (c *Config) LoaderOptions() loader.Options {
	return loader.Options{
		HeaderKeywords:    c.HeaderKeywords,
		MaxHeaderScanRows: c.MaxHeaderScanRows,
		SniffSampleBytes:  c.SniffSampleBytes,
	}
}
