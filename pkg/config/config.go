// Package config provides configuration management for the ClinVar
// reconciliation pipeline.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Load: source_file, stale_delete_percent
//   - Annotate: created_by, ref_id, data_source, evidence,
//     stale_delete_percent
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields:
//   - Annotate.ExcludedConditions (read from exclusions.yaml)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use CLINVAR_ prefix with underscores for nesting:
//
//	CLINVAR_DATABASE_HOST=localhost
//	CLINVAR_DATABASE_PORT=5432
//	CLINVAR_LOAD_SOURCE_FILE=/data/clinvar/staged.sqlite
//	CLINVAR_LOG_LEVEL=info
//	CLINVAR_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete pipeline configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Load contains settings of the variant reconciliation run.
	Load LoadConfig `mapstructure:"load" yaml:"load"`

	// Annotate contains settings of the annotation run.
	Annotate AnnotateConfig `mapstructure:"annotate" yaml:"annotate"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize limits the number of keys sent in one statement by bulk
	// operations (stale deletions, trait name flushes).
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// LoadConfig contains settings of the load command.
type LoadConfig struct {
	// SourceFile is the path to the staged-record SQLite file produced
	// by the ClinVar parser.
	SourceFile string `mapstructure:"source_file" yaml:"source_file"`

	// StaleDeletePercent is the maximal share (in percents of the pre-run
	// count) of cross-references that can be removed as stale. If more
	// cross-references became stale, deletion is skipped.
	StaleDeletePercent int `mapstructure:"stale_delete_percent" yaml:"stale_delete_percent"`
}

// AnnotateConfig contains settings of the annotate command.
type AnnotateConfig struct {
	// CreatedBy is the curator id assigned to generated annotations.
	CreatedBy int `mapstructure:"created_by" yaml:"created_by"`

	// RefID is the reference id of ClinVar annotations.
	RefID int `mapstructure:"ref_id" yaml:"ref_id"`

	// DataSource is the data source of generated annotations.
	DataSource string `mapstructure:"data_source" yaml:"data_source"`

	// Evidence is the evidence code of variant annotations.
	// Gene annotations always use IAGP.
	Evidence string `mapstructure:"evidence" yaml:"evidence"`

	// StaleDeletePercent is the maximal share (in percents of the pre-run
	// count) of annotations that can be lost by a run.
	StaleDeletePercent int `mapstructure:"stale_delete_percent" yaml:"stale_delete_percent"`

	// VariantTypes lists variant object types that get annotations.
	VariantTypes []string `mapstructure:"variant_types" yaml:"variant_types"`

	// ExcludedSignificance lists clinical significance values that
	// disqualify a variant from annotation.
	ExcludedSignificance []string `mapstructure:"excluded_significance" yaml:"excluded_significance"`

	// ExcludedConditions lists condition names that never produce
	// annotations. Runtime-only, loaded from exclusions.yaml.
	ExcludedConditions []string `mapstructure:"-" yaml:"-"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "clinvar",
			SSLMode:   "disable",
			BatchSize: 10_000,
		},
		Load: LoadConfig{
			StaleDeletePercent: 5,
		},
		Annotate: AnnotateConfig{
			CreatedBy:          67,
			RefID:              8554872,
			DataSource:         "ClinVar",
			Evidence:           "IAGP",
			StaleDeletePercent: 5,
			VariantTypes: []string{
				"deletion",
				"duplication",
				"insertion",
				"single nucleotide variant",
			},
			ExcludedSignificance: []string{"not provided"},
		},
		Log: LogConfig{
			Format:      "json",
			Level:       "info",
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
