package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "clinvar-pipeline"

	// SourcePipeline tags every row written by the pipeline.
	SourcePipeline = "CLINVAR"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/clinvar-pipeline by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files and reports.
// Returns ~/.cache/clinvar-pipeline by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/clinvar-pipeline/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// ExclusionsFilePath returns the full path to the exclusions.yaml file.
func ExclusionsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "exclusions.yaml")
}
