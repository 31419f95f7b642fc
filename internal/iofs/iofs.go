// Package iofs manages files of the pipeline in the user's home
// directory: config and exclusion files, caches, reports and logs.
package iofs

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed exclusions.yaml
var ExclusionsYAML string

// Exclusions is the content of exclusions.yaml.
type Exclusions struct {
	Conditions []string `yaml:"excluded_conditions"`
}

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the default config.yaml unless it exists.
func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), ConfigYAML)
}

// EnsureExclusionsFile writes the default exclusions.yaml unless it
// exists.
func EnsureExclusionsFile(homeDir string) error {
	return ensureFile(config.ExclusionsFilePath(homeDir), ExclusionsYAML)
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return CopyFileError(path, err)
	}

	return nil
}

// LoadExclusions reads excluded condition names from exclusions.yaml.
// A missing file gives the embedded defaults.
func LoadExclusions(homeDir string) ([]string, error) {
	path := config.ExclusionsFilePath(homeDir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data, err = []byte(ExclusionsYAML), nil
	}
	if err != nil {
		return nil, ReadFileError(path, err)
	}

	var ex Exclusions
	if err = yaml.Unmarshal(data, &ex); err != nil {
		return nil, ReadFileError(path, err)
	}

	res := make([]string, 0, len(ex.Conditions))
	for _, v := range ex.Conditions {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res, nil
}

// WriteReport writes lines to a report file in the cache directory and
// returns the path of the file.
func WriteReport(homeDir, name string, lines []string) (string, error) {
	path := filepath.Join(config.CacheDir(homeDir), name)
	if err := touchDir(filepath.Dir(path)); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, v := range lines {
		sb.WriteString(v)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", WriteFileError(path, err)
	}
	return path, nil
}
