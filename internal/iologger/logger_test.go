package iologger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	clinvar "github.com/rat-genome-database/clinvar-pipeline/pkg"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		res   slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, parseLevel(v.level), v.level)
	}
}

func TestInitFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}

	require.NoError(t, Init(dir, cfg, false))
	slog.Info("first run", "records", 3)
	slog.Debug("hidden")

	require.NoError(t, Init(dir, cfg, true))
	slog.Warn("second run")

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "first run", rec["msg"])
	assert.Equal(t, float64(3), rec["records"])
	assert.Equal(t, "clinvar", rec["pipeline"])
	assert.Equal(t, clinvar.Version, rec["version"])

	// a fresh file keeps the previous run aside
	require.NoError(t, Init(dir, cfg, false))
	data, err = os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Empty(t, data)

	prev, err := os.ReadFile(filepath.Join(dir, PrevLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(prev), "second run")
}

func TestInitEmptyLogNotRotated(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "text", Level: "info", Destination: "file"}

	require.NoError(t, os.WriteFile(filepath.Join(dir, PrevLogFile),
		[]byte("last good load\n"), 0644))

	require.NoError(t, Init(dir, cfg, false))
	require.NoError(t, Init(dir, cfg, false))

	prev, err := os.ReadFile(filepath.Join(dir, PrevLogFile))
	require.NoError(t, err)
	assert.Equal(t, "last good load\n", string(prev))
}

func TestInitFileError(t *testing.T) {
	cfg := config.LogConfig{Destination: "file"}
	err := Init(filepath.Join(t.TempDir(), "missing"), cfg, true)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
}

func TestInitRotateError(t *testing.T) {
	defer slog.SetDefault(slog.Default())
	dir := t.TempDir()
	cfg := config.LogConfig{Format: "text", Level: "info", Destination: "file"}

	require.NoError(t, os.WriteFile(filepath.Join(dir, LogFile),
		[]byte("last load\n"), 0644))
	// a directory in place of the previous log blocks the rename
	require.NoError(t, os.Mkdir(filepath.Join(dir, PrevLogFile), 0755))

	err := Init(dir, cfg, false)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.RotateLogFileError, gnErr.Code)

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Equal(t, "last load\n", string(data))
}
