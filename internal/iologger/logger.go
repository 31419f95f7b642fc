// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	clinvar "github.com/rat-genome-database/clinvar-pipeline/pkg"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
)

// LogFile is the name of the log file in the log directory.
const LogFile = "clinvar.log"

// PrevLogFile keeps the log of the previous run, so a failed nightly load
// can be compared with the last good one.
const PrevLogFile = LogFile + ".1"

// Init initializes the global slog logger with the given configuration.
// Creates log file in logDir if destination is "file". If append is false,
// the log of the previous run is moved to PrevLogFile and a fresh file is
// started. Every record carries the pipeline name and its version.
func Init(logDir string, cfg config.LogConfig, append bool) error {
	var writer io.Writer

	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		var file *os.File
		var err error

		if append {
			file, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		} else {
			if err = rotate(logPath); err != nil {
				prev := filepath.Join(logDir, PrevLogFile)
				return RotateLogFileError(logPath, prev, err)
			}
			file, err = os.Create(logPath)
		}

		if err != nil {
			return CreateLogFileError(logPath, err)
		}
		writer = file
	default:
		writer = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(writer, handlerOpts)
	default:
		handler = slog.NewJSONHandler(writer, handlerOpts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("pipeline", "clinvar"),
		slog.String("version", clinvar.Version),
	})

	slog.SetDefault(slog.New(handler))

	return nil
}

// rotate moves a non-empty log to PrevLogFile.
func rotate(logPath string) error {
	info, err := os.Stat(logPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	prev := filepath.Join(filepath.Dir(logPath), PrevLogFile)
	return os.Rename(logPath, prev)
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
