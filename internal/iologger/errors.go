package iologger

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
)

// CreateLogFileError is returned when the log of a pipeline run cannot be
// opened.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot open ClinVar pipeline log <em>%s</em>

Check that the log directory exists and is writable, or set
log.destination to "stderr" in the configuration file.`
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("open log %s: %w", path, err),
	}
}

// RotateLogFileError is returned when the log of the previous run cannot
// be moved aside. The previous log is left untouched.
func RotateLogFileError(path, prev string, err error) error {
	return &gn.Error{
		Code: errcode.RotateLogFileError,
		Msg:  "Cannot keep the previous run log as <em>%s</em>",
		Vars: []any{prev},
		Err:  fmt.Errorf("rotate log %s to %s: %w", path, prev, err),
	}
}
