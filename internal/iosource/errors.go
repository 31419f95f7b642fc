package iosource

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
)

// OpenError is returned when the staged-record file cannot be opened.
func OpenError(path string, err error) error {
	msg := `Cannot open staged records <em>%s</em>

Make sure the file exists and was created by the ClinVar parser.
Set its location with <em>--source-file</em> or <em>load.source_file</em>.`
	return &gn.Error{
		Code: errcode.SourceOpenError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("open %s: %w", path, err),
	}
}

// ReadError is returned when reading staged records fails.
func ReadError(path, table string, err error) error {
	return &gn.Error{
		Code: errcode.SourceReadError,
		Msg:  "Cannot read <em>%s</em> from <em>%s</em>",
		Vars: []any{table, path},
		Err:  fmt.Errorf("read %s from %s: %w", table, path, err),
	}
}

func dateError(rcv, date string, err error) error {
	return &gn.Error{
		Code: errcode.DataQualityError,
		Msg:  "Record <em>%s</em> has a malformed last evaluated date <em>%s</em>",
		Vars: []any{rcv, date},
		Err:  fmt.Errorf("parse date %q: %w", date, err),
	}
}
