package ioload

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
)

// CancelledError is returned when a load run was stopped before all
// records were processed.
func CancelledError(err error) error {
	return &gn.Error{
		Code: errcode.LoadCancelledError,
		Msg:  "Load was interrupted, processed records are saved",
		Err:  fmt.Errorf("load cancelled: %w", err),
	}
}

// RecordsFailedError is returned after a run where some records could
// not be reconciled.
func RecordsFailedError(failed, total int) error {
	msg := `<em>%d</em> of %d records failed

Failed records are listed in the log file with their RCV accessions.`
	return &gn.Error{
		Code: errcode.LoadRecordsFailedError,
		Msg:  msg,
		Vars: []any{failed, total},
		Err:  fmt.Errorf("%d records failed", failed),
	}
}

// FlushError is returned when buffered values cannot be written.
func FlushError(buffer string, err error) error {
	return &gn.Error{
		Code: errcode.LoadFlushError,
		Msg:  "Cannot save buffered <em>%s</em>",
		Vars: []any{buffer},
		Err:  fmt.Errorf("flush %s: %w", buffer, err),
	}
}

// StaleDeleteError is returned when stale cross-references cannot be
// selected or removed.
func StaleDeleteError(err error) error {
	return &gn.Error{
		Code: errcode.LoadStaleDeleteError,
		Msg:  "Cannot remove stale cross-references",
		Err:  fmt.Errorf("stale xdb ids: %w", err),
	}
}

// ResolveError is returned when deferred sub-entities cannot be retagged
// or removed at the end of a run.
func ResolveError(kind string, err error) error {
	return &gn.Error{
		Code: errcode.LoadResolveError,
		Msg:  "Cannot resolve deferred <em>%s</em>",
		Vars: []any{kind},
		Err:  fmt.Errorf("resolve %s: %w", kind, err),
	}
}

func geneError(rcv string, ref string, status string) error {
	return &gn.Error{
		Code: errcode.DataQualityError,
		Msg:  "Record <em>%s</em>: gene <em>%s</em> %s",
		Vars: []any{rcv, ref, status},
		Err:  fmt.Errorf("gene %s: %s", ref, status),
	}
}

func emptySymbolError(rcv string) error {
	return &gn.Error{
		Code: errcode.DataQualityError,
		Msg:  "Record <em>%s</em> has no variant symbol",
		Vars: []any{rcv},
		Err:  fmt.Errorf("record %s without symbol", rcv),
	}
}
