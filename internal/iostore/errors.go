package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
)

// ReadError is returned when a query to a table fails.
func ReadError(table string, err error) error {
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  "Cannot read from <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("read %s: %w", table, err),
	}
}

// WriteError is returned when a modification of a table fails.
func WriteError(table string, err error) error {
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  "Cannot write to <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("write %s: %w", table, err),
	}
}

// ConstraintError is returned when several variants share a symbol.
func ConstraintError(symbol string, count int) error {
	return &gn.Error{
		Code: errcode.StoreConstraintError,
		Msg:  "Symbol <em>%s</em> belongs to %d variants",
		Vars: []any{symbol, count},
		Err: fmt.Errorf("symbol %s is not unique, found %d variants",
			symbol, count),
	}
}
