package variant

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
)

func unknownAssemblyError(rcv, assembly string) error {
	msg := "Record <em>%s</em> has unsupported assembly <em>%s</em>"
	vars := []any{rcv, assembly}
	return &gn.Error{
		Code: errcode.DataQualityError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsupported assembly %q", assembly),
	}
}

func emptyChromosomeError(rcv string) error {
	msg := "Record <em>%s</em> has a position without chromosome"
	vars := []any{rcv}
	return &gn.Error{
		Code: errcode.DataQualityError,
		Msg:  msg,
		Vars: vars,
		Err:  errors.New("null chromosome"),
	}
}
