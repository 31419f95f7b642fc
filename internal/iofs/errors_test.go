package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	orig := errors.New("disk full")
	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		text string
	}{
		{"create dir", CreateDirError("/test/dir", orig),
			errcode.CreateDirError, "cannot create"},
		{"copy file", CopyFileError("/test/config.yaml", orig),
			errcode.CopyFileError, "cannot copy"},
		{"read file", ReadFileError("/test/exclusions.yaml", orig),
			errcode.ReadFileError, "cannot read"},
		{"write file", WriteFileError("/test/report.txt", orig),
			errcode.WriteFileError, "cannot write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.Contains(t, gnErr.Msg, "%s")
			require.Len(t, gnErr.Vars, 1)
			assert.ErrorIs(t, gnErr.Err, orig)
			assert.Contains(t, gnErr.Err.Error(), tt.text)
			// the wrapped error names the function that failed
			assert.Contains(t, gnErr.Err.Error(), "from ")
		})
	}
}
