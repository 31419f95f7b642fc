package ioannotate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/internal/ioannotate"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iodb"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iostore"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreContract(t *testing.T) {
	var _ ioannotate.Store = &iostore.Store{}
}

func TestAnnotateNotConnected(t *testing.T) {
	a := ioannotate.New(config.New(), iodb.NewPgxOperator())
	rc, err := a.Annotate(context.Background())
	require.NotNil(t, rc)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)

	_, err = a.CheckTerms(context.Background(), "RDO")
	assert.Error(t, err)
}
