package cmd

import (
	"bytes"
	"testing"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/terms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetCheckTermsCmd_Exists verifies getCheckTermsCmd returns
// a valid command.
func TestGetCheckTermsCmd_Exists(t *testing.T) {
	cmd := getCheckTermsCmd()
	require.NotNil(t, cmd, "Check-terms command should exist")
	assert.Equal(t, "check-terms", cmd.Use)

	flag := cmd.Flags().Lookup("ontology")
	require.NotNil(t, flag, "--ontology flag should exist")
	assert.Equal(t, "o", flag.Shorthand)
	assert.Equal(t, "RDO", flag.DefValue)
}

func TestPrintDuplicates(t *testing.T) {
	cmd := getCheckTermsCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	printDuplicates(cmd, []terms.Duplicate{
		{
			Name: "syndrome, Timothy", Acc1: "DOID:5", Acc2: "DOID:6",
			Count1: 3, Count2: 3, Resolution: terms.ByRank,
		},
		{
			Name: "heart rhythm disorder", Acc1: "DOID:1", Acc2: "DOID:2",
			Count1: 5, Count2: 10, Synonym: true, Resolution: terms.ByBranches,
		},
	})

	assert.Equal(t,
		"syndrome, Timothy\tDOID:5 (3)\tDOID:6 (3)\tterm\trank\n"+
			"heart rhythm disorder\tDOID:1 (5)\tDOID:2 (10)\tsynonym\tbranches\n",
		buf.String())
}
