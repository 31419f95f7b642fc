package cmd

import (
	"bytes"
	"testing"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetLoadCmd_Exists verifies getLoadCmd returns
// a valid command.
func TestGetLoadCmd_Exists(t *testing.T) {
	cmd := getLoadCmd()
	require.NotNil(t, cmd, "Load command should exist")
	assert.Equal(t, "load", cmd.Use,
		"Command name should be load")
	assert.NotNil(t, cmd.RunE, "RunE should be set")
}

// TestGetLoadCmd_LongDescription verifies long
// description.
func TestGetLoadCmd_LongDescription(t *testing.T) {
	cmd := getLoadCmd()

	assert.Contains(t, cmd.Short, "ClinVar",
		"Short description should mention ClinVar")
	assert.Contains(t, cmd.Long, "SQLite",
		"Long description should mention the source file")
	assert.Contains(t, cmd.Long, "stale cross-references",
		"Long description should mention stale deletion")
}

// TestGetLoadCmd_Flags verifies flags of the command.
func TestGetLoadCmd_Flags(t *testing.T) {
	cmd := getLoadCmd()

	tests := []struct {
		name, short, def string
	}{
		{"source-file", "s", ""},
		{"stale-delete-percent", "p", "0"},
		{"jobs", "j", "0"},
	}

	for _, v := range tests {
		flag := cmd.Flags().Lookup(v.name)
		require.NotNil(t, flag, "--%s flag should exist", v.name)
		assert.Equal(t, v.short, flag.Shorthand, v.name)
		assert.Equal(t, v.def, flag.DefValue, v.name)
	}
}

// TestGetLoadCmd_HelpText verifies help text content.
func TestGetLoadCmd_HelpText(t *testing.T) {
	cmd := getLoadCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "--source-file")
	assert.Contains(t, helpText, "Examples:")
	assert.Contains(t, helpText, "clinvar load -s records.sqlite")
}

// TestIntFlag verifies only changed flags become options.
func TestIntFlag(t *testing.T) {
	cmd := getLoadCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-j", "3"}))

	var opts []config.Option
	opts = intFlag(cmd, opts, "stale-delete-percent",
		config.OptLoadStaleDeletePercent)
	opts = intFlag(cmd, opts, "jobs", config.OptJobsNumber)
	require.Len(t, opts, 1)

	c := config.New()
	pct := c.Load.StaleDeletePercent
	c.Update(opts)
	assert.Equal(t, 3, c.JobsNumber)
	assert.Equal(t, pct, c.Load.StaleDeletePercent)
}

// TestGetLoadCmd_IndependentInstances verifies each
// call returns independent instance.
func TestGetLoadCmd_IndependentInstances(t *testing.T) {
	cmd1 := getLoadCmd()
	cmd2 := getLoadCmd()

	assert.NotSame(t, cmd1, cmd2,
		"Each call should return new instance")
}
