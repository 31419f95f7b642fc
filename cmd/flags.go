package cmd

import (
	"fmt"
	"os"

	clinvar "github.com/rat-genome-database/clinvar-pipeline/pkg"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/spf13/cobra"
)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", clinvar.Version, clinvar.Build)
		os.Exit(0)
	}
}

// intFlag adds an option built from an integer flag, if the flag was
// set by the user.
func intFlag(
	cmd *cobra.Command,
	opts []config.Option,
	name string,
	opt func(int) config.Option,
) []config.Option {
	if !cmd.Flags().Changed(name) {
		return opts
	}
	val, _ := cmd.Flags().GetInt(name)
	return append(opts, opt(val))
}
