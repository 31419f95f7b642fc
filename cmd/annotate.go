/*
Copyright © 2026 Rat Genome Database, Medical College of Wisconsin

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/internal/ioannotate"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/lifecycle"
	"github.com/spf13/cobra"
)

// getAnnotateCmd returns the annotate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getAnnotateCmd() *cobra.Command {
	annotateCmd := &cobra.Command{
		Use:   "annotate",
		Short: "Create disease annotations from ClinVar variants",
		Long: `Annotate matches conditions of ClinVar variants to ontology terms.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Indexes names and synonyms of RDO and HP terms
  3. Matches conditions of eligible variants to terms, skipping
     conditions listed in the exclusions file
  4. Creates annotations for variants and their associated genes,
     merging annotations that differ only by evidence sources
  5. Deletes stale annotations, unless too many of them became stale
  6. Writes unmatchable conditions to a report in the cache directory

Conditions to exclude are kept in:
  ~/.config/clinvar-pipeline/exclusions.yaml

Examples:
  clinvar annotate
  clinvar annotate -j 8 -p 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAnnotate(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	annotateCmd.Flags().IntP(
		"stale-delete-percent", "p", 0,
		"maximal percent of annotations deleted as stale",
	)
	annotateCmd.Flags().IntP(
		"jobs", "j", 0,
		"number of concurrent workers",
	)

	return annotateCmd
}

func runAnnotate(cmd *cobra.Command) error {
	var opts []config.Option
	opts = intFlag(cmd, opts, "stale-delete-percent",
		config.OptAnnotateStaleDeletePercent)
	opts = intFlag(cmd, opts, "jobs", config.OptJobsNumber)
	if len(opts) > 0 {
		cfg.Update(opts)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	op, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Annotating variants...")
	var annotator lifecycle.Annotator = ioannotate.New(cfg, op)
	if _, err = annotator.Annotate(ctx); err != nil {
		return err
	}
	return nil
}
