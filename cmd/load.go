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
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iodb"
	"github.com/rat-genome-database/clinvar-pipeline/internal/ioload"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/db"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/lifecycle"
	"github.com/spf13/cobra"
)

// getLoadCmd returns the load command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getLoadCmd() *cobra.Command {
	var sourceFile string

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Reconcile ClinVar variants with the database",
		Long: `Load staged ClinVar records and reconcile them with stored variants.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Opens the staged-record SQLite file produced by the ClinVar parser
  3. Matches every record to a stored variant by its symbol, inserting
     new variants and updating changed ones
  4. Synchronizes aliases, cross-references, HGVS names, map positions
     and gene associations of every variant
  5. Writes merged trait names, notes and submitters
  6. Deletes stale cross-references, unless too many of them became stale
  7. Reports counters of the run

Interrupting the command (Ctrl-C) lets workers finish their current
records. Stale cross-references are not deleted in that case.

Examples:
  clinvar load
  clinvar load --source-file ~/clinvar/records.sqlite
  clinvar load -s records.sqlite -j 8 -p 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLoad(cmd, sourceFile)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	loadCmd.Flags().StringVarP(
		&sourceFile, "source-file", "s", "",
		"staged-record SQLite file (overrides config)",
	)
	loadCmd.Flags().IntP(
		"stale-delete-percent", "p", 0,
		"maximal percent of cross-references deleted as stale",
	)
	loadCmd.Flags().IntP(
		"jobs", "j", 0,
		"number of concurrent workers",
	)

	return loadCmd
}

func runLoad(cmd *cobra.Command, sourceFile string) error {
	var opts []config.Option
	if cmd.Flags().Changed("source-file") {
		opts = append(opts, config.OptLoadSourceFile(sourceFile))
	}
	opts = intFlag(cmd, opts, "stale-delete-percent",
		config.OptLoadStaleDeletePercent)
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

	gn.Info("Reconciling variants from <em>%s</em>...", cfg.Load.SourceFile)
	var loader lifecycle.Loader = ioload.New(cfg, op)
	if _, err = loader.Load(ctx); err != nil {
		return err
	}

	gn.Info(`Next steps:
	 - Run '<em>clinvar annotate</em>' to refresh disease annotations
`)
	return nil
}

// openDatabase connects to PostgreSQL and makes sure the schema exists.
func openDatabase(ctx context.Context) (db.Operator, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, err
	}

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		op.Close()
		return nil, err
	}

	if !hasTables {
		op.Close()
		return nil, &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Database appears to be empty.</err>
   Run <em>'clinvar create'</em> first to initialize the schema.`,
			Err: errors.New("cannot reconcile data in empty database"),
		}
	}
	return op, nil
}
