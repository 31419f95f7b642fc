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
	"strings"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iodb"
	"github.com/rat-genome-database/clinvar-pipeline/internal/ioschema"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/schema"
	"github.com/spf13/cobra"
)

// getMigrateCmd returns the migrate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring ClinVar tables to the schema of this release",
		Long: `Migrate updates variant, ontology and annotation tables to the
schema of the installed clinvar release.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Reports pipeline tables that are not created yet
  3. Runs GORM AutoMigrate over all pipeline models
  4. Re-applies index statements (case-insensitive variant aliases,
     natural key of annotations, stale annotation lookup)
  5. Preserves loaded variants and annotations (non-destructive)

GORM AutoMigrate:
  - Adds missing tables, e.g. map_positions after an upgrade
  - Adds new columns to existing tables
  - Adds missing indexes
  - Does NOT delete columns, tables or rows (safe)

Run it after upgrading the pipeline and before the next 'clinvar load'.

Examples:
  clinvar migrate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, args)
		},
	}

	return migrateCmd
}

func runMigrate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	missing, err := op.MissingTables(ctx)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if len(missing) == len(schema.Tables()) {
		gn.Warn(`Warning: Database has no ClinVar pipeline tables.
	Run '<em>clinvar create</em>' first to initialize the schema.`)
		return nil
	}

	if len(missing) > 0 {
		gn.Info("Tables to add: <em>%s</em>", strings.Join(missing, ", "))
	}

	sm := ioschema.NewManager(op)

	gn.Info("Migrating ClinVar schema...")
	if err := sm.Migrate(ctx, cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info("Schema is now up to date. Loaded variants and annotations are kept.")

	return nil
}
