// Package ioload implements the Loader: it reconciles staged ClinVar
// records with variants persisted in PostgreSQL.
//
// Records are processed by a pool of workers. Each worker merges scalar
// fields of one variant and synchronizes its aliases, cross-references,
// HGVS names, map positions and gene associations. Trait names, notes
// and submitters collect values from every record of a variant and are
// written once, after all records are processed. The run ends with the
// removal of stale cross-references.
package ioload

import (
	"context"
	"log/slog"

	"github.com/rat-genome-database/clinvar-pipeline/internal/iodb"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iosource"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iostore"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/db"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/run"
)

// Loader reconciles a staged-record file with the database.
type Loader struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates a Loader. The operator must be connected.
func New(cfg *config.Config, op db.Operator) *Loader {
	return &Loader{cfg: cfg, operator: op}
}

// Load runs one reconciliation pass over cfg.Load.SourceFile.
func (l *Loader) Load(ctx context.Context) (*run.Context, error) {
	rc := run.New()

	pool := l.operator.Pool()
	if pool == nil {
		return rc, iodb.NotConnectedError()
	}
	ok, err := l.operator.TableExists(ctx, "variants")
	if err != nil {
		return rc, err
	}
	if !ok {
		return rc, iodb.EmptyDatabaseError(
			l.cfg.Database.Host, l.cfg.Database.Database,
		)
	}

	src, err := iosource.Open(l.cfg.Load.SourceFile)
	if err != nil {
		return rc, err
	}
	defer src.Close()

	store := iostore.New(pool, l.cfg.Database.BatchSize)
	p := newPass(l.cfg, rc, store, Entities{
		Aliases:   store.Aliases(),
		Xrefs:     store.Xrefs(),
		Names:     store.Names(),
		Positions: store.Positions(),
		GeneLinks: store.GeneLinks(),
	})
	p.progress = true

	release := rc.WatchStop(ctx)
	defer release()

	slog.Info("Starting load",
		"run", rc.ID,
		"source", l.cfg.Load.SourceFile,
		"jobs", l.cfg.JobsNumber,
	)
	err = p.run(ctx, src)
	rc.Report("Load")
	return rc, err
}
