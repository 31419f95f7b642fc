// Package ioannotate implements the Annotator: it maps conditions of
// ClinVar variants to disease (RDO) and phenotype (HP) terms, and
// reconciles the resulting variant and gene annotations with the
// database.
package ioannotate

import (
	"context"
	"log/slog"

	"github.com/rat-genome-database/clinvar-pipeline/internal/iodb"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iostore"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/db"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/run"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/terms"
)

// Annotator generates annotations of ClinVar variants.
type Annotator struct {
	cfg      *config.Config
	operator db.Operator
}

// New creates an Annotator. The operator must be connected.
func New(cfg *config.Config, op db.Operator) *Annotator {
	return &Annotator{cfg: cfg, operator: op}
}

// Annotate runs one annotation pass.
func (a *Annotator) Annotate(ctx context.Context) (*run.Context, error) {
	rc := run.New()
	store, err := a.store(ctx)
	if err != nil {
		return rc, err
	}

	p := newPass(a.cfg, rc, store)
	p.progress = true

	release := rc.WatchStop(ctx)
	defer release()

	slog.Info("Starting annotation",
		"run", rc.ID,
		"created_by", a.cfg.Annotate.CreatedBy,
		"jobs", a.cfg.JobsNumber,
	)
	err = p.run(ctx)
	rc.Report("Annotate")
	return rc, err
}

// CheckTerms indexes an ontology and returns the names shared by several
// of its terms, together with the way each collision was resolved.
func (a *Annotator) CheckTerms(
	ctx context.Context,
	ontologyID string,
) ([]terms.Duplicate, error) {
	store, err := a.store(ctx)
	if err != nil {
		return nil, err
	}
	return checkTerms(ctx, store, ontologyID)
}

func checkTerms(
	ctx context.Context,
	store terms.Store,
	ontologyID string,
) ([]terms.Duplicate, error) {
	m := terms.NewMatcher(store)
	res, err := m.Duplicates(ctx, ontologyID)
	if err != nil {
		return nil, TermIndexError(ontologyID, err)
	}
	return res, nil
}

func (a *Annotator) store(ctx context.Context) (*iostore.Store, error) {
	pool := a.operator.Pool()
	if pool == nil {
		return nil, iodb.NotConnectedError()
	}
	ok, err := a.operator.TableExists(ctx, "annotations")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, iodb.EmptyDatabaseError(
			a.cfg.Database.Host, a.cfg.Database.Database,
		)
	}
	return iostore.New(pool, a.cfg.Database.BatchSize), nil
}
