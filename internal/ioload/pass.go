package ioload

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/reconcile"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/run"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
	"golang.org/x/sync/errgroup"
)

// pass is one reconciliation run over a stream of records.
type pass struct {
	cfg   *config.Config
	rc    *run.Context
	store Store
	genes *geneCache

	// cutoff is the database time at the start of the run. Cross-references
	// not refreshed since then are stale.
	cutoff time.Time

	aliases   *reconcile.Synchronizer[variant.Alias]
	xrefs     *reconcile.Synchronizer[variant.Xref]
	names     *reconcile.Synchronizer[variant.ExternalName]
	positions *reconcile.Synchronizer[variant.Position]
	geneLinks *reconcile.Synchronizer[variant.GeneLink]

	// progress enables the progress bar.
	progress bool
}

func newPass(
	cfg *config.Config,
	rc *run.Context,
	store Store,
	ent Entities,
) *pass {
	return &pass{
		cfg:       cfg,
		rc:        rc,
		store:     store,
		genes:     newGeneCache(store),
		aliases:   reconcile.New("ALIASES", ent.Aliases, rc),
		xrefs:     reconcile.New("XDB_IDS", ent.Xrefs, rc),
		names:     reconcile.New("HGVS_NAMES", ent.Names, rc),
		positions: reconcile.New("MAP_POSITIONS", ent.Positions, rc),
		geneLinks: reconcile.New("GENE_ASSOCIATIONS", ent.GeneLinks, rc),
	}
}

// run reconciles all records of the source, then flushes buffered
// scalar values and removes stale cross-references.
func (p *pass) run(ctx context.Context, src Source) error {
	// store work of a started record is never cut in the middle
	workCtx := context.WithoutCancel(ctx)

	var err error
	p.cutoff, err = p.store.Now(workCtx)
	if err != nil {
		return err
	}

	baseline, err := p.store.XrefCount(workCtx)
	if err != nil {
		return err
	}
	p.rc.Add("XDB_IDS_BASELINE", baseline)

	total, err := src.Count(ctx)
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	if p.progress {
		bar = pb.Full.Start(total)
		bar.Set("prefix", "Reconciling records: ")
		bar.Set(pb.CleanOnFinish, true)
	}

	chIn := make(chan *variant.Record)
	g, gctx := errgroup.WithContext(ctx)

	for range max(p.cfg.JobsNumber, 1) {
		g.Go(func() error {
			p.worker(workCtx, chIn, bar)
			return nil
		})
	}

	g.Go(func() error {
		return src.Records(gctx, chIn)
	})

	err = g.Wait()
	if bar != nil {
		bar.Finish()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		p.rc.Stop()
	}

	// records processed before a stop still need their buffered values
	if err = p.flush(workCtx); err != nil {
		return err
	}

	if p.rc.Stopped() {
		slog.Warn("Load stopped, stale cross-references are kept",
			"run", p.rc.ID)
		return CancelledError(context.Canceled)
	}

	// cross-references of failed records were not refreshed and would
	// look stale
	if failed := p.rc.Count("RECORDS_FAILED"); failed > 0 {
		slog.Warn("Records failed, stale cross-references are kept",
			"run", p.rc.ID,
			"failed", failed,
		)
		return RecordsFailedError(failed, p.rc.Count("RECORDS_TOTAL"))
	}

	if err = p.resolveDeferred(workCtx); err != nil {
		return err
	}

	return p.deleteStaleXrefs(workCtx, baseline)
}

// worker reconciles records until chIn is closed. After a stop request
// the remaining records are drained without processing.
func (p *pass) worker(
	ctx context.Context,
	chIn <-chan *variant.Record,
	bar *pb.ProgressBar,
) {
	for rec := range chIn {
		if p.rc.Stopped() {
			continue
		}

		p.rc.Inc("RECORDS_TOTAL")
		if err := p.processRecord(ctx, rec); err != nil {
			p.rc.Inc("RECORDS_FAILED")
			slog.Error("Cannot reconcile record",
				"run", p.rc.ID,
				"rcv", rec.RCV,
				"symbol", rec.Variant.Symbol,
				"recno", rec.RecNo,
				"error", err,
			)
		}
		if bar != nil {
			bar.Increment()
		}
	}
}
