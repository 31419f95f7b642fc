package ioload

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/merge"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/run"
	"golang.org/x/sync/errgroup"
)

// flush writes united trait names, notes and submitters of every variant
// seen during the run.
func (p *pass) flush(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return p.flushBuffer(ctx, p.rc.TraitNames, traitName, p.store.UpdateTraitName)
	})
	g.Go(func() error {
		return p.flushBuffer(ctx, p.rc.Notes, notes, p.store.UpdateNotes)
	})
	g.Go(func() error {
		return p.flushBuffer(ctx, p.rc.Submitters, submitter, p.store.UpdateSubmitter)
	})

	return g.Wait()
}

func traitName(e run.Entry) string {
	res, _ := merge.QCTraitName(e.Union("|"))
	res, _ = merge.DedupConditions(res)
	return res
}

func notes(e run.Entry) string {
	return merge.TrimNotes(e.Union("; "), merge.NotesLimit)
}

func submitter(e run.Entry) string {
	return e.Union("|")
}

func (p *pass) flushBuffer(
	ctx context.Context,
	b *run.Buffer,
	compose func(run.Entry) string,
	update func(context.Context, int64, string) error,
) error {
	var unchanged, modified int
	for _, id := range b.IDs() {
		e, _ := b.Entry(id)
		val := compose(e)
		if val == e.Stored {
			unchanged++
			continue
		}
		if err := update(ctx, id, val); err != nil {
			return FlushError(strings.ToLower(b.Name()), err)
		}
		modified++
	}

	p.rc.Add(b.Name()+"_UNCHANGED", unchanged)
	p.rc.Add(b.Name()+"_MODIFIED", modified)
	slog.Info("Flushed buffer",
		"run", p.rc.ID,
		"buffer", b.Name(),
		"unchanged", unchanged,
		"modified", modified,
	)
	return nil
}

// resolveDeferred deletes leftovers of variants with several RCVs that no
// other RCV of the run confirmed.
func (p *pass) resolveDeferred(ctx context.Context) error {
	type resolver interface {
		Kind() string
		Resolve(context.Context) error
	}
	for _, r := range []resolver{p.aliases, p.names, p.positions, p.geneLinks} {
		if err := r.Resolve(ctx); err != nil {
			return ResolveError(strings.ToLower(r.Kind()), err)
		}
	}
	return nil
}

// deleteStaleXrefs removes cross-references that were not confirmed by
// the run. Deletion is skipped when the number of stale cross-references
// exceeds the configured share of the baseline count.
func (p *pass) deleteStaleXrefs(ctx context.Context, baseline int) error {
	ids, err := p.store.StaleXrefs(ctx, p.cutoff)
	if err != nil {
		return StaleDeleteError(err)
	}
	stale := len(ids)
	p.rc.Add("XDB_IDS_OBSOLETE_COUNT", stale)
	if stale == 0 {
		return nil
	}

	limit := baseline * p.cfg.Load.StaleDeletePercent / 100
	if stale > limit {
		slog.Warn("Too many stale cross-references, deletion skipped",
			"run", p.rc.ID,
			"stale", stale,
			"baseline", baseline,
			"percent", p.cfg.Load.StaleDeletePercent,
		)
		gn.Warn(
			"<em>%s</em> stale cross-references exceed %d%% of %s, not deleted",
			humanize.Comma(int64(stale)),
			p.cfg.Load.StaleDeletePercent,
			humanize.Comma(int64(baseline)),
		)
		p.rc.Add("XDB_IDS_STALE_KEPT", stale)
		return nil
	}

	deleted, err := p.store.DeleteXrefs(ctx, ids)
	if err != nil {
		return StaleDeleteError(err)
	}
	p.rc.Add("XDB_IDS_DELETED", int(deleted))
	return nil
}
