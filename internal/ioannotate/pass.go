package ioannotate

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iofs"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/annot"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/run"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/terms"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
	"golang.org/x/sync/errgroup"
)

const (
	// geneEvidence is the evidence code of gene annotations inferred from
	// their variants.
	geneEvidence = "IAGP"

	limmSubmitter = "Leeds Institute of Molecular Medicine (LIMM)"

	notesPrefix = "ClinVar Annotator: match by "

	reportFile = "unmatchable_conditions.txt"
)

// pass is one annotation run over all active variants.
type pass struct {
	cfg      *config.Config
	rc       *run.Context
	store    Store
	matcher  *terms.Matcher
	excluded map[string]struct{}

	// reconcilers by ontology id
	recs map[string]*annot.Reconciler

	// cutoff is the database time at the start of the run
	cutoff time.Time

	mu            sync.Mutex
	unmatched     map[string]int
	drugResponses map[string]struct{}

	progress bool
}

func newPass(cfg *config.Config, rc *run.Context, store Store) *pass {
	res := &pass{
		cfg:           cfg,
		rc:            rc,
		store:         store,
		matcher:       terms.NewMatcher(store),
		excluded:      make(map[string]struct{}),
		recs:          make(map[string]*annot.Reconciler),
		unmatched:     make(map[string]int),
		drugResponses: make(map[string]struct{}),
	}
	for _, v := range cfg.Annotate.ExcludedConditions {
		res.excluded[strings.ToLower(v)] = struct{}{}
	}
	for _, v := range ontologies {
		res.recs[v.id] = annot.New(v.id, store, rc, cfg.JobsNumber)
	}
	return res
}

// run generates annotation candidates of all eligible variants,
// reconciles them with the store and removes stale annotations.
func (p *pass) run(ctx context.Context) error {
	workCtx := context.WithoutCancel(ctx)
	createdBy := p.cfg.Annotate.CreatedBy

	for _, v := range ontologies {
		dups, err := p.matcher.Duplicates(workCtx, v.id)
		if err != nil {
			return TermIndexError(v.id, err)
		}
		slog.Info("Indexed ontology", "ontology", v.id, "duplicates", len(dups))
	}

	var err error
	p.cutoff, err = p.store.Now(workCtx)
	if err != nil {
		return err
	}

	baseline, err := p.store.AnnotationCount(workCtx, createdBy)
	if err != nil {
		return err
	}
	p.rc.Add("ANNOTATIONS_BASELINE", baseline)

	vars, err := p.store.ActiveVariants(workCtx, p.cfg.Annotate.VariantTypes)
	if err != nil {
		return err
	}
	p.rc.Add("VARIANTS_INCOMING", len(vars))

	var bar *pb.ProgressBar
	if p.progress {
		bar = pb.Full.Start(len(vars))
		bar.Set("prefix", "Annotating variants: ")
		bar.Set(pb.CleanOnFinish, true)
	}

	chIn := make(chan variant.Variant)
	g, gctx := errgroup.WithContext(ctx)

	for range max(p.cfg.JobsNumber, 1) {
		g.Go(func() error {
			p.worker(workCtx, chIn, bar)
			return nil
		})
	}

	g.Go(func() error {
		defer close(chIn)
		for _, v := range vars {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case chIn <- v:
			}
		}
		return nil
	})

	err = g.Wait()
	if bar != nil {
		bar.Finish()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil || p.rc.Stopped() {
		p.rc.Stop()
		return CancelledError(context.Canceled)
	}

	var syncErr error
	for _, v := range ontologies {
		stats, err := p.recs[v.id].Sync(workCtx)
		slog.Info("Reconciled annotations",
			"run", p.rc.ID,
			"ontology", v.id,
			"incoming", stats.Incoming,
			"merged", stats.Merged,
			"inserted", stats.Inserted,
			"updated", stats.Updated,
			"up-to-date", stats.UpToDate,
			"touched", stats.Touched,
		)
		if err != nil && syncErr == nil {
			syncErr = ReconcileError(v.id, err)
		}
	}

	p.writeReport()

	if syncErr != nil {
		return syncErr
	}
	if failed := p.rc.Count("VARIANTS_FAILED"); failed > 0 {
		return ReconcileError("variant",
			errors.New(strconv.Itoa(failed)+" variants failed"))
	}
	return p.deleteStale(workCtx, baseline)
}

func (p *pass) worker(
	ctx context.Context,
	chIn <-chan variant.Variant,
	bar *pb.ProgressBar,
) {
	for v := range chIn {
		if p.rc.Stopped() {
			continue
		}
		if err := p.annotate(ctx, v); err != nil {
			p.rc.Inc("VARIANTS_FAILED")
			slog.Error("Cannot annotate variant",
				"run", p.rc.ID,
				"symbol", v.Symbol,
				"id", v.ID,
				"error", err,
			)
		}
		if bar != nil {
			bar.Increment()
		}
	}
}

// annotate adds annotation candidates of one variant and of its genes to
// the reconcilers.
func (p *pass) annotate(ctx context.Context, v variant.Variant) error {
	if !p.eligible(v) {
		p.rc.Inc("VARIANTS_NOT_ELIGIBLE")
		return nil
	}

	genes, err := p.store.AssociatedGenes(ctx, v.ID)
	if err != nil {
		return err
	}
	if len(genes) == 0 {
		p.rc.Inc("VARIANTS_WITHOUT_GENES")
		return nil
	}

	pmids, err := p.store.XrefAccessions(ctx, v.ID, variant.XdbPubMed)
	if err != nil {
		return err
	}
	xrefSource := pubMedSource(pmids)

	matches, err := p.matchConditions(ctx, v)
	if err != nil {
		return err
	}

	withInfo := "RGD:" + strconv.FormatInt(v.ID, 10)
	var count int
	for _, ont := range ontologies {
		rec := p.recs[ont.id]
		for _, m := range matches[ont.id] {
			base := annot.Annotation{
				TermAcc:    m.acc,
				Term:       m.term,
				Aspect:     ont.aspect,
				DataSource: p.cfg.Annotate.DataSource,
				RefID:      p.cfg.Annotate.RefID,
				CreatedBy:  p.cfg.Annotate.CreatedBy,
				XrefSource: xrefSource,
				Notes:      notesPrefix + m.note,
			}

			va := base
			va.SubjectID = v.ID
			va.SubjectKind = annot.ObjectVariant
			va.SubjectSymbol = v.Symbol
			va.Evidence = p.cfg.Annotate.Evidence
			rec.Add(va)
			count++

			for _, gene := range genes {
				ga := base
				ga.SubjectID = gene.ID
				ga.SubjectKind = annot.ObjectGene
				ga.SubjectSymbol = gene.Symbol
				ga.Evidence = geneEvidence
				ga.WithInfo = withInfo
				rec.Add(ga)
				count++
			}
		}
	}

	if count > 0 {
		p.rc.Inc("VARIANTS_ANNOTATED")
		p.rc.Add("ANNOTATION_CANDIDATES", count)
	}
	return nil
}

func (p *pass) eligible(v variant.Variant) bool {
	if !slices.Contains(p.cfg.Annotate.VariantTypes, v.ObjectType) {
		return false
	}
	if slices.Contains(p.cfg.Annotate.ExcludedSignificance, v.ClinicalSignificance) {
		return false
	}
	return v.ClinicalSignificance != "uncertain significance" ||
		v.Submitter != limmSubmitter
}

// pubMedSource converts PubMed accessions to a sorted "PMID:<digits>"
// list joined with '|'.
func pubMedSource(accs []string) string {
	res := make([]string, 0, len(accs))
	for _, v := range accs {
		digits := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return r
			}
			return -1
		}, v)
		if digits != "" {
			res = append(res, "PMID:"+digits)
		}
	}
	slices.Sort(res)
	return strings.Join(slices.Compact(res), "|")
}

func (p *pass) writeReport() {
	p.mu.Lock()
	unmatched, drugs := len(p.unmatched), len(p.drugResponses)
	p.mu.Unlock()
	p.rc.Add("CONDITIONS_UNMATCHABLE", unmatched)
	p.rc.Add("CONDITIONS_DRUG_RESPONSE", drugs)

	if p.cfg.HomeDir == "" {
		return
	}
	path, err := iofs.WriteReport(p.cfg.HomeDir, reportFile, p.unmatchableReport())
	if err != nil {
		slog.Warn("Cannot write unmatchable conditions", "error", err)
		return
	}
	slog.Info("Unmatchable conditions saved", "path", path, "count", unmatched)
}

// deleteStale removes annotations of the pipeline that were not
// refreshed by the run, unless there are too many of them.
func (p *pass) deleteStale(ctx context.Context, baseline int) error {
	createdBy := p.cfg.Annotate.CreatedBy
	keys, err := p.store.StaleAnnotations(ctx, createdBy, p.cutoff)
	if err != nil {
		return StaleDeleteError(err)
	}
	stale := len(keys)
	p.rc.Add("ANNOTATIONS_STALE", stale)
	if stale == 0 {
		return nil
	}

	pct := p.cfg.Annotate.StaleDeletePercent
	limit := baseline * pct / 100
	if stale > limit {
		slog.Warn("Too many stale annotations, deletion skipped",
			"run", p.rc.ID,
			"stale", stale,
			"baseline", baseline,
			"percent", pct,
		)
		gn.Warn(
			"<em>%s</em> stale annotations exceed %d%% of %s, not deleted",
			humanize.Comma(int64(stale)), pct, humanize.Comma(int64(baseline)),
		)
		p.rc.Add("ANNOTATIONS_STALE_KEPT", stale)
		return nil
	}

	deleted, err := p.store.DeleteAnnotations(ctx, keys)
	if err != nil {
		return StaleDeleteError(err)
	}
	p.rc.Add("ANNOTATIONS_DELETED", int(deleted))
	return nil
}
