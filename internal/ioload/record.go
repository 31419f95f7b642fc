package ioload

import (
	"context"
	"log/slog"
	"time"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/merge"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/reconcile"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

// processRecord merges the scalar fields of the record's variant and
// synchronizes its sub-entities.
func (p *pass) processRecord(ctx context.Context, rec *variant.Record) error {
	for _, v := range rec.Issues {
		p.dataQuality(rec, "DATA_QUALITY_ISSUES", v)
	}
	if rec.Variant.Symbol == "" {
		p.dataQuality(rec, "RECORDS_SKIPPED", emptySymbolError(rec.RCV))
		return nil
	}

	// QC of a brand-new variant has nothing to fetch
	var qcID int64

	old, err := p.store.VariantBySymbol(ctx, rec.Variant.Symbol)
	if err != nil {
		return err
	}

	if old == nil {
		var created bool
		old, created, err = p.store.InsertVariant(ctx, rec.Variant)
		if err != nil {
			return err
		}
		if created {
			p.rc.Inc("VARIANTS_INSERTED")
			slog.Debug("Inserted variant",
				"symbol", old.Symbol, "id", old.ID, "rcv", rec.RCV)
		} else {
			// another worker created the variant meanwhile
			qcID = old.ID
			err = p.updateScalars(ctx, *old, rec.Variant)
		}
	} else {
		qcID = old.ID
		err = p.updateScalars(ctx, *old, rec.Variant)
	}
	if err != nil {
		return err
	}

	id := old.ID
	p.rc.TraitNames.Add(id, rec.Variant.TraitName, old.TraitName)
	p.rc.Notes.Add(id, rec.Variant.Notes, old.Notes)
	p.rc.Submitters.Add(id, rec.Variant.Submitter, old.Submitter)

	return p.syncEntities(ctx, qcID, id, rec)
}

// updateScalars merges incoming scalar fields into the stored variant
// and writes the result, or touches the variant if nothing changed.
func (p *pass) updateScalars(ctx context.Context, old, inc variant.Variant) error {
	res, changed := p.mergeScalars(old, inc)
	if !changed {
		p.rc.Inc("VARIANTS_MATCHING")
		return p.store.TouchVariant(ctx, old.ID)
	}

	slog.Debug("Updating variant", "symbol", old.Symbol, "id", old.ID)
	p.rc.Inc("VARIANTS_UPDATED")
	return p.store.UpdateVariant(ctx, res)
}

// mergeScalars combines stored and incoming fields. Trait name, notes and
// submitter are merged by buffer flushes.
func (p *pass) mergeScalars(old, inc variant.Variant) (variant.Variant, bool) {
	res := old
	var changed bool

	replace := func(field *string, val string) {
		if val != "" && *field != val {
			*field = val
			changed = true
		}
	}
	replace(&res.ObjectType, inc.ObjectType)
	replace(&res.Name, inc.Name)
	replace(&res.SOAccID, inc.SOAccID)
	replace(&res.NucleotideChange, inc.NucleotideChange)

	union := func(field *string, val string) {
		var ok bool
		if *field, ok = merge.Merge(val, *field); ok {
			changed = true
		}
	}
	union(&res.AgeOfOnset, inc.AgeOfOnset)
	union(&res.MethodType, inc.MethodType)
	union(&res.MolecularConsequence, inc.MolecularConsequence)
	union(&res.Prevalence, inc.Prevalence)
	union(&res.ReviewStatus, inc.ReviewStatus)

	if unknown := merge.UnknownSignificance(inc.ClinicalSignificance); len(unknown) > 0 {
		p.rc.Add("UNKNOWN_SIGNIFICANCE", len(unknown))
		slog.Warn("Unhandled clinical significance",
			"symbol", old.Symbol, "values", unknown)
	}
	var ok bool
	res.ClinicalSignificance, ok = merge.MergeClinicalSignificance(
		inc.ClinicalSignificance, res.ClinicalSignificance,
	)
	changed = changed || ok

	res.LastEvaluated = merge.NewerDate(inc.LastEvaluated, old.LastEvaluated)
	if !sameDate(res.LastEvaluated, old.LastEvaluated) {
		changed = true
	}
	return res, changed
}

// syncEntities reconciles the five kinds of sub-entities of a variant.
// Cross-references go first, accessions of ClinVar cross-references that
// remain are the valid sources of aliases and the known sources of the
// other kinds. Matched cross-references are touched on every run anyway,
// so they are retagged without a known source list.
func (p *pass) syncEntities(
	ctx context.Context,
	qcID, id int64,
	rec *variant.Record,
) error {
	scope := reconcile.Scope{Source: rec.RCV}

	links, err := p.resolveGenes(ctx, rec)
	if err != nil {
		return err
	}

	xrefs, err := syncKind(ctx, p.xrefs, qcID, id, scope, rec.Xrefs)
	if err != nil {
		return err
	}

	valid := make(map[string]struct{})
	for _, v := range xrefs.Current() {
		if v.XdbKey == variant.XdbClinVar {
			valid[v.AccID] = struct{}{}
		}
	}
	if len(valid) > 0 {
		valid[rec.RCV] = struct{}{}
		scope.Sources = valid
	}

	aliasScope := scope
	aliasScope.Valid = scope.Sources
	if _, err = syncKind(ctx, p.aliases, qcID, id, aliasScope, rec.Aliases); err != nil {
		return err
	}

	if _, err = syncKind(ctx, p.names, qcID, id, scope, rec.Names); err != nil {
		return err
	}
	if _, err = syncKind(ctx, p.positions, qcID, id, scope, rec.Positions); err != nil {
		return err
	}
	_, err = syncKind(ctx, p.geneLinks, qcID, id, scope, links)
	return err
}

func syncKind[T reconcile.Entity[T]](
	ctx context.Context,
	s *reconcile.Synchronizer[T],
	qcID, id int64,
	scope reconcile.Scope,
	incoming []T,
) (*reconcile.Outcome[T], error) {
	res, err := s.QC(ctx, qcID, scope, incoming)
	if err != nil {
		return nil, err
	}
	if _, err = s.Sync(ctx, id, res); err != nil {
		return nil, err
	}
	return res, nil
}

// resolveGenes converts gene references of a record to gene links and
// sets gene symbols as link texts of NCBI gene cross-references.
func (p *pass) resolveGenes(
	ctx context.Context,
	rec *variant.Record,
) ([]variant.GeneLink, error) {
	var res []variant.GeneLink
	seen := make(map[int64]struct{})
	for _, ref := range rec.Genes {
		gene, status, err := p.genes.resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		p.rc.Inc(status)
		if status != geneMatched {
			p.dataQuality(rec, "GENES_UNRESOLVED",
				geneError(rec.RCV, ref.NCBIGeneID+"/"+ref.Symbol, status))
			continue
		}
		if _, ok := seen[gene.ID]; ok {
			continue
		}
		seen[gene.ID] = struct{}{}
		res = append(res, variant.GeneLink{
			GeneID: gene.ID,
			Symbol: gene.Symbol,
			Source: rec.RCV,
		})
	}

	for i, x := range rec.Xrefs {
		if x.XdbKey != variant.XdbNCBIGene {
			continue
		}
		gene, status, err := p.genes.resolve(ctx, variant.GeneRef{NCBIGeneID: x.AccID})
		if err != nil {
			return nil, err
		}
		if status == geneMatched {
			rec.Xrefs[i].LinkText = gene.Symbol
		}
	}
	return res, nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func (p *pass) dataQuality(rec *variant.Record, counter string, err error) {
	p.rc.Inc(counter)
	slog.Warn("Data quality problem",
		"rcv", rec.RCV,
		"symbol", rec.Variant.Symbol,
		"error", err,
	)
}
