package iostore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

const variantColumns = `id, symbol, COALESCE(name, ''), COALESCE(object_type, ''),
	COALESCE(so_acc_id, ''), COALESCE(trait_name, ''),
	COALESCE(clinical_significance, ''), COALESCE(review_status, ''),
	COALESCE(submitter, ''), COALESCE(notes, ''), COALESCE(method_type, ''),
	COALESCE(prevalence, ''), COALESCE(age_of_onset, ''),
	COALESCE(molecular_consequence, ''), COALESCE(nucleotide_change, ''),
	last_evaluated`

func scanVariant(row pgx.CollectableRow) (variant.Variant, error) {
	var v variant.Variant
	err := row.Scan(
		&v.ID, &v.Symbol, &v.Name, &v.ObjectType, &v.SOAccID, &v.TraitName,
		&v.ClinicalSignificance, &v.ReviewStatus, &v.Submitter, &v.Notes,
		&v.MethodType, &v.Prevalence, &v.AgeOfOnset, &v.MolecularConsequence,
		&v.NucleotideChange, &v.LastEvaluated,
	)
	return v, err
}

// VariantBySymbol returns the variant with the given symbol, or nil if
// there is none. More than one variant with the same symbol is a
// constraint violation.
func (s *Store) VariantBySymbol(
	ctx context.Context,
	symbol string,
) (*variant.Variant, error) {
	q := "SELECT " + variantColumns + `
	FROM variants WHERE lower(symbol) = lower($1)`

	rows, err := s.pool.Query(ctx, q, symbol)
	if err != nil {
		return nil, ReadError("variants", err)
	}
	res, err := pgx.CollectRows(rows, scanVariant)
	if err != nil {
		return nil, ReadError("variants", err)
	}

	switch len(res) {
	case 0:
		return nil, nil
	case 1:
		return &res[0], nil
	default:
		return nil, ConstraintError(symbol, len(res))
	}
}

// InsertVariant creates a variant unless another variant with the same
// symbol appeared meanwhile. It returns the persisted variant and true if
// it was created. Lookup and insert run under one lock.
func (s *Store) InsertVariant(
	ctx context.Context,
	v variant.Variant,
) (*variant.Variant, bool, error) {
	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	old, err := s.VariantBySymbol(ctx, v.Symbol)
	if err != nil || old != nil {
		return old, false, err
	}

	q := `
INSERT INTO variants (
	symbol, name, object_type, so_acc_id, trait_name, clinical_significance,
	review_status, submitter, notes, method_type, prevalence, age_of_onset,
	molecular_consequence, nucleotide_change, last_evaluated,
	created_at, last_modified
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
	now(), now()
) RETURNING id`

	err = s.pool.QueryRow(ctx, q,
		v.Symbol, v.Name, v.ObjectType, v.SOAccID, v.TraitName,
		v.ClinicalSignificance, v.ReviewStatus, v.Submitter, v.Notes,
		v.MethodType, v.Prevalence, v.AgeOfOnset, v.MolecularConsequence,
		v.NucleotideChange, v.LastEvaluated,
	).Scan(&v.ID)
	if err != nil {
		return nil, false, WriteError("variants", err)
	}
	return &v, true, nil
}

// UpdateVariant writes scalar fields of a variant. Trait name, notes and
// submitter are not touched, they are written by buffer flushes at the
// end of a run.
func (s *Store) UpdateVariant(ctx context.Context, v variant.Variant) error {
	q := `
UPDATE variants SET
	name = $2, object_type = $3, so_acc_id = $4, clinical_significance = $5,
	review_status = $6, method_type = $7, prevalence = $8, age_of_onset = $9,
	molecular_consequence = $10, nucleotide_change = $11,
	last_evaluated = $12, last_modified = now()
WHERE id = $1`

	_, err := s.pool.Exec(ctx, q,
		v.ID, v.Name, v.ObjectType, v.SOAccID, v.ClinicalSignificance,
		v.ReviewStatus, v.MethodType, v.Prevalence, v.AgeOfOnset,
		v.MolecularConsequence, v.NucleotideChange, v.LastEvaluated,
	)
	if err != nil {
		return WriteError("variants", err)
	}
	return nil
}

// TouchVariant refreshes the last-modified date of a variant.
func (s *Store) TouchVariant(ctx context.Context, id int64) error {
	q := "UPDATE variants SET last_modified = now() WHERE id = $1"
	if _, err := s.pool.Exec(ctx, q, id); err != nil {
		return WriteError("variants", err)
	}
	return nil
}

func (s *Store) UpdateTraitName(ctx context.Context, id int64, val string) error {
	return s.updateText(ctx, "trait_name", id, val)
}

func (s *Store) UpdateNotes(ctx context.Context, id int64, val string) error {
	return s.updateText(ctx, "notes", id, val)
}

func (s *Store) UpdateSubmitter(ctx context.Context, id int64, val string) error {
	return s.updateText(ctx, "submitter", id, val)
}

// updateText sets one of the buffered text columns and touches the
// variant.
func (s *Store) updateText(
	ctx context.Context,
	column string,
	id int64,
	val string,
) error {
	q := "UPDATE variants SET " + column +
		" = $2, last_modified = now() WHERE id = $1"
	if _, err := s.pool.Exec(ctx, q, id, val); err != nil {
		return WriteError("variants", err)
	}
	return nil
}

// ActiveVariants returns variants of the given object types ordered by
// id.
func (s *Store) ActiveVariants(
	ctx context.Context,
	objectTypes []string,
) ([]variant.Variant, error) {
	q := "SELECT " + variantColumns + `
	FROM variants WHERE object_type = ANY($1) ORDER BY id`

	rows, err := s.pool.Query(ctx, q, objectTypes)
	if err != nil {
		return nil, ReadError("variants", err)
	}
	res, err := pgx.CollectRows(rows, scanVariant)
	if err != nil {
		return nil, ReadError("variants", err)
	}
	return res, nil
}

// XrefCount returns the number of cross-references owned by the
// pipeline.
func (s *Store) XrefCount(ctx context.Context) (int, error) {
	q := "SELECT count(*) FROM xdb_ids WHERE src_pipeline = $1"
	return s.count(ctx, "xdb_ids", q, s.source)
}

// StaleXrefs returns ids of pipeline cross-references not refreshed since
// the cutoff.
func (s *Store) StaleXrefs(ctx context.Context, cutoff time.Time) ([]int64, error) {
	q := `SELECT id FROM xdb_ids
	WHERE src_pipeline = $1 AND last_modified < $2 ORDER BY id`
	return s.ids(ctx, "xdb_ids", q, s.source, cutoff)
}

// DeleteXrefs removes cross-references by id.
func (s *Store) DeleteXrefs(ctx context.Context, ids []int64) (int64, error) {
	return s.deleteByID(ctx, "xdb_ids", ids)
}
