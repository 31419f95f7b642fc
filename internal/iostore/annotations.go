package iostore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/annot"
)

var _ annot.Store = (*Store)(nil)

const annotColumns = `annot_key, object_kind, object_id,
	COALESCE(object_symbol, ''), term_acc, COALESCE(term, ''), aspect,
	evidence, data_source, ref_id, created_by, qualifier, with_info,
	xref_source, COALESCE(notes, ''), COALESCE(extension, ''),
	COALESCE(gene_product_form, '')`

// AnnotationKey finds an annotation by its natural key.
func (s *Store) AnnotationKey(ctx context.Context, a annot.Annotation) (int64, error) {
	q := `
SELECT annot_key FROM annotations
WHERE object_id = $1 AND object_kind = $2 AND term_acc = $3
	AND data_source = $4 AND evidence = $5 AND ref_id = $6
	AND created_by = $7 AND qualifier = $8 AND with_info = $9
	AND xref_source = $10
LIMIT 1`

	var key int64
	err := s.pool.QueryRow(ctx, q,
		a.SubjectID, a.SubjectKind, a.TermAcc, a.DataSource, a.Evidence,
		a.RefID, a.CreatedBy, a.Qualifier, a.WithInfo, a.XrefSource,
	).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, ReadError("annotations", err)
	}
	return key, nil
}

// Annotation returns an annotation by its key.
func (s *Store) Annotation(ctx context.Context, key int64) (annot.Annotation, error) {
	q := "SELECT " + annotColumns + " FROM annotations WHERE annot_key = $1"

	var a annot.Annotation
	err := s.pool.QueryRow(ctx, q, key).Scan(
		&a.Key, &a.SubjectKind, &a.SubjectID, &a.SubjectSymbol, &a.TermAcc,
		&a.Term, &a.Aspect, &a.Evidence, &a.DataSource, &a.RefID,
		&a.CreatedBy, &a.Qualifier, &a.WithInfo, &a.XrefSource, &a.Notes,
		&a.Extension, &a.GeneProductForm,
	)
	if err != nil {
		return a, ReadError("annotations", err)
	}
	return a, nil
}

func (s *Store) InsertAnnotation(ctx context.Context, a annot.Annotation) (int64, error) {
	q := `
INSERT INTO annotations (
	object_kind, object_id, object_symbol, term_acc, term, aspect, evidence,
	data_source, ref_id, created_by, qualifier, with_info, xref_source,
	notes, extension, gene_product_form, created_at, last_modified
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
	now(), now()
) RETURNING annot_key`

	var key int64
	err := s.pool.QueryRow(ctx, q,
		a.SubjectKind, a.SubjectID, a.SubjectSymbol, a.TermAcc, a.Term,
		a.Aspect, a.Evidence, a.DataSource, a.RefID, a.CreatedBy,
		a.Qualifier, a.WithInfo, a.XrefSource, a.Notes, a.Extension,
		a.GeneProductForm,
	).Scan(&key)
	if err != nil {
		return 0, WriteError("annotations", err)
	}
	return key, nil
}

// UpdateAnnotation writes fields of an annotation outside of its natural
// key.
func (s *Store) UpdateAnnotation(ctx context.Context, a annot.Annotation) error {
	q := `
UPDATE annotations SET
	notes = $2, extension = $3, gene_product_form = $4, term = $5,
	object_symbol = $6, last_modified = now()
WHERE annot_key = $1`

	_, err := s.pool.Exec(ctx, q,
		a.Key, a.Notes, a.Extension, a.GeneProductForm, a.Term,
		a.SubjectSymbol,
	)
	if err != nil {
		return WriteError("annotations", err)
	}
	return nil
}

func (s *Store) TouchAnnotations(ctx context.Context, keys []int64) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	q := `UPDATE annotations SET last_modified = now()
	WHERE annot_key = ANY($1)`
	tag, err := s.pool.Exec(ctx, q, keys)
	if err != nil {
		return 0, WriteError("annotations", err)
	}
	return tag.RowsAffected(), nil
}

// AnnotationCount returns the number of annotations created by a curator.
func (s *Store) AnnotationCount(ctx context.Context, createdBy int) (int, error) {
	q := "SELECT count(*) FROM annotations WHERE created_by = $1"
	return s.count(ctx, "annotations", q, createdBy)
}

// StaleAnnotations returns keys of a curator's annotations not refreshed
// since the cutoff.
func (s *Store) StaleAnnotations(
	ctx context.Context,
	createdBy int,
	cutoff time.Time,
) ([]int64, error) {
	q := `SELECT annot_key FROM annotations
	WHERE created_by = $1 AND last_modified < $2 ORDER BY annot_key`
	return s.ids(ctx, "annotations", q, createdBy, cutoff)
}

// DeleteAnnotations removes annotations by key.
func (s *Store) DeleteAnnotations(ctx context.Context, keys []int64) (int64, error) {
	return s.deleteByID(ctx, "annotations", keys)
}
