package iostore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/terms"
)

var _ terms.Store = (*Store)(nil)

// ActiveTerms returns terms of an ontology that are not obsolete.
func (s *Store) ActiveTerms(ctx context.Context, ontologyID string) ([]terms.Term, error) {
	q := `SELECT acc, name, ontology_id FROM ontology_terms
	WHERE ontology_id = $1 AND NOT is_obsolete ORDER BY acc`
	rows, err := s.pool.Query(ctx, q, ontologyID)
	if err != nil {
		return nil, ReadError("ontology_terms", err)
	}
	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (terms.Term, error) {
			var t terms.Term
			err := row.Scan(&t.Acc, &t.Name, &t.OntologyID)
			return t, err
		})
	if err != nil {
		return nil, ReadError("ontology_terms", err)
	}
	return res, nil
}

// ActiveSynonyms returns synonyms of active terms of an ontology.
func (s *Store) ActiveSynonyms(ctx context.Context, ontologyID string) ([]terms.Synonym, error) {
	q := `SELECT s.term_acc, s.name, s.type
	FROM term_synonyms s
		JOIN ontology_terms t ON t.acc = s.term_acc
	WHERE t.ontology_id = $1 AND NOT t.is_obsolete
	ORDER BY s.term_acc, s.id`
	rows, err := s.pool.Query(ctx, q, ontologyID)
	if err != nil {
		return nil, ReadError("term_synonyms", err)
	}
	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (terms.Synonym, error) {
			var syn terms.Synonym
			err := row.Scan(&syn.TermAcc, &syn.Name, &syn.Type)
			return syn, err
		})
	if err != nil {
		return nil, ReadError("term_synonyms", err)
	}
	return res, nil
}

// IsDescendantOf walks the ontology graph up from acc.
func (s *Store) IsDescendantOf(ctx context.Context, acc, ancestorAcc string) (bool, error) {
	q := `
WITH RECURSIVE ancestors(acc) AS (
	SELECT parent_acc FROM term_dag WHERE child_acc = $1
	UNION
	SELECT d.parent_acc FROM term_dag d
		JOIN ancestors a ON d.child_acc = a.acc
)
SELECT EXISTS (SELECT 1 FROM ancestors WHERE acc = $2)`

	var res bool
	if err := s.pool.QueryRow(ctx, q, acc, ancestorAcc).Scan(&res); err != nil {
		return false, ReadError("term_dag", err)
	}
	return res, nil
}

// TermStats returns the number of parents and children of a term and
// its annotation count. An unknown term has empty statistics.
func (s *Store) TermStats(ctx context.Context, acc string) (terms.Stats, error) {
	q := `
SELECT t.acc,
	(SELECT count(*) FROM term_dag WHERE child_acc = t.acc),
	(SELECT count(*) FROM term_dag WHERE parent_acc = t.acc),
	t.annot_count
FROM ontology_terms t WHERE t.acc = $1`

	res := terms.Stats{Acc: acc}
	err := s.pool.QueryRow(ctx, q, acc).Scan(
		&res.Acc, &res.ParentCount, &res.ChildCount, &res.AnnotCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return terms.Stats{Acc: acc}, nil
	}
	if err != nil {
		return res, ReadError("ontology_terms", err)
	}
	return res, nil
}
