package iostore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

const geneColumns = `g.id, g.symbol, COALESCE(g.name, ''),
	COALESCE(g.ncbi_gene_id, '')`

func scanGene(row pgx.CollectableRow) (variant.Gene, error) {
	var g variant.Gene
	err := row.Scan(&g.ID, &g.Symbol, &g.Name, &g.NCBIGeneID)
	return g, err
}

// GenesByNCBIID returns genes with the given NCBI gene id.
func (s *Store) GenesByNCBIID(ctx context.Context, id string) ([]variant.Gene, error) {
	q := "SELECT " + geneColumns + " FROM genes g WHERE g.ncbi_gene_id = $1"
	return s.genes(ctx, q, id)
}

// GenesBySymbol returns genes with the given symbol, ignoring case.
func (s *Store) GenesBySymbol(ctx context.Context, symbol string) ([]variant.Gene, error) {
	q := "SELECT " + geneColumns +
		" FROM genes g WHERE lower(g.symbol) = lower($1) ORDER BY g.id"
	return s.genes(ctx, q, symbol)
}

// AssociatedGenes returns genes associated with a variant.
func (s *Store) AssociatedGenes(ctx context.Context, variantID int64) ([]variant.Gene, error) {
	q := "SELECT " + geneColumns + `
	FROM gene_associations ga
		JOIN genes g ON g.id = ga.gene_id
	WHERE ga.variant_id = $1 ORDER BY g.id`
	return s.genes(ctx, q, variantID)
}

func (s *Store) genes(ctx context.Context, q string, arg any) ([]variant.Gene, error) {
	rows, err := s.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, ReadError("genes", err)
	}
	res, err := pgx.CollectRows(rows, scanGene)
	if err != nil {
		return nil, ReadError("genes", err)
	}
	return res, nil
}

// XrefAccessions returns accessions of a variant's cross-references to
// one database.
func (s *Store) XrefAccessions(
	ctx context.Context,
	variantID int64,
	xdbKey int,
) ([]string, error) {
	q := `SELECT acc_id FROM xdb_ids
	WHERE variant_id = $1 AND xdb_key = $2 ORDER BY acc_id`
	rows, err := s.pool.Query(ctx, q, variantID, xdbKey)
	if err != nil {
		return nil, ReadError("xdb_ids", err)
	}
	res, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, ReadError("xdb_ids", err)
	}
	return res, nil
}

// AliasValues returns alias values of a variant.
func (s *Store) AliasValues(ctx context.Context, variantID int64) ([]string, error) {
	q := "SELECT value FROM aliases WHERE variant_id = $1 ORDER BY id"
	rows, err := s.pool.Query(ctx, q, variantID)
	if err != nil {
		return nil, ReadError("aliases", err)
	}
	res, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, ReadError("aliases", err)
	}
	return res, nil
}
