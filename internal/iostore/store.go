// Package iostore implements persistence ports of the pipeline on top of
// PostgreSQL. Every query goes through db.Pool, so tests can replace the
// connection pool with pgxmock.
package iostore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/config"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/db"
)

// Store gives access to variants, their sub-entities, genes, ontology
// terms and annotations.
type Store struct {
	pool db.Pool

	// source tags cross-references owned by the pipeline.
	source    string
	batchSize int

	// insertMu serializes creation of new variants.
	insertMu sync.Mutex
}

// New creates a Store. The batch size limits the number of keys sent by
// one bulk statement.
func New(pool db.Pool, batchSize int) *Store {
	if batchSize < 1 {
		batchSize = 1000
	}
	return &Store{
		pool:      pool,
		source:    config.SourcePipeline,
		batchSize: batchSize,
	}
}

// Now returns the clock of the database server. The last_modified stamps
// are written by now(), so stale cutoffs are taken from the same clock.
func (s *Store) Now(ctx context.Context) (time.Time, error) {
	var res time.Time
	if err := s.pool.QueryRow(ctx, "SELECT now()").Scan(&res); err != nil {
		return time.Time{}, ReadError("now()", err)
	}
	return res, nil
}

// deleteByID removes rows with the given ids in batches and returns the
// number of removed rows.
func (s *Store) deleteByID(
	ctx context.Context,
	table string,
	ids []int64,
) (int64, error) {
	q := "DELETE FROM " + table + " WHERE id = ANY($1)"
	if table == "annotations" {
		q = "DELETE FROM annotations WHERE annot_key = ANY($1)"
	}

	var res int64
	for chunk := range slices.Chunk(ids, s.batchSize) {
		tag, err := s.pool.Exec(ctx, q, chunk)
		if err != nil {
			return res, WriteError(table, err)
		}
		res += tag.RowsAffected()
	}
	return res, nil
}

// count runs a query returning a single number.
func (s *Store) count(
	ctx context.Context,
	table, q string,
	args ...any,
) (int, error) {
	var res int
	if err := s.pool.QueryRow(ctx, q, args...).Scan(&res); err != nil {
		return 0, ReadError(table, err)
	}
	return res, nil
}

// ids runs a query returning a column of keys.
func (s *Store) ids(
	ctx context.Context,
	table, q string,
	args ...any,
) ([]int64, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, ReadError(table, err)
	}
	res, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, ReadError(table, err)
	}
	return res, nil
}
