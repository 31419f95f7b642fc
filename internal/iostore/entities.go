package iostore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/reconcile"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

var (
	_ reconcile.Store[variant.Alias]        = Aliases{}
	_ reconcile.Store[variant.Xref]         = Xrefs{}
	_ reconcile.Toucher[variant.Xref]       = Xrefs{}
	_ reconcile.Store[variant.ExternalName] = Names{}
	_ reconcile.Store[variant.Position]     = Positions{}
	_ reconcile.Store[variant.GeneLink]     = GeneLinks{}
)

// Aliases returns the alias store.
func (s *Store) Aliases() Aliases { return Aliases{s} }

// Xrefs returns the store of cross-references owned by the pipeline.
func (s *Store) Xrefs() Xrefs { return Xrefs{s} }

// Names returns the HGVS name store.
func (s *Store) Names() Names { return Names{s} }

// Positions returns the map position store.
func (s *Store) Positions() Positions { return Positions{s} }

// GeneLinks returns the gene association store.
func (s *Store) GeneLinks() GeneLinks { return GeneLinks{s} }

type Aliases struct{ s *Store }

func (a Aliases) Fetch(ctx context.Context, variantID int64) ([]variant.Alias, error) {
	q := `SELECT id, type, value, COALESCE(rcv, '')
	FROM aliases WHERE variant_id = $1 ORDER BY id`
	rows, err := a.s.pool.Query(ctx, q, variantID)
	if err != nil {
		return nil, ReadError("aliases", err)
	}
	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (variant.Alias, error) {
			var v variant.Alias
			err := row.Scan(&v.ID, &v.Type, &v.Value, &v.Source)
			return v, err
		})
	if err != nil {
		return nil, ReadError("aliases", err)
	}
	return res, nil
}

func (a Aliases) Insert(ctx context.Context, variantID int64, items []variant.Alias) error {
	now := time.Now()
	rows := make([][]any, len(items))
	for i, v := range items {
		rows[i] = []any{variantID, v.Type, v.Value, v.Source, now, now}
	}
	cols := []string{
		"variant_id", "type", "value", "rcv", "created_at", "last_modified",
	}
	return a.s.copyFrom(ctx, "aliases", cols, rows)
}

func (a Aliases) Update(ctx context.Context, _ int64, changes []reconcile.Change[variant.Alias]) error {
	q := `UPDATE aliases SET type = $2, rcv = $3, last_modified = now()
	WHERE id = $1`
	for _, v := range changes {
		if _, err := a.s.pool.Exec(ctx, q, v.Old.ID, v.New.Type, v.New.Source); err != nil {
			return WriteError("aliases", err)
		}
	}
	return nil
}

func (a Aliases) Delete(ctx context.Context, _ int64, items []variant.Alias) error {
	_, err := a.s.deleteByID(ctx, "aliases", entityIDs(items, func(v variant.Alias) int64 { return v.ID }))
	return err
}

type Xrefs struct{ s *Store }

func (x Xrefs) Fetch(ctx context.Context, variantID int64) ([]variant.Xref, error) {
	q := `SELECT id, xdb_key, acc_id, COALESCE(link_text, ''), COALESCE(rcv, '')
	FROM xdb_ids WHERE variant_id = $1 AND src_pipeline = $2 ORDER BY id`
	rows, err := x.s.pool.Query(ctx, q, variantID, x.s.source)
	if err != nil {
		return nil, ReadError("xdb_ids", err)
	}
	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (variant.Xref, error) {
			var v variant.Xref
			err := row.Scan(&v.ID, &v.XdbKey, &v.AccID, &v.LinkText, &v.Source)
			return v, err
		})
	if err != nil {
		return nil, ReadError("xdb_ids", err)
	}
	return res, nil
}

func (x Xrefs) Insert(ctx context.Context, variantID int64, items []variant.Xref) error {
	now := time.Now()
	rows := make([][]any, len(items))
	for i, v := range items {
		rows[i] = []any{
			variantID, v.XdbKey, v.AccID, v.LinkText, v.Source, x.s.source,
			now, now,
		}
	}
	cols := []string{
		"variant_id", "xdb_key", "acc_id", "link_text", "rcv", "src_pipeline",
		"created_at", "last_modified",
	}
	return x.s.copyFrom(ctx, "xdb_ids", cols, rows)
}

func (x Xrefs) Update(ctx context.Context, _ int64, changes []reconcile.Change[variant.Xref]) error {
	q := `UPDATE xdb_ids SET link_text = $2, rcv = $3, last_modified = now()
	WHERE id = $1`
	for _, v := range changes {
		if _, err := x.s.pool.Exec(ctx, q, v.Old.ID, v.New.LinkText, v.New.Source); err != nil {
			return WriteError("xdb_ids", err)
		}
	}
	return nil
}

func (x Xrefs) Delete(ctx context.Context, _ int64, items []variant.Xref) error {
	_, err := x.s.deleteByID(ctx, "xdb_ids", entityIDs(items, func(v variant.Xref) int64 { return v.ID }))
	return err
}

// Touch refreshes the last-modified date of confirmed cross-references,
// so they are not removed as stale.
func (x Xrefs) Touch(ctx context.Context, items []variant.Xref) error {
	q := "UPDATE xdb_ids SET last_modified = now() WHERE id = ANY($1)"
	ids := entityIDs(items, func(v variant.Xref) int64 { return v.ID })
	if _, err := x.s.pool.Exec(ctx, q, ids); err != nil {
		return WriteError("xdb_ids", err)
	}
	return nil
}

type Names struct{ s *Store }

func (n Names) Fetch(ctx context.Context, variantID int64) ([]variant.ExternalName, error) {
	q := `SELECT id, type, name, COALESCE(rcv, '')
	FROM hgvs_names WHERE variant_id = $1 ORDER BY id`
	rows, err := n.s.pool.Query(ctx, q, variantID)
	if err != nil {
		return nil, ReadError("hgvs_names", err)
	}
	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (variant.ExternalName, error) {
			var v variant.ExternalName
			err := row.Scan(&v.ID, &v.Type, &v.Name, &v.Source)
			return v, err
		})
	if err != nil {
		return nil, ReadError("hgvs_names", err)
	}
	return res, nil
}

func (n Names) Insert(ctx context.Context, variantID int64, items []variant.ExternalName) error {
	now := time.Now()
	rows := make([][]any, len(items))
	for i, v := range items {
		rows[i] = []any{variantID, v.Type, v.Name, v.Source, now, now}
	}
	cols := []string{
		"variant_id", "type", "name", "rcv", "created_at", "last_modified",
	}
	return n.s.copyFrom(ctx, "hgvs_names", cols, rows)
}

func (n Names) Update(ctx context.Context, _ int64, changes []reconcile.Change[variant.ExternalName]) error {
	q := "UPDATE hgvs_names SET rcv = $2, last_modified = now() WHERE id = $1"
	for _, v := range changes {
		if _, err := n.s.pool.Exec(ctx, q, v.Old.ID, v.New.Source); err != nil {
			return WriteError("hgvs_names", err)
		}
	}
	return nil
}

func (n Names) Delete(ctx context.Context, _ int64, items []variant.ExternalName) error {
	_, err := n.s.deleteByID(ctx, "hgvs_names", entityIDs(items, func(v variant.ExternalName) int64 { return v.ID }))
	return err
}

type Positions struct{ s *Store }

func (p Positions) Fetch(ctx context.Context, variantID int64) ([]variant.Position, error) {
	q := `SELECT id, map_key, chromosome, COALESCE(start_pos, 0),
	COALESCE(stop_pos, 0), COALESCE(strand, ''), COALESCE(fish_band, ''),
	COALESCE(notes, ''), COALESCE(rcv, '')
	FROM map_positions WHERE variant_id = $1 ORDER BY id`
	rows, err := p.s.pool.Query(ctx, q, variantID)
	if err != nil {
		return nil, ReadError("map_positions", err)
	}
	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (variant.Position, error) {
			var v variant.Position
			err := row.Scan(&v.ID, &v.MapKey, &v.Chromosome, &v.Start, &v.Stop,
				&v.Strand, &v.FishBand, &v.Notes, &v.Source)
			return v, err
		})
	if err != nil {
		return nil, ReadError("map_positions", err)
	}
	return res, nil
}

func (p Positions) Insert(ctx context.Context, variantID int64, items []variant.Position) error {
	now := time.Now()
	rows := make([][]any, len(items))
	for i, v := range items {
		rows[i] = []any{
			variantID, v.MapKey, v.Chromosome, v.Start, v.Stop, v.Strand,
			v.FishBand, v.Notes, v.Source, now, now,
		}
	}
	cols := []string{
		"variant_id", "map_key", "chromosome", "start_pos", "stop_pos",
		"strand", "fish_band", "notes", "rcv", "created_at", "last_modified",
	}
	return p.s.copyFrom(ctx, "map_positions", cols, rows)
}

func (p Positions) Update(ctx context.Context, _ int64, changes []reconcile.Change[variant.Position]) error {
	q := `UPDATE map_positions SET strand = $2, notes = $3, rcv = $4,
	last_modified = now() WHERE id = $1`
	for _, v := range changes {
		_, err := p.s.pool.Exec(ctx, q, v.Old.ID, v.New.Strand, v.New.Notes, v.New.Source)
		if err != nil {
			return WriteError("map_positions", err)
		}
	}
	return nil
}

func (p Positions) Delete(ctx context.Context, _ int64, items []variant.Position) error {
	_, err := p.s.deleteByID(ctx, "map_positions", entityIDs(items, func(v variant.Position) int64 { return v.ID }))
	return err
}

type GeneLinks struct{ s *Store }

func (g GeneLinks) Fetch(ctx context.Context, variantID int64) ([]variant.GeneLink, error) {
	q := `SELECT ga.id, ga.gene_id, g.symbol, COALESCE(ga.rcv, '')
	FROM gene_associations ga
		JOIN genes g ON g.id = ga.gene_id
	WHERE ga.variant_id = $1 ORDER BY ga.id`
	rows, err := g.s.pool.Query(ctx, q, variantID)
	if err != nil {
		return nil, ReadError("gene_associations", err)
	}
	res, err := pgx.CollectRows(rows,
		func(row pgx.CollectableRow) (variant.GeneLink, error) {
			var v variant.GeneLink
			err := row.Scan(&v.ID, &v.GeneID, &v.Symbol, &v.Source)
			return v, err
		})
	if err != nil {
		return nil, ReadError("gene_associations", err)
	}
	return res, nil
}

func (g GeneLinks) Insert(ctx context.Context, variantID int64, items []variant.GeneLink) error {
	now := time.Now()
	rows := make([][]any, len(items))
	for i, v := range items {
		rows[i] = []any{variantID, v.GeneID, v.Source, now}
	}
	cols := []string{"variant_id", "gene_id", "rcv", "created_at"}
	return g.s.copyFrom(ctx, "gene_associations", cols, rows)
}

func (g GeneLinks) Update(ctx context.Context, _ int64, changes []reconcile.Change[variant.GeneLink]) error {
	q := "UPDATE gene_associations SET rcv = $2 WHERE id = $1"
	for _, v := range changes {
		if _, err := g.s.pool.Exec(ctx, q, v.Old.ID, v.New.Source); err != nil {
			return WriteError("gene_associations", err)
		}
	}
	return nil
}

func (g GeneLinks) Delete(ctx context.Context, _ int64, items []variant.GeneLink) error {
	_, err := g.s.deleteByID(ctx, "gene_associations", entityIDs(items, func(v variant.GeneLink) int64 { return v.ID }))
	return err
}

func (s *Store) copyFrom(
	ctx context.Context,
	table string,
	cols []string,
	rows [][]any,
) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := s.pool.CopyFrom(
		ctx,
		pgx.Identifier{table},
		cols,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return WriteError(table, err)
	}
	return nil
}

func entityIDs[T any](items []T, id func(T) int64) []int64 {
	res := make([]int64, len(items))
	for i, v := range items {
		res[i] = id(v)
	}
	return res
}
