package iosource

import (
	"context"
	"database/sql"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

// child walks one child table in recno order.
type child struct {
	table string
	rows  *sql.Rows
	recNo int
	done  bool
	// dest receives the columns after recno
	dest []any
	// apply adds the current row to a record
	apply func(*variant.Record)
}

func (c *child) next() error {
	if !c.rows.Next() {
		c.done = true
		return c.rows.Err()
	}
	return c.rows.Scan(append([]any{&c.recNo}, c.dest...)...)
}

// feed attaches all rows of the record and skips rows of records that
// do not exist.
func (c *child) feed(rec *variant.Record) error {
	for !c.done && c.recNo <= rec.RecNo {
		if c.recNo == rec.RecNo {
			c.apply(rec)
		}
		if err := c.next(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) openChildren(ctx context.Context) ([]*child, error) {
	var (
		value, typ, name, acc  string
		xdbKey                 int
		assembly, chr, strand  string
		accession              string
		start, stop            int64
		ncbiGeneID, geneSymbol string
	)

	children := []*child{
		{
			table: "record_aliases",
			dest:  []any{&value},
			apply: func(rec *variant.Record) {
				rec.AddAlias(clean(value))
			},
		},
		{
			table: "record_xrefs",
			dest:  []any{&xdbKey, &acc},
			apply: func(rec *variant.Record) {
				rec.AddXref(xdbKey, clean(acc))
			},
		},
		{
			table: "record_hgvs",
			dest:  []any{&typ, &name},
			apply: func(rec *variant.Record) {
				rec.AddName(clean(typ), clean(name))
			},
		},
		{
			table: "record_positions",
			dest:  []any{&assembly, &chr, &accession, &start, &stop, &strand},
			apply: func(rec *variant.Record) {
				if mk, _ := variant.MapKey(assembly); mk == variant.MapCytogenetic {
					rec.AddCytoPosition(clean(chr))
					return
				}
				err := rec.AddPosition(assembly, clean(chr), clean(accession),
					start, stop, strand)
				if err != nil {
					rec.Issues = append(rec.Issues, err)
				}
			},
		},
		{
			table: "record_genes",
			dest:  []any{&ncbiGeneID, &geneSymbol},
			apply: func(rec *variant.Record) {
				rec.AddGene(ncbiGeneID, clean(geneSymbol))
			},
		},
	}

	queries := map[string]string{
		"record_aliases": `SELECT recno, COALESCE(value, '')
		FROM record_aliases ORDER BY recno, rowid`,
		"record_xrefs": `SELECT recno, xdb_key, COALESCE(acc_id, '')
		FROM record_xrefs ORDER BY recno, rowid`,
		"record_hgvs": `SELECT recno, COALESCE(type, ''), COALESCE(name, '')
		FROM record_hgvs ORDER BY recno, rowid`,
		"record_positions": `SELECT recno, COALESCE(assembly, ''),
		COALESCE(chromosome, ''), COALESCE(accession, ''),
		COALESCE(start_pos, 0), COALESCE(stop_pos, 0), COALESCE(strand, '')
		FROM record_positions ORDER BY recno, rowid`,
		"record_genes": `SELECT recno, COALESCE(CAST(ncbi_gene_id AS TEXT), ''),
		COALESCE(symbol, '')
		FROM record_genes ORDER BY recno, rowid`,
	}

	res := make([]*child, 0, len(children))
	for _, c := range children {
		rows, err := r.db.QueryContext(ctx, queries[c.table])
		if err != nil {
			return res, ReadError(r.path, c.table, err)
		}
		c.rows = rows
		res = append(res, c)
		if err = c.next(); err != nil {
			return res, ReadError(r.path, c.table, err)
		}
	}
	return res, nil
}
