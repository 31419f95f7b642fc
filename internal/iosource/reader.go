// Package iosource reads staged ClinVar records from a SQLite file
// created by the ClinVar XML parser.
//
// Every record is a row of the records table. Its sub-entities live in
// child tables keyed by recno. All tables are read in recno order, child
// rows are attached to their record by a merge join, so a whole file is
// streamed without keeping it in memory.
package iosource

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gnames/gnlib"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
	_ "modernc.org/sqlite"
)

// Reader streams staged records.
type Reader struct {
	path string
	db   *sql.DB
}

// Open opens a staged-record file.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, OpenError(path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError(path, err)
	}

	var n int
	q := `SELECT count(*) FROM sqlite_master
	WHERE type = 'table' AND name = 'records'`
	if err = db.QueryRow(q).Scan(&n); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}
	if n == 0 {
		db.Close()
		return nil, OpenError(path, errors.New("table records is missing"))
	}
	return &Reader{path: path, db: db}, nil
}

// Close releases the file.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Count returns the number of staged records.
func (r *Reader) Count(ctx context.Context) (int, error) {
	var res int
	err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM records").Scan(&res)
	if err != nil {
		return 0, ReadError(r.path, "records", err)
	}
	return res, nil
}

// Records sends staged records to chOut in recno order and closes the
// channel when done.
func (r *Reader) Records(ctx context.Context, chOut chan<- *variant.Record) error {
	defer close(chOut)

	q := `
SELECT recno, COALESCE(symbol, ''), COALESCE(rcv, ''), COALESCE(name, ''),
	COALESCE(object_type, ''), COALESCE(so_acc_id, ''),
	COALESCE(trait_name, ''), COALESCE(clinical_significance, ''),
	COALESCE(review_status, ''), COALESCE(submitter, ''),
	COALESCE(notes, ''), COALESCE(method_type, ''),
	COALESCE(prevalence, ''), COALESCE(age_of_onset, ''),
	COALESCE(molecular_consequence, ''), COALESCE(nucleotide_change, ''),
	COALESCE(last_evaluated, '')
FROM records ORDER BY recno`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return ReadError(r.path, "records", err)
	}
	defer rows.Close()

	children, err := r.openChildren(ctx)
	defer func() {
		for _, c := range children {
			c.rows.Close()
		}
	}()
	if err != nil {
		return err
	}

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return ReadError(r.path, "records", err)
		}
		for _, c := range children {
			if err = c.feed(rec); err != nil {
				return ReadError(r.path, c.table, err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case chOut <- rec:
		}
	}
	if err = rows.Err(); err != nil {
		return ReadError(r.path, "records", err)
	}
	return nil
}

func scanRecord(rows *sql.Rows) (*variant.Record, error) {
	var recNo int
	var rcv, date string
	var v variant.Variant
	err := rows.Scan(
		&recNo, &v.Symbol, &rcv, &v.Name, &v.ObjectType, &v.SOAccID,
		&v.TraitName, &v.ClinicalSignificance, &v.ReviewStatus,
		&v.Submitter, &v.Notes, &v.MethodType, &v.Prevalence,
		&v.AgeOfOnset, &v.MolecularConsequence, &v.NucleotideChange, &date,
	)
	if err != nil {
		return nil, err
	}

	fields := []*string{
		&v.Symbol, &v.Name, &v.ObjectType, &v.SOAccID, &v.TraitName,
		&v.ClinicalSignificance, &v.ReviewStatus, &v.Submitter, &v.Notes,
		&v.MethodType, &v.Prevalence, &v.AgeOfOnset, &v.MolecularConsequence,
		&v.NucleotideChange,
	}
	for _, f := range fields {
		*f = clean(*f)
	}

	rec := variant.New(recNo, clean(rcv), v)
	if date = strings.TrimSpace(date); date != "" {
		d, err := time.Parse(time.DateOnly, date)
		if err != nil {
			rec.Issues = append(rec.Issues, dateError(rec.RCV, date, err))
		} else {
			rec.Variant.LastEvaluated = &d
		}
	}
	return rec, nil
}

func clean(s string) string {
	return strings.TrimSpace(gnlib.FixUtf8(s))
}
