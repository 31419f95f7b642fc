package iosource_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/internal/iosource"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var stagingDDL = []string{
	`CREATE TABLE records (
		recno INTEGER, symbol TEXT, rcv TEXT, name TEXT, object_type TEXT,
		so_acc_id TEXT, trait_name TEXT, clinical_significance TEXT,
		review_status TEXT, submitter TEXT, notes TEXT, method_type TEXT,
		prevalence TEXT, age_of_onset TEXT, molecular_consequence TEXT,
		nucleotide_change TEXT, last_evaluated TEXT)`,
	`CREATE TABLE record_aliases (recno INTEGER, value TEXT)`,
	`CREATE TABLE record_xrefs (recno INTEGER, xdb_key INTEGER, acc_id TEXT)`,
	`CREATE TABLE record_hgvs (recno INTEGER, type TEXT, name TEXT)`,
	`CREATE TABLE record_positions (recno INTEGER, assembly TEXT,
		chromosome TEXT, accession TEXT, start_pos INTEGER, stop_pos INTEGER,
		strand TEXT)`,
	`CREATE TABLE record_genes (recno INTEGER, ncbi_gene_id TEXT, symbol TEXT)`,
}

var stagingData = []string{
	`INSERT INTO records VALUES
		(1, 'CV1', 'RCV000001', 'c.5350G>A', 'single nucleotide variant',
		 'SO:0001483', 'Brugada syndrome [RCV000001]', 'pathogenic',
		 'no assertion', 'GeneDx', NULL, 'clinical testing', '', '', '',
		 'c.5350G>A', '2024-03-15'),
		(2, 'CV2', 'RCV000002', 'c.1del', 'deletion', '', 'Long QT [RCV000002]',
		 'benign', '', '', '', '', '', '', '', '', 'March 2024'),
		(3, 'CV3', 'RCV000003', 'c.2dup', 'duplication', '', '', '', '', '',
		 '', '', '', '', '', '', NULL)`,
	`INSERT INTO record_aliases VALUES
		(1, 'R1784H'), (1, 'r1784h'), (1, 'not provided'),
		(1, 'Brugada syndrome'), (3, 'p.Gly2dup')`,
	`INSERT INTO record_xrefs VALUES
		(1, 2, 'PMID 12345'), (1, 48, '137854617'), (7, 48, '1')`,
	`INSERT INTO record_hgvs VALUES (2, 'coding', 'NM_1:c.1del')`,
	`INSERT INTO record_positions VALUES
		(1, 'GRCh38', '3', 'NC_000003.12', 38592567, 38592560, '-'),
		(1, 'cytogenetic', '3p22.2', '', NULL, NULL, NULL),
		(2, 'hg19', '7', '', 1, 2, '+')`,
	`INSERT INTO record_genes VALUES (1, '6331', 'SCN5A'), (3, '', 'X')`,
}

func stagedFile(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "staged.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, v := range append(stagingDDL, stagingData...) {
		_, err = db.Exec(v)
		require.NoError(t, err, v)
	}
	return path
}

func TestRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping SQLite test in short mode")
	}
	ctx := context.Background()
	r, err := iosource.Open(stagedFile(t))
	require.NoError(t, err)
	defer r.Close()

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ch := make(chan *variant.Record)
	var recs []*variant.Record
	done := make(chan struct{})
	go func() {
		for rec := range ch {
			recs = append(recs, rec)
		}
		close(done)
	}()
	require.NoError(t, r.Records(ctx, ch))
	<-done
	require.Len(t, recs, 3)

	rec := recs[0]
	assert.Equal(t, "RCV000001", rec.RCV)
	assert.Equal(t, "CV1", rec.Variant.Symbol)
	require.NotNil(t, rec.Variant.LastEvaluated)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		*rec.Variant.LastEvaluated)
	// duplicates, "not provided" and the trait name are skipped
	require.Len(t, rec.Aliases, 1)
	assert.Equal(t, "R1784H", rec.Aliases[0].Value)
	assert.Equal(t, []string{"12345"}, rec.PubMedIDs())
	require.Len(t, rec.Positions, 2)
	assert.Equal(t, int64(38592560), rec.Positions[0].Start)
	assert.Equal(t, "NC_000003.12", rec.Positions[0].Notes)
	assert.Equal(t, variant.MapCytogenetic, rec.Positions[1].MapKey)
	assert.Equal(t, "3p22.2", rec.Positions[1].FishBand)
	assert.Equal(t, []variant.GeneRef{{NCBIGeneID: "6331", Symbol: "SCN5A"}},
		rec.Genes)
	assert.Empty(t, rec.Issues)

	rec = recs[1]
	assert.Nil(t, rec.Variant.LastEvaluated)
	require.Len(t, rec.Names, 1)
	assert.Empty(t, rec.Positions)
	// malformed date and unknown assembly
	require.Len(t, rec.Issues, 2)
	for _, v := range rec.Issues {
		var gnErr *gn.Error
		require.ErrorAs(t, v, &gnErr)
		assert.Equal(t, errcode.DataQualityError, gnErr.Code)
	}

	rec = recs[2]
	assert.Len(t, rec.Aliases, 1)
	assert.Empty(t, rec.Genes)
	assert.Empty(t, rec.Xrefs)
}

func TestOpenErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping SQLite test in short mode")
	}
	dir := t.TempDir()

	_, err := iosource.Open(filepath.Join(dir, "missing.sqlite"))
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.SourceOpenError, gnErr.Code)

	path := filepath.Join(dir, "empty.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE other (id INTEGER)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = iosource.Open(path)
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.SourceOpenError, gnErr.Code)
}
