package schema_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tableNamer interface {
	TableName() string
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		model tableNamer
		name  string
	}{
		{schema.Variant{}, "variants"},
		{schema.Alias{}, "aliases"},
		{schema.XdbID{}, "xdb_ids"},
		{schema.HgvsName{}, "hgvs_names"},
		{schema.MapPosition{}, "map_positions"},
		{schema.Gene{}, "genes"},
		{schema.GeneAssociation{}, "gene_associations"},
		{schema.OntologyTerm{}, "ontology_terms"},
		{schema.TermSynonym{}, "term_synonyms"},
		{schema.TermDag{}, "term_dag"},
		{schema.Annotation{}, "annotations"},
	}

	for _, v := range tests {
		assert.Equal(t, v.name, v.model.TableName())
	}
}

func TestAllModels(t *testing.T) {
	models := schema.AllModels()
	assert.Len(t, models, 11)

	seen := make(map[string]bool)
	for _, m := range models {
		n, ok := m.(tableNamer)
		require.True(t, ok, "%T should have TableName", m)
		assert.False(t, seen[n.TableName()], "duplicate %s", n.TableName())
		seen[n.TableName()] = true
	}
}

func TestTables(t *testing.T) {
	tables := schema.Tables()
	require.Len(t, tables, 11)
	assert.Equal(t, "variants", tables[0])
	assert.Equal(t, "annotations", tables[len(tables)-1])
	assert.Less(t, slices.Index(tables, "genes"), slices.Index(tables, "gene_associations"))
	assert.Less(t, slices.Index(tables, "ontology_terms"), slices.Index(tables, "term_synonyms"))
}

func TestIndexStatements(t *testing.T) {
	stmts := schema.IndexStatements()
	require.NotEmpty(t, stmts)

	for _, s := range stmts {
		assert.Contains(t, s, "IF NOT EXISTS", "statements must be idempotent")
	}

	all := strings.Join(stmts, "\n")
	assert.Contains(t, all, "ON aliases (variant_id, lower(value))")
	assert.Contains(t, all, "ON xdb_ids (variant_id, xdb_key, acc_id)")
	assert.Contains(t, all, "ON annotations (created_by, last_modified)")
}
