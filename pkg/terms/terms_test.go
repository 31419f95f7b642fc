package terms_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/terms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ontologyStore struct {
	terms    []terms.Term
	synonyms []terms.Synonym
	// parents maps a term to its direct parents
	parents map[string][]string
	stats   map[string]terms.Stats
	calls   atomic.Int32
	fail    bool
}

func (s *ontologyStore) ActiveTerms(context.Context, string) ([]terms.Term, error) {
	s.calls.Add(1)
	if s.fail {
		return nil, errors.New("no connection")
	}
	return s.terms, nil
}

func (s *ontologyStore) ActiveSynonyms(context.Context, string) ([]terms.Synonym, error) {
	return s.synonyms, nil
}

func (s *ontologyStore) IsDescendantOf(_ context.Context, acc, ancestor string) (bool, error) {
	for _, p := range s.parents[acc] {
		if p == ancestor {
			return true, nil
		}
		if ok, _ := s.IsDescendantOf(context.Background(), p, ancestor); ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *ontologyStore) TermStats(_ context.Context, acc string) (terms.Stats, error) {
	return s.stats[acc], nil
}

func newStore() *ontologyStore {
	return &ontologyStore{
		terms: []terms.Term{
			{Acc: "DOID:1", Name: "Brugada syndrome"},
			{Acc: "DOID:2", Name: "Romano-Ward syndrome"},
			{Acc: "DOID:3", Name: "cardiac arrhythmia"},
			{Acc: "DOID:5", Name: "Timothy syndrome"},
			{Acc: "DOID:6", Name: "syndrome, Timothy"},
			{Acc: "DOID:7", Name: "cardiac conduction disease"},
		},
		synonyms: []terms.Synonym{
			{TermAcc: "DOID:1", Name: "heart rhythm disorder", Type: "exact_synonym"},
			{TermAcc: "DOID:2", Name: "heart rhythm disorder", Type: "exact_synonym"},
			{TermAcc: "DOID:3", Name: "QT disorder", Type: "related_synonym"},
			{TermAcc: "DOID:2", Name: "QT disorder", Type: "exact_synonym"},
			{TermAcc: "DOID:2", Name: "Brugada syndrome", Type: terms.NarrowSynonym},
			{TermAcc: "DOID:3", Name: "conduction disorder", Type: "exact_synonym"},
			{TermAcc: "DOID:7", Name: "conduction disorder", Type: "exact_synonym"},
			{TermAcc: "DOID:99", Name: "obsolete thing", Type: "exact_synonym"},
		},
		parents: map[string][]string{
			"DOID:2": {"DOID:3"},
			"DOID:7": {"DOID:8"},
			"DOID:8": {"DOID:3"},
		},
		stats: map[string]terms.Stats{
			"DOID:1": {AnnotCount: 5, ChildCount: 1, ParentCount: 1},
			"DOID:2": {AnnotCount: 10, ChildCount: 0, ParentCount: 1},
			"DOID:3": {AnnotCount: 50, ChildCount: 4, ParentCount: 1},
			"DOID:5": {AnnotCount: 3, ChildCount: 0, ParentCount: 1},
			"DOID:6": {AnnotCount: 3, ChildCount: 2, ParentCount: 1},
			"DOID:7": {AnnotCount: 70, ChildCount: 0, ParentCount: 1},
		},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		msg  string
		name string
		res  string
	}{
		{"sorted words", "Brugada Syndrome 3", "3.brugada.syndrome"},
		{"punctuation", "Syndrome, Brugada (type 3)", "3.brugada.syndrome.type"},
		{"slash and dash", "HIV-1/AIDS", "1.aids.hiv"},
		{"cell compound",
			"T Cell-Negative B Cell-Positive NK Cell-Negative SCID",
			"bcellpositive.nkcellnegative.scid.tcellnegative"},
		{"extra spaces", "  long   QT ", "long.qt"},
		{"empty", "", ""},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, terms.Normalize(v.name), v.msg)
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		msg    string
		a, b   terms.Stats
		higher bool
	}{
		{"more annotations",
			terms.Stats{Acc: "A", AnnotCount: 2}, terms.Stats{Acc: "B", AnnotCount: 1}, true},
		{"more children",
			terms.Stats{Acc: "A", ChildCount: 1}, terms.Stats{Acc: "B", ChildCount: 2}, false},
		{"fewer parents",
			terms.Stats{Acc: "A", ParentCount: 1}, terms.Stats{Acc: "B", ParentCount: 2}, true},
		{"accession tie break",
			terms.Stats{Acc: "B"}, terms.Stats{Acc: "A"}, false},
	}

	for _, v := range tests {
		assert.Equal(t, v.higher, terms.Rank(v.a, v.b) > 0, v.msg)
	}
}

func TestLookupSeparateBranches(t *testing.T) {
	m := terms.NewMatcher(newStore())
	res, err := m.Lookup(context.Background(), "RDO", "Heart rhythm disorder")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOID:1", "DOID:2"}, res)
}

func TestLookupSameBranch(t *testing.T) {
	ctx := context.Background()
	m := terms.NewMatcher(newStore())

	// DOID:2 is a child of DOID:3, the better annotated parent wins
	res, err := m.Lookup(ctx, "RDO", "disorder QT")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOID:3"}, res)

	// DOID:7 is a grandchild of DOID:3 with more annotations
	res, err = m.Lookup(ctx, "RDO", "conduction disorder")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOID:7"}, res)
}

func TestLookupNarrowSynonym(t *testing.T) {
	m := terms.NewMatcher(newStore())
	res, err := m.Lookup(context.Background(), "RDO", "brugada syndrome")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOID:1"}, res)
}

func TestLookupDuplicateTerms(t *testing.T) {
	ctx := context.Background()
	m := terms.NewMatcher(newStore())
	res, err := m.Lookup(ctx, "RDO", "Timothy Syndrome")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOID:6"}, res)

	res, err = m.Lookup(ctx, "RDO", "unknown disease")
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = m.Lookup(ctx, "RDO", "obsolete thing")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestDuplicates(t *testing.T) {
	m := terms.NewMatcher(newStore())
	dups, err := m.Duplicates(context.Background(), "RDO")
	require.NoError(t, err)

	var rank, branches int
	for _, v := range dups {
		switch v.Resolution {
		case terms.ByRank:
			rank++
		case terms.ByBranches:
			branches++
		}
	}
	// Timothy syndrome, QT disorder, conduction disorder
	assert.Equal(t, 3, rank)
	// heart rhythm disorder
	assert.Equal(t, 1, branches)

	first := dups[0]
	assert.Equal(t, "syndrome, Timothy", first.Name)
	assert.Equal(t, "DOID:5", first.Acc1)
	assert.Equal(t, "DOID:6", first.Acc2)
	assert.False(t, first.Synonym)
}

func TestTerm(t *testing.T) {
	m := terms.NewMatcher(newStore())
	term, ok, err := m.Term(context.Background(), "RDO", "DOID:3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cardiac arrhythmia", term.Name)

	_, ok, err = m.Term(context.Background(), "RDO", "DOID:100")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIndexBuiltOnce(t *testing.T) {
	store := newStore()
	m := terms.NewMatcher(store)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := m.Lookup(context.Background(), "RDO", "cardiac arrhythmia")
			assert.NoError(t, err)
			assert.Equal(t, []string{"DOID:3"}, res)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), store.calls.Load())

	_, err := m.Lookup(context.Background(), "HP", "cardiac arrhythmia")
	require.NoError(t, err)
	assert.Equal(t, int32(2), store.calls.Load())
}

func TestIndexError(t *testing.T) {
	store := newStore()
	store.fail = true
	m := terms.NewMatcher(store)
	_, err := m.Lookup(context.Background(), "RDO", "x")
	assert.Error(t, err)
}
