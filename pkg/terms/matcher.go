package terms

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Matcher keeps one name index per ontology. An index is built on the
// first lookup and is read-only afterwards.
type Matcher struct {
	store Store

	mu      sync.Mutex
	indices map[string]*index
}

type index struct {
	once  sync.Once
	err   error
	names map[string]map[string]struct{}
	terms map[string]Term
	stats map[string]Stats
	dups  []Duplicate
}

// NewMatcher creates a Matcher on top of an ontology store.
func NewMatcher(store Store) *Matcher {
	return &Matcher{store: store, indices: make(map[string]*index)}
}

// Lookup returns sorted accessions of terms of the ontology with the
// given name or synonym.
func (m *Matcher) Lookup(ctx context.Context, ontologyID, name string) ([]string, error) {
	idx, err := m.index(ctx, ontologyID)
	if err != nil {
		return nil, err
	}
	accs := idx.names[Normalize(name)]
	return slices.Sorted(maps.Keys(accs)), nil
}

// Term returns an active term of the ontology by its accession.
func (m *Matcher) Term(ctx context.Context, ontologyID, acc string) (Term, bool, error) {
	idx, err := m.index(ctx, ontologyID)
	if err != nil {
		return Term{}, false, err
	}
	t, ok := idx.terms[acc]
	return t, ok, nil
}

// Duplicates returns name collisions found while indexing the ontology.
func (m *Matcher) Duplicates(ctx context.Context, ontologyID string) ([]Duplicate, error) {
	idx, err := m.index(ctx, ontologyID)
	if err != nil {
		return nil, err
	}
	return idx.dups, nil
}

func (m *Matcher) index(ctx context.Context, ontologyID string) (*index, error) {
	m.mu.Lock()
	idx, ok := m.indices[ontologyID]
	if !ok {
		idx = &index{}
		m.indices[ontologyID] = idx
	}
	m.mu.Unlock()

	idx.once.Do(func() {
		idx.err = m.build(ctx, ontologyID, idx)
	})
	return idx, idx.err
}

func (m *Matcher) build(ctx context.Context, ontologyID string, idx *index) error {
	b := &builder{
		ctx:   ctx,
		store: m.store,
		idx:   idx,
	}
	idx.names = make(map[string]map[string]struct{})
	idx.terms = make(map[string]Term)
	idx.stats = make(map[string]Stats)

	if err := b.indexTerms(ontologyID); err != nil {
		return fmt.Errorf("index terms of %s: %w", ontologyID, err)
	}
	if err := b.indexSynonyms(ontologyID); err != nil {
		return fmt.Errorf("index synonyms of %s: %w", ontologyID, err)
	}
	return nil
}
