// Package terms resolves free-text condition names to accessions of
// ontology terms. Names of active terms and their synonyms are indexed
// by a normalized form that ignores case, punctuation and word order.
// Ambiguous names are resolved by the position of the terms in the
// ontology and by how well they are annotated.
package terms

import (
	"context"
	"slices"
	"strings"
)

// Synonym types that never override an existing mapping.
const (
	NarrowSynonym = "narrow_synonym"
	BroadSynonym  = "broad_synonym"
)

// Term is an active ontology term.
type Term struct {
	Acc        string
	Name       string
	OntologyID string
}

// Synonym is a synonym of an active ontology term.
type Synonym struct {
	TermAcc string
	Name    string
	Type    string
}

// Stats is a read-only snapshot of a term's place in the ontology.
type Stats struct {
	Acc         string
	ParentCount int
	ChildCount  int
	// AnnotCount is the number of objects annotated to the term and to
	// its descendants.
	AnnotCount int
}

// Store is a port to ontology data.
type Store interface {
	ActiveTerms(ctx context.Context, ontologyID string) ([]Term, error)
	ActiveSynonyms(ctx context.Context, ontologyID string) ([]Synonym, error)
	// IsDescendantOf is true if acc is a transitive descendant of
	// ancestorAcc.
	IsDescendantOf(ctx context.Context, acc, ancestorAcc string) (bool, error)
	TermStats(ctx context.Context, acc string) (Stats, error)
}

// Resolution of a name collision.
const (
	ByRank     = "rank"
	ByBranches = "branches"
)

// Duplicate describes a name shared by two terms.
type Duplicate struct {
	Name       string
	Acc1       string
	Acc2       string
	Count1     int
	Count2     int
	Synonym    bool
	Resolution string
}

// Normalize converts a term name to its index key: lower-cased words
// without '-', ',', '(', ')' and '/' sorted and joined by '.'.
func Normalize(name string) string {
	if strings.Contains(name, "T Cell-") &&
		strings.Contains(name, "B Cell-") &&
		strings.Contains(name, "NK Cell-") {
		r := strings.NewReplacer(
			"T Cell-", "TCell", "B Cell-", "BCell", "NK Cell-", "NKCell",
		)
		name = r.Replace(name)
	}

	name = strings.Map(func(r rune) rune {
		switch r {
		case '-', ',', '(', ')', '/':
			return ' '
		}
		return r
	}, strings.ToLower(name))

	words := strings.Fields(name)
	slices.Sort(words)
	return strings.Join(words, ".")
}

// Rank compares two terms. It returns a positive number if a ranks
// higher than b: a has more objects annotated in its subtree, or more
// child terms, or fewer parent terms. Equally ranked terms are ordered
// by accession, the smaller accession ranks higher.
func Rank(a, b Stats) int {
	if r := a.AnnotCount - b.AnnotCount; r != 0 {
		return r
	}
	if r := a.ChildCount - b.ChildCount; r != 0 {
		return r
	}
	if r := b.ParentCount - a.ParentCount; r != 0 {
		return r
	}
	return strings.Compare(b.Acc, a.Acc)
}
