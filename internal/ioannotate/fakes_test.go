package ioannotate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/annot"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/terms"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

type memStore struct {
	terms    []terms.Term
	synonyms []terms.Synonym

	variants []variant.Variant
	genes    map[int64][]variant.Gene
	pmids    map[int64][]string
	aliases  map[int64][]string

	mu         sync.Mutex
	annots     map[string]annot.Annotation
	nextKey    int64
	failInsert bool

	dbNow    time.Time
	cutoff   time.Time
	baseline int
	stale    []int64
	deleted  []int64
}

func newMemStore() *memStore {
	return &memStore{
		genes:   make(map[int64][]variant.Gene),
		pmids:   make(map[int64][]string),
		aliases: make(map[int64][]string),
		annots:  make(map[string]annot.Annotation),
	}
}

func (s *memStore) ActiveTerms(_ context.Context, ontologyID string) ([]terms.Term, error) {
	var res []terms.Term
	for _, v := range s.terms {
		if v.OntologyID == ontologyID {
			res = append(res, v)
		}
	}
	return res, nil
}

func (s *memStore) ActiveSynonyms(context.Context, string) ([]terms.Synonym, error) {
	return s.synonyms, nil
}

func (s *memStore) IsDescendantOf(context.Context, string, string) (bool, error) {
	return false, nil
}

func (s *memStore) TermStats(_ context.Context, acc string) (terms.Stats, error) {
	return terms.Stats{Acc: acc}, nil
}

func (s *memStore) ActiveVariants(_ context.Context, types []string) ([]variant.Variant, error) {
	var res []variant.Variant
	for _, v := range s.variants {
		if slices.Contains(types, v.ObjectType) {
			res = append(res, v)
		}
	}
	return res, nil
}

func (s *memStore) AssociatedGenes(_ context.Context, id int64) ([]variant.Gene, error) {
	return s.genes[id], nil
}

func (s *memStore) XrefAccessions(_ context.Context, id int64, key int) ([]string, error) {
	if key != variant.XdbPubMed {
		return nil, nil
	}
	return s.pmids[id], nil
}

func (s *memStore) AliasValues(_ context.Context, id int64) ([]string, error) {
	return s.aliases[id], nil
}

func naturalKey(a annot.Annotation) string {
	return fmt.Sprintf("%s|%d|%s|%s|%s|%d|%d|%s|%s|%s",
		a.SubjectKind, a.SubjectID, a.TermAcc, a.DataSource, a.Evidence,
		a.RefID, a.CreatedBy, a.Qualifier, a.WithInfo, a.XrefSource)
}

func (s *memStore) AnnotationKey(_ context.Context, a annot.Annotation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annots[naturalKey(a)].Key, nil
}

func (s *memStore) Annotation(_ context.Context, key int64) (annot.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.annots {
		if v.Key == key {
			return v, nil
		}
	}
	return annot.Annotation{}, errors.New("not found")
}

func (s *memStore) InsertAnnotation(_ context.Context, a annot.Annotation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert {
		return 0, errors.New("disk full")
	}
	s.nextKey++
	a.Key = s.nextKey
	s.annots[naturalKey(a)] = a
	return a.Key, nil
}

func (s *memStore) UpdateAnnotation(_ context.Context, a annot.Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annots[naturalKey(a)] = a
	return nil
}

func (s *memStore) TouchAnnotations(_ context.Context, keys []int64) (int64, error) {
	return int64(len(keys)), nil
}

func (s *memStore) AnnotationCount(context.Context, int) (int, error) {
	return s.baseline, nil
}

func (s *memStore) Now(context.Context) (time.Time, error) {
	return s.dbNow, nil
}

func (s *memStore) StaleAnnotations(_ context.Context, _ int, cutoff time.Time) ([]int64, error) {
	s.cutoff = cutoff
	return s.stale, nil
}

func (s *memStore) DeleteAnnotations(_ context.Context, keys []int64) (int64, error) {
	s.deleted = append(s.deleted, keys...)
	return int64(len(keys)), nil
}

// find returns persisted annotations of a subject and a term.
func (s *memStore) find(kind string, id int64, acc string) []annot.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []annot.Annotation
	for _, v := range s.annots {
		if v.SubjectKind == kind && v.SubjectID == id && v.TermAcc == acc {
			res = append(res, v)
		}
	}
	return res
}
