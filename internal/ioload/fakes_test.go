package ioload

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/reconcile"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

type memStore struct {
	mu       sync.Mutex
	variants map[string]*variant.Variant
	nextID   int64
	failOn   string

	genes       []variant.Gene
	geneQueries int

	// dbNow is the database clock, cutoff is the stale cutoff received
	dbNow    time.Time
	cutoff   time.Time
	baseline int
	stale    []int64
	deleted  []int64
	touched  []int64
}

func newMemStore() *memStore {
	return &memStore{variants: make(map[string]*variant.Variant), nextID: 100}
}

func (s *memStore) VariantBySymbol(_ context.Context, symbol string) (*variant.Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if symbol == s.failOn {
		return nil, errors.New("connection reset")
	}
	v, ok := s.variants[strings.ToLower(symbol)]
	if !ok {
		return nil, nil
	}
	res := *v
	return &res, nil
}

func (s *memStore) InsertVariant(_ context.Context, v variant.Variant) (*variant.Variant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.variants[strings.ToLower(v.Symbol)]; ok {
		res := *old
		return &res, false, nil
	}
	s.nextID++
	v.ID = s.nextID
	s.variants[strings.ToLower(v.Symbol)] = &v
	res := v
	return &res, true, nil
}

func (s *memStore) byID(id int64) *variant.Variant {
	for _, v := range s.variants {
		if v.ID == id {
			return v
		}
	}
	return nil
}

func (s *memStore) UpdateVariant(_ context.Context, v variant.Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.byID(v.ID)
	v.TraitName, v.Notes, v.Submitter = old.TraitName, old.Notes, old.Submitter
	*old = v
	return nil
}

func (s *memStore) TouchVariant(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = append(s.touched, id)
	return nil
}

func (s *memStore) update(id int64, set func(*variant.Variant)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set(s.byID(id))
	return nil
}

func (s *memStore) UpdateTraitName(_ context.Context, id int64, val string) error {
	return s.update(id, func(v *variant.Variant) { v.TraitName = val })
}

func (s *memStore) UpdateNotes(_ context.Context, id int64, val string) error {
	return s.update(id, func(v *variant.Variant) { v.Notes = val })
}

func (s *memStore) UpdateSubmitter(_ context.Context, id int64, val string) error {
	return s.update(id, func(v *variant.Variant) { v.Submitter = val })
}

func (s *memStore) GenesByNCBIID(_ context.Context, id string) ([]variant.Gene, error) {
	return s.findGenes(func(g variant.Gene) bool { return g.NCBIGeneID == id })
}

func (s *memStore) GenesBySymbol(_ context.Context, symbol string) ([]variant.Gene, error) {
	return s.findGenes(func(g variant.Gene) bool {
		return strings.EqualFold(g.Symbol, symbol)
	})
}

func (s *memStore) findGenes(ok func(variant.Gene) bool) ([]variant.Gene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geneQueries++
	var res []variant.Gene
	for _, v := range s.genes {
		if ok(v) {
			res = append(res, v)
		}
	}
	return res, nil
}

func (s *memStore) XrefCount(context.Context) (int, error) {
	return s.baseline, nil
}

func (s *memStore) Now(context.Context) (time.Time, error) {
	return s.dbNow, nil
}

func (s *memStore) StaleXrefs(_ context.Context, cutoff time.Time) ([]int64, error) {
	s.cutoff = cutoff
	return s.stale, nil
}

func (s *memStore) DeleteXrefs(_ context.Context, ids []int64) (int64, error) {
	s.deleted = append(s.deleted, ids...)
	return int64(len(ids)), nil
}

// memEntities keeps sub-entities of variants in memory.
type memEntities[T reconcile.Entity[T]] struct {
	mu    sync.Mutex
	items map[int64][]T
}

func newMemEntities[T reconcile.Entity[T]]() *memEntities[T] {
	return &memEntities[T]{items: make(map[int64][]T)}
}

func (m *memEntities[T]) Fetch(_ context.Context, id int64) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items[id]), nil
}

func (m *memEntities[T]) Insert(_ context.Context, id int64, items []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = append(m.items[id], items...)
	return nil
}

func (m *memEntities[T]) Update(_ context.Context, id int64, changes []reconcile.Change[T]) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range changes {
		for i, v := range m.items[id] {
			if v.IdentityKey() == c.Old.IdentityKey() {
				m.items[id][i] = c.New
			}
		}
	}
	return nil
}

func (m *memEntities[T]) Delete(_ context.Context, id int64, items []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = slices.DeleteFunc(m.items[id], func(v T) bool {
		return slices.ContainsFunc(items, func(d T) bool {
			return d.IdentityKey() == v.IdentityKey()
		})
	})
	return nil
}

func (m *memEntities[T]) get(id int64) []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items[id])
}

type memXrefs struct {
	*memEntities[variant.Xref]
	touched int
}

func (m *memXrefs) Touch(_ context.Context, items []variant.Xref) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched += len(items)
	return nil
}

type fixture struct {
	store     *memStore
	aliases   *memEntities[variant.Alias]
	xrefs     *memXrefs
	names     *memEntities[variant.ExternalName]
	positions *memEntities[variant.Position]
	links     *memEntities[variant.GeneLink]
}

func newFixture() *fixture {
	return &fixture{
		store:     newMemStore(),
		aliases:   newMemEntities[variant.Alias](),
		xrefs:     &memXrefs{memEntities: newMemEntities[variant.Xref]()},
		names:     newMemEntities[variant.ExternalName](),
		positions: newMemEntities[variant.Position](),
		links:     newMemEntities[variant.GeneLink](),
	}
}

func (f *fixture) entities() Entities {
	return Entities{
		Aliases:   f.aliases,
		Xrefs:     f.xrefs,
		Names:     f.names,
		Positions: f.positions,
		GeneLinks: f.links,
	}
}

type sliceSource []*variant.Record

func (s sliceSource) Count(context.Context) (int, error) {
	return len(s), nil
}

func (s sliceSource) Records(ctx context.Context, chOut chan<- *variant.Record) error {
	defer close(chOut)
	for _, v := range s {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chOut <- v:
		}
	}
	return nil
}
