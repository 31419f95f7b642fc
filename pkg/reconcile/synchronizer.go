package reconcile

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Synchronizer reconciles one kind of sub-entities. It lives for one run:
// deferred leftovers and claims of all parents accumulate until Resolve.
type Synchronizer[T Entity[T]] struct {
	kind    string
	store   Store[T]
	counter Counter

	mu       sync.Mutex
	deferred map[string]pending[T]
	claims   map[string]T
}

type pending[T any] struct {
	parentID int64
	item     T
}

// New creates a Synchronizer. The kind is used as a prefix of counter
// names, for example "ALIASES" produces ALIASES_MATCHED, ALIASES_INSERTED,
// ALIASES_UPDATED and ALIASES_DELETED.
func New[T Entity[T]](kind string, store Store[T], counter Counter) *Synchronizer[T] {
	return &Synchronizer[T]{
		kind:     kind,
		store:    store,
		counter:  counter,
		deferred: make(map[string]pending[T]),
		claims:   make(map[string]T),
	}
}

// Kind returns the name of the reconciled entity kind.
func (s *Synchronizer[T]) Kind() string {
	return s.kind
}

// QC compares incoming entities with the persisted ones. A parentID of 0
// means a new parent without persisted entities.
func (s *Synchronizer[T]) QC(
	ctx context.Context,
	parentID int64,
	scope Scope,
	incoming []T,
) (*Outcome[T], error) {
	var err error
	var persisted []T
	if parentID != 0 {
		persisted, err = s.store.Fetch(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", s.kind, err)
		}
	}

	res := &Outcome[T]{}

	// entities of sources that are not valid anymore cannot be matched
	remaining := make([]T, 0, len(persisted))
	for _, v := range persisted {
		if scope.isInvalid(v.Provenance()) {
			res.ToDelete = append(res.ToDelete, v)
			continue
		}
		remaining = append(remaining, v)
	}

	for _, inc := range incoming {
		idx := indexOf(remaining, inc.IdentityKey())
		if idx < 0 {
			res.ToInsert = append(res.ToInsert, inc)
			continue
		}
		old := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		changedSource := retag(old, inc)
		if changedSource {
			res.Claimed = append(res.Claimed, inc)
		}
		// an entity of another listed source keeps its tag, the claim
		// saves it if that source drops it in the same run. Otherwise it
		// is retagged with the current source, so a later pass of its
		// former source does not see it as a leftover.
		keepTag := !changedSource || scope.isListed(old.Provenance())
		if old.SameContent(inc) && keepTag {
			res.Matched = append(res.Matched, old)
			continue
		}
		res.ToUpdate = append(res.ToUpdate, Change[T]{Old: old, New: inc})
	}

	for _, v := range remaining {
		switch {
		case v.Provenance() != scope.Source:
			res.Kept = append(res.Kept, v)
		case scope.isShared():
			res.Deferred = append(res.Deferred, v)
		default:
			res.ToDelete = append(res.ToDelete, v)
		}
	}
	return res, nil
}

// Sync writes the outcome to the store. Deletions go first to avoid
// unique key violations. It returns true if the store was modified.
func (s *Synchronizer[T]) Sync(
	ctx context.Context,
	parentID int64,
	o *Outcome[T],
) (bool, error) {
	if len(o.ToDelete) > 0 {
		if err := s.store.Delete(ctx, parentID, o.ToDelete); err != nil {
			return false, fmt.Errorf("delete %s: %w", s.kind, err)
		}
		s.count("DELETED", len(o.ToDelete))
	}

	if len(o.ToUpdate) > 0 {
		if err := s.store.Update(ctx, parentID, o.ToUpdate); err != nil {
			return false, fmt.Errorf("update %s: %w", s.kind, err)
		}
		s.count("UPDATED", len(o.ToUpdate))
	}

	if len(o.ToInsert) > 0 {
		if err := s.store.Insert(ctx, parentID, o.ToInsert); err != nil {
			return false, fmt.Errorf("insert %s: %w", s.kind, err)
		}
		s.count("INSERTED", len(o.ToInsert))
	}

	if len(o.Matched) > 0 {
		s.count("MATCHED", len(o.Matched))
		if toucher, ok := s.store.(Toucher[T]); ok {
			if err := toucher.Touch(ctx, o.Matched); err != nil {
				return false, fmt.Errorf("touch %s: %w", s.kind, err)
			}
			s.count("TOUCHED", len(o.Matched))
		}
	}

	s.register(parentID, o)
	return o.Changed(), nil
}

// Resolve applies deferred leftovers of the run. A deferred entity that
// another source confirmed is retagged with that source, the rest are
// deleted. Resolve must run after all records of the run are synced.
func (s *Synchronizer[T]) Resolve(ctx context.Context) error {
	s.mu.Lock()
	deferred, claims := s.deferred, s.claims
	s.deferred = make(map[string]pending[T])
	s.claims = make(map[string]T)
	s.mu.Unlock()

	keys := make([]string, 0, len(deferred))
	for k := range deferred {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var retagged, deleted int
	for _, k := range keys {
		d := deferred[k]
		if c, ok := claims[k]; ok {
			err := s.store.Update(ctx, d.parentID, []Change[T]{{Old: d.item, New: c}})
			if err != nil {
				return fmt.Errorf("retag %s: %w", s.kind, err)
			}
			retagged++
			continue
		}
		if err := s.store.Delete(ctx, d.parentID, []T{d.item}); err != nil {
			return fmt.Errorf("delete %s: %w", s.kind, err)
		}
		deleted++
	}
	s.count("UPDATED", retagged)
	s.count("DELETED", deleted)
	return nil
}

func (s *Synchronizer[T]) register(parentID int64, o *Outcome[T]) {
	if len(o.Deferred)+len(o.Claimed) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range o.Deferred {
		s.deferred[pendingKey(parentID, v)] = pending[T]{parentID: parentID, item: v}
	}
	for _, v := range o.Claimed {
		k := pendingKey(parentID, v)
		// the smallest source wins, whatever the order of records
		if c, ok := s.claims[k]; ok && c.Provenance() <= v.Provenance() {
			continue
		}
		s.claims[k] = v
	}
	s.count("DEFERRED", len(o.Deferred))
}

func pendingKey[T Entity[T]](parentID int64, v T) string {
	return fmt.Sprintf("%d|%s", parentID, v.IdentityKey())
}

func (s *Synchronizer[T]) count(suffix string, n int) {
	if s.counter == nil || n == 0 {
		return
	}
	s.counter.Add(s.kind+"_"+suffix, n)
}

func retag[T Entity[T]](old, inc T) bool {
	return inc.Provenance() != "" && old.Provenance() != inc.Provenance()
}

func indexOf[T Entity[T]](items []T, key string) int {
	for i, v := range items {
		if v.IdentityKey() == key {
			return i
		}
	}
	return -1
}
