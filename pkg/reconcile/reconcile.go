// Package reconcile provides the generic three-way reconciliation of
// sub-entities attached to a parent record (a variant) with their persisted
// copies.
//
// QC classifies incoming entities into matched, to-insert and to-update
// ones, and selects persisted leftovers for deletion. Only leftovers
// contributed by the current source (or by a source that is not valid
// anymore) are deleted, entities of other still-valid sources are kept.
// Sync applies an Outcome to the store, deleting before inserting, so an
// identity-equal entity can move from one source to another within a pass.
//
// When a parent has several sources, a leftover of the current source is
// deferred instead of deleted, because another source of the same run may
// still contribute it. Resolve, called once all records of a run are
// reconciled, deletes deferred entities that nobody confirmed and retags
// the confirmed ones with their new source. A match keeps the tag of
// another listed source, so entities shared by two sources are not
// rewritten on every run.
package reconcile

import (
	"context"
)

// Entity is a sub-entity that knows its identity and provenance.
type Entity[T any] interface {
	// IdentityKey returns the value that determines if two entities are
	// the same entity.
	IdentityKey() string

	// Provenance returns the id of the source record that contributed
	// the entity.
	Provenance() string

	// SameContent is true if non-identity fields of two entities are equal.
	SameContent(T) bool
}

// Store is a port to persisted sub-entities of one kind.
type Store[T any] interface {
	Fetch(ctx context.Context, parentID int64) ([]T, error)
	Insert(ctx context.Context, parentID int64, items []T) error
	Update(ctx context.Context, parentID int64, changes []Change[T]) error
	Delete(ctx context.Context, parentID int64, items []T) error
}

// Toucher is implemented by stores that refresh the last-modified date of
// matched entities.
type Toucher[T any] interface {
	Touch(ctx context.Context, items []T) error
}

// Counter accumulates run statistics.
type Counter interface {
	Add(name string, n int)
}

// Change pairs a persisted entity with its incoming replacement.
type Change[T any] struct {
	Old T
	New T
}

// Outcome is the result of QC for one parent and one kind of entities.
type Outcome[T any] struct {
	// Matched contains persisted copies of matched entities.
	Matched  []T
	ToInsert []T
	ToUpdate []Change[T]
	ToDelete []T
	// Kept contains persisted entities that were not matched, but belong
	// to other valid sources.
	Kept []T
	// Deferred contains leftovers of the current source that are deleted
	// by Resolve unless another source confirms them.
	Deferred []T
	// Claimed contains incoming entities that confirmed a persisted entity
	// tagged with another source.
	Claimed []T
}

// Current returns entities that exist for the parent after the outcome
// is synced.
func (o *Outcome[T]) Current() []T {
	res := make([]T, 0, len(o.Matched)+len(o.ToInsert)+
		len(o.ToUpdate)+len(o.Kept)+len(o.Deferred))
	res = append(res, o.Matched...)
	res = append(res, o.ToInsert...)
	for _, v := range o.ToUpdate {
		res = append(res, v.New)
	}
	res = append(res, o.Kept...)
	res = append(res, o.Deferred...)
	return res
}

// Changed is true if syncing the outcome modifies the store.
func (o *Outcome[T]) Changed() bool {
	return len(o.ToInsert)+len(o.ToUpdate)+len(o.ToDelete) > 0
}

// Scope limits which persisted leftovers can be deleted.
type Scope struct {
	// Source is the provenance of the current pass.
	Source string

	// Valid, if not nil, holds all sources that are still valid for the
	// parent. Persisted entities with a non-empty provenance outside of
	// this set are deleted even if they match an incoming entity.
	Valid map[string]struct{}

	// Sources, if not nil, holds all sources known for the parent. With
	// more than one source leftovers of the current source are deferred,
	// and matched entities of another listed source keep their tag.
	Sources map[string]struct{}
}

func (s Scope) isInvalid(prov string) bool {
	if s.Valid == nil || prov == "" {
		return false
	}
	_, ok := s.Valid[prov]
	return !ok
}

func (s Scope) isListed(prov string) bool {
	_, ok := s.Sources[prov]
	return ok
}

func (s Scope) isShared() bool {
	if len(s.Sources) > 1 {
		return true
	}
	return len(s.Sources) == 1 && !s.isListed(s.Source)
}
