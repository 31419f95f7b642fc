package ioload

import (
	"context"
	"time"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/reconcile"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

// Store is the persistence port of a load run.
type Store interface {
	GeneStore

	VariantBySymbol(ctx context.Context, symbol string) (*variant.Variant, error)
	// InsertVariant creates a variant, or returns the one created
	// concurrently with the same symbol and false.
	InsertVariant(ctx context.Context, v variant.Variant) (*variant.Variant, bool, error)
	UpdateVariant(ctx context.Context, v variant.Variant) error
	TouchVariant(ctx context.Context, id int64) error

	UpdateTraitName(ctx context.Context, id int64, val string) error
	UpdateNotes(ctx context.Context, id int64, val string) error
	UpdateSubmitter(ctx context.Context, id int64, val string) error

	// Now returns the database time.
	Now(ctx context.Context) (time.Time, error)
	XrefCount(ctx context.Context) (int, error)
	StaleXrefs(ctx context.Context, cutoff time.Time) ([]int64, error)
	DeleteXrefs(ctx context.Context, ids []int64) (int64, error)
}

// GeneStore finds reference genes.
type GeneStore interface {
	GenesByNCBIID(ctx context.Context, id string) ([]variant.Gene, error)
	GenesBySymbol(ctx context.Context, symbol string) ([]variant.Gene, error)
}

// Entities holds stores of the five kinds of variant sub-entities.
type Entities struct {
	Aliases   reconcile.Store[variant.Alias]
	Xrefs     reconcile.Store[variant.Xref]
	Names     reconcile.Store[variant.ExternalName]
	Positions reconcile.Store[variant.Position]
	GeneLinks reconcile.Store[variant.GeneLink]
}

// Source streams staged records.
type Source interface {
	Count(ctx context.Context) (int, error)
	// Records sends records to chOut and closes it.
	Records(ctx context.Context, chOut chan<- *variant.Record) error
}
