package ioannotate

import (
	"context"
	"time"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/annot"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/terms"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/variant"
)

// Store is the persistence port of the annotation run.
type Store interface {
	annot.Store
	terms.Store

	ActiveVariants(ctx context.Context, objectTypes []string) ([]variant.Variant, error)
	AssociatedGenes(ctx context.Context, variantID int64) ([]variant.Gene, error)
	XrefAccessions(ctx context.Context, variantID int64, xdbKey int) ([]string, error)
	AliasValues(ctx context.Context, variantID int64) ([]string, error)

	// Now returns the database time.
	Now(ctx context.Context) (time.Time, error)
	AnnotationCount(ctx context.Context, createdBy int) (int, error)
	StaleAnnotations(ctx context.Context, createdBy int, cutoff time.Time) ([]int64, error)
	DeleteAnnotations(ctx context.Context, keys []int64) (int64, error)
}

// ontology describes an ontology that receives annotations.
type ontology struct {
	id     string
	aspect string
}

var ontologies = []ontology{
	{id: "RDO", aspect: "D"},
	{id: "HP", aspect: "H"},
}
