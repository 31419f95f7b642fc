// Package annot merges, splits and reconciles bulk-generated ontology
// annotations of variants and genes.
//
// Candidates that differ only by their XrefSource are merged into one
// annotation, then candidates that differ only by WithInfo are merged.
// After each merge, annotations with a field longer than the column allows
// are split into siblings that share every other field. The resulting
// annotations are reconciled against an annotation store in parallel.
package annot

import "context"

// Field ceilings of persisted annotations.
const (
	XrefSourceLimit = 4000
	WithInfoLimit   = 1700

	// TouchChunk is the maximal number of keys refreshed by one statement.
	TouchChunk = 999
)

// Object kinds of annotated subjects.
const (
	ObjectGene    = "gene"
	ObjectVariant = "variant"
)

// Annotation is an ontology annotation of a variant or a gene.
type Annotation struct {
	// Key is the surrogate key of a persisted annotation.
	Key int64

	SubjectID     int64
	SubjectKind   string
	SubjectSymbol string

	TermAcc    string
	Term       string
	Aspect     string
	Evidence   string
	DataSource string
	RefID      int
	CreatedBy  int
	Qualifier  string

	// WithInfo is a '|'-separated list of supporting object ids.
	WithInfo string
	// XrefSource is a '|'-separated list of supporting publications.
	XrefSource string
	// Notes is a " | "-separated list of notes.
	Notes string

	Extension       string
	GeneProductForm string
}

// Store is a port to persisted annotations.
type Store interface {
	// AnnotationKey returns the key of the persisted annotation with the
	// same natural key, or 0 if there is none.
	AnnotationKey(ctx context.Context, a Annotation) (int64, error)

	// Annotation returns a persisted annotation by its key.
	Annotation(ctx context.Context, key int64) (Annotation, error)

	InsertAnnotation(ctx context.Context, a Annotation) (int64, error)

	UpdateAnnotation(ctx context.Context, a Annotation) error

	// TouchAnnotations refreshes the last-modified date of annotations.
	TouchAnnotations(ctx context.Context, keys []int64) (int64, error)
}

// Counter accumulates run statistics.
type Counter interface {
	Add(name string, n int)
}

// Stats summarizes one reconciliation of annotations.
type Stats struct {
	Incoming int
	Merged   int
	Dropped  int
	Inserted int
	Updated  int
	UpToDate int
	Touched  int64
}
