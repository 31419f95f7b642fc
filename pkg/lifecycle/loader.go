package lifecycle

import (
	"context"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/run"
)

// Loader reconciles staged ClinVar records with the database.
//
// A load run streams records from the staged-record file, merges scalar
// fields of each variant, synchronizes its aliases, cross-references,
// HGVS names, positions and gene associations, and finally flushes
// buffered trait names, notes and submitters and removes stale
// cross-references.
type Loader interface {
	// Load runs one reconciliation pass. The returned run context holds
	// the counters of the run, it is returned even when Load fails.
	Load(ctx context.Context) (*run.Context, error)
}

// Annotator generates disease and phenotype annotations of ClinVar
// variants and their genes and reconciles them with the database.
type Annotator interface {
	// Annotate runs one annotation pass. The returned run context holds
	// the counters of the run, it is returned even when Annotate fails.
	Annotate(ctx context.Context) (*run.Context, error)
}
