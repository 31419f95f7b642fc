package ioannotate

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/rat-genome-database/clinvar-pipeline/pkg/errcode"
)

// TermIndexError is returned when the name index of an ontology cannot
// be built.
func TermIndexError(ontology string, err error) error {
	return &gn.Error{
		Code: errcode.AnnotateTermIndexError,
		Msg:  "Cannot index terms of <em>%s</em>",
		Vars: []any{ontology},
		Err:  fmt.Errorf("index %s: %w", ontology, err),
	}
}

// ReconcileError is returned when some annotations of a category could
// not be saved.
func ReconcileError(category string, err error) error {
	msg := `Cannot save <em>%s</em> annotations

Other annotations were saved, stale annotations are kept.`
	return &gn.Error{
		Code: errcode.AnnotateReconcileError,
		Msg:  msg,
		Vars: []any{category},
		Err:  fmt.Errorf("reconcile %s annotations: %w", category, err),
	}
}

// StaleDeleteError is returned when stale annotations cannot be selected
// or removed.
func StaleDeleteError(err error) error {
	return &gn.Error{
		Code: errcode.AnnotateStaleDeleteError,
		Msg:  "Cannot remove stale annotations",
		Err:  fmt.Errorf("stale annotations: %w", err),
	}
}

// CancelledError is returned when an annotation run was stopped before
// all variants were processed. Nothing is saved in this case.
func CancelledError(err error) error {
	return &gn.Error{
		Code: errcode.AnnotateCancelledError,
		Msg:  "Annotation was interrupted, no annotations were saved",
		Err:  fmt.Errorf("annotate cancelled: %w", err),
	}
}
