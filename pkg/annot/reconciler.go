package annot

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Reconciler collects annotation candidates of one category (for example
// "RDO variant") and syncs them with the store.
type Reconciler struct {
	category string
	store    Store
	counter  Counter
	jobs     int

	mu       sync.Mutex
	incoming []Annotation
	upToDate map[int64]struct{}
	updated  map[int64]struct{}
	inserted int
	firstErr error
}

// New creates a Reconciler. The jobs number limits the number of parallel
// store tasks.
func New(category string, store Store, counter Counter, jobs int) *Reconciler {
	if jobs < 1 {
		jobs = 1
	}
	return &Reconciler{
		category: category,
		store:    store,
		counter:  counter,
		jobs:     jobs,
		upToDate: make(map[int64]struct{}),
		updated:  make(map[int64]struct{}),
	}
}

// Add appends a candidate to the incoming buffer. It is safe for
// concurrent use.
func (r *Reconciler) Add(a Annotation) {
	r.mu.Lock()
	r.incoming = append(r.incoming, a)
	r.mu.Unlock()
}

// Len returns the number of buffered candidates.
func (r *Reconciler) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.incoming)
}

// Sync merges buffered candidates and reconciles them with the store.
// A failure of one annotation does not stop the others, the first error
// is returned after all of them are processed. Unchanged annotations get
// their last-modified date refreshed in chunks.
func (r *Reconciler) Sync(ctx context.Context) (Stats, error) {
	r.mu.Lock()
	incoming := r.incoming
	r.incoming = nil
	r.mu.Unlock()

	merged, dropped := Merge(incoming)
	slog.Info("Merged annotation candidates",
		"category", r.category,
		"incoming", len(incoming),
		"merged", len(merged),
	)
	for _, d := range dropped {
		slog.Warn("Dropped token longer than a field ceiling",
			"category", r.category,
			"group", d.Group,
			"field", d.Field,
			"token_length", len(d.Token),
		)
	}
	if len(dropped) > 0 {
		r.count("ANNOTATION_TOKENS_DROPPED", len(dropped))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for _, a := range merged {
		g.Go(func() error {
			if err := r.syncOne(gctx, a); err != nil {
				slog.Warn("Problematic annotation",
					"term", a.TermAcc,
					"subject", a.SubjectID,
					"evidence", a.Evidence,
					"with", a.WithInfo,
					"error", err,
				)
				r.setErr(err)
			}
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{
		Incoming: len(incoming),
		Merged:   len(merged),
		Dropped:  len(dropped),
		Inserted: r.inserted,
		Updated:  len(r.updated),
		UpToDate: len(r.upToDate),
	}
	r.count(r.category+" annotations inserted", stats.Inserted)
	r.count(r.category+" annotations updated", stats.Updated)
	r.count(r.category+" annotations up-to-date", stats.UpToDate)

	touched, err := r.touch(ctx)
	stats.Touched = touched
	if err != nil {
		r.setErr(err)
	}
	return stats, r.firstErr
}

func (r *Reconciler) syncOne(ctx context.Context, a Annotation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := r.store.AnnotationKey(ctx, a)
	if err != nil {
		return err
	}

	if key == 0 {
		if _, err = r.store.InsertAnnotation(ctx, a); err != nil {
			return err
		}
		r.mu.Lock()
		r.inserted++
		r.mu.Unlock()
		return nil
	}

	old, err := r.store.Annotation(ctx, key)
	if err != nil {
		return err
	}

	diff := Diff(old, a)
	if len(diff) == 0 {
		r.mu.Lock()
		r.upToDate[key] = struct{}{}
		r.mu.Unlock()
		return nil
	}

	slog.Debug("Updating annotation",
		"key", key,
		"term", a.TermAcc,
		"subject", a.SubjectID,
		"ref", a.RefID,
		"evidence", a.Evidence,
		"with", a.WithInfo,
		"diff", diff,
	)
	a.Key = key
	if err = r.store.UpdateAnnotation(ctx, a); err != nil {
		return err
	}
	r.mu.Lock()
	r.updated[key] = struct{}{}
	r.mu.Unlock()
	return nil
}

// Diff returns "FIELD OLD[..] NEW[..]" lines for fields that can be
// updated in place: notes, annotation extension and gene product form.
func Diff(old, cur Annotation) []string {
	var res []string
	add := func(name, o, n string) {
		if o != n {
			res = append(res, fmt.Sprintf("%s OLD[%s] NEW[%s]", name, o, n))
		}
	}
	add("ANNOT_EXT", old.Extension, cur.Extension)
	add("GENE_FORM", old.GeneProductForm, cur.GeneProductForm)
	add("NOTES", old.Notes, cur.Notes)
	return res
}

func (r *Reconciler) touch(ctx context.Context) (int64, error) {
	keys := make([]int64, 0, len(r.upToDate))
	for k := range r.upToDate {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var res int64
	for chunk := range slices.Chunk(keys, TouchChunk) {
		n, err := r.store.TouchAnnotations(ctx, chunk)
		if err != nil {
			return res, err
		}
		res += n
	}
	return res, nil
}

func (r *Reconciler) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.firstErr == nil {
		r.firstErr = err
	}
}

func (r *Reconciler) count(name string, n int) {
	if r.counter == nil || n == 0 {
		return
	}
	r.counter.Add(name, n)
}
