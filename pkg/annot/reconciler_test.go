package annot_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rat-genome-database/clinvar-pipeline/pkg/annot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	nextKey int64
	byKey   map[int64]annot.Annotation
	natural map[string]int64
	touches []int
	failOn  int64
}

func newMemStore() *memStore {
	return &memStore{
		byKey:   make(map[int64]annot.Annotation),
		natural: make(map[string]int64),
	}
}

func naturalKey(a annot.Annotation) string {
	return fmt.Sprintf("%d|%s|%s|%s|%d|%d|%s|%s|%s",
		a.SubjectID, a.TermAcc, a.DataSource, a.Evidence, a.RefID,
		a.CreatedBy, a.Qualifier, a.WithInfo, a.XrefSource)
}

func (s *memStore) AnnotationKey(_ context.Context, a annot.Annotation) (int64, error) {
	if s.failOn != 0 && a.SubjectID == s.failOn {
		return 0, errors.New("connection reset")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.natural[naturalKey(a)], nil
}

func (s *memStore) Annotation(_ context.Context, key int64) (annot.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byKey[key], nil
}

func (s *memStore) InsertAnnotation(_ context.Context, a annot.Annotation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextKey++
	a.Key = s.nextKey
	s.byKey[a.Key] = a
	s.natural[naturalKey(a)] = a.Key
	return a.Key, nil
}

func (s *memStore) UpdateAnnotation(_ context.Context, a annot.Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[a.Key] = a
	return nil
}

func (s *memStore) TouchAnnotations(_ context.Context, keys []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touches = append(s.touches, len(keys))
	return int64(len(keys)), nil
}

type counter struct {
	mu   sync.Mutex
	data map[string]int
}

func (c *counter) Add(name string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]int)
	}
	c.data[name] += n
}

func TestReconcilerSync(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	cnt := &counter{}

	r := annot.New("RDO variant", store, cnt, 4)
	r.Add(candidate(1, "PMID:1", ""))
	r.Add(candidate(1, "PMID:2", ""))
	r.Add(candidate(2, "PMID:3", ""))
	assert.Equal(t, 3, r.Len())

	stats, err := r.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Incoming)
	assert.Equal(t, 2, stats.Merged)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 2, cnt.data["RDO variant annotations inserted"])

	// second run: one unchanged, one with new notes
	r = annot.New("RDO variant", store, cnt, 4)
	r.Add(candidate(1, "PMID:1|PMID:2", ""))
	changed := candidate(2, "PMID:3", "")
	changed.Notes = "ClinVar Annotator: match by term: BRGDA3"
	r.Add(changed)

	stats, err = r.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Inserted)
	assert.Equal(t, 1, stats.Updated)
	assert.Equal(t, 1, stats.UpToDate)
	assert.Equal(t, int64(1), stats.Touched)
	assert.Equal(t, []int{1}, store.touches)
	assert.Equal(t, 1, cnt.data["RDO variant annotations updated"])
	assert.Equal(t, 1, cnt.data["RDO variant annotations up-to-date"])
}

func TestReconcilerTouchChunks(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	var cands []annot.Annotation
	for i := range 2500 {
		c := candidate(int64(i+1), "PMID:1", "")
		_, err := store.InsertAnnotation(ctx, c)
		require.NoError(t, err)
		cands = append(cands, c)
	}

	r := annot.New("HP gene", store, nil, 8)
	for _, v := range cands {
		r.Add(v)
	}
	stats, err := r.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2500, stats.UpToDate)
	assert.Equal(t, int64(2500), stats.Touched)
	assert.ElementsMatch(t, []int{999, 999, 502}, store.touches)
}

func TestReconcilerFailureDoesNotStopSiblings(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.failOn = 2

	r := annot.New("RDO variant", store, nil, 2)
	for i := range 5 {
		r.Add(candidate(int64(i+1), "PMID:1", ""))
	}
	stats, err := r.Sync(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 4, stats.Inserted)
}
