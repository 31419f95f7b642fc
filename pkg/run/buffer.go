package run

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Buffer accumulates incoming values of one scalar field per variant
// during a run. The values are united and written once at the end of the
// run, because several records of the same variant contribute to them.
type Buffer struct {
	name string

	mu      sync.Mutex
	entries map[int64]*Entry
}

// Entry holds the values of one variant.
type Entry struct {
	// Stored is the value persisted before the run.
	Stored   string
	Incoming []string
}

// NewBuffer creates a named Buffer. The name prefixes counters of the
// buffer flush, for example NOTES_MODIFIED.
func NewBuffer(name string) *Buffer {
	return &Buffer{name: name, entries: make(map[int64]*Entry)}
}

// Name returns the name of the buffer.
func (b *Buffer) Name() string {
	return b.name
}

// Add records an incoming value of a variant together with the value
// currently persisted for it. Blank incoming values are ignored.
func (b *Buffer) Add(variantID int64, incoming, stored string) {
	if strings.TrimSpace(incoming) == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[variantID]
	if !ok {
		e = &Entry{Stored: stored}
		b.entries[variantID] = e
	} else if e.Stored != stored {
		slog.Debug("Stored value changed during the run",
			"field", b.name, "variant", variantID,
			"old", e.Stored, "new", stored)
		e.Stored = stored
	}
	e.Incoming = append(e.Incoming, incoming)
}

// IDs returns sorted ids of buffered variants.
func (b *Buffer) IDs() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Sorted(maps.Keys(b.entries))
}

// Entry returns a copy of the entry of a variant.
func (b *Buffer) Entry(variantID int64) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[variantID]
	if !ok {
		return Entry{}, false
	}
	return Entry{Stored: e.Stored, Incoming: slices.Clone(e.Incoming)}, true
}

// Len returns the number of buffered variants.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Union splits incoming values on '|', removes duplicates and joins the
// sorted tokens with sep.
func (e Entry) Union(sep string) string {
	set := make(map[string]struct{})
	for _, v := range e.Incoming {
		for _, t := range strings.Split(v, "|") {
			if t = strings.TrimSpace(t); t != "" {
				set[t] = struct{}{}
			}
		}
	}
	return strings.Join(slices.Sorted(maps.Keys(set)), sep)
}
