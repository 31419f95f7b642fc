// Package run provides the state of one pipeline run: counters, buffers of
// per-variant scalar updates and the cooperative stop flag.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Context is created at the start of a run and is passed to every component
// taking part in it.
type Context struct {
	// ID identifies the run in logs.
	ID string
	// Start is the local time the run started.
	Start time.Time

	mu       sync.Mutex
	counters map[string]int

	stop atomic.Bool

	TraitNames *Buffer
	Notes      *Buffer
	Submitters *Buffer
}

// New creates a run Context.
func New() *Context {
	return &Context{
		ID:         uuid.NewString(),
		Start:      time.Now(),
		counters:   make(map[string]int),
		TraitNames: NewBuffer("TRAIT_NAMES"),
		Notes:      NewBuffer("NOTES"),
		Submitters: NewBuffer("SUBMITTERS"),
	}
}

// Add increments a counter.
func (c *Context) Add(name string, n int) {
	c.mu.Lock()
	c.counters[name] += n
	c.mu.Unlock()
}

// Inc increments a counter by one.
func (c *Context) Inc(name string) {
	c.Add(name, 1)
}

// Count returns the value of a counter.
func (c *Context) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}

// Counters returns a copy of all counters.
func (c *Context) Counters() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.counters)
}

// Stop requests workers to finish after their current record.
func (c *Context) Stop() {
	c.stop.Store(true)
}

// Stopped is true if a stop was requested.
func (c *Context) Stopped() bool {
	return c.stop.Load()
}

// WatchStop sets the stop flag when ctx is done. The returned function
// releases the watcher.
func (c *Context) WatchStop(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.Stop()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// Summary returns sorted "name: count" lines of non-zero counters.
func (c *Context) Summary() []string {
	counters := c.Counters()
	res := make([]string, 0, len(counters))
	for _, k := range slices.Sorted(maps.Keys(counters)) {
		v := counters[k]
		if v == 0 {
			continue
		}
		res = append(res, fmt.Sprintf("%s: %s", k, humanize.Comma(int64(v))))
	}
	return res
}

// LogSummary writes all counters to the log.
func (c *Context) LogSummary(msg string) {
	counters := c.Counters()
	args := make([]any, 0, 2*len(counters)+2)
	args = append(args, "run", c.ID)
	for _, k := range slices.Sorted(maps.Keys(counters)) {
		args = append(args, k, counters[k])
	}
	slog.Info(msg, args...)
}
