package run

import (
	"log/slog"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// Report writes the counters of a finished run to the log and to the
// console.
func (c *Context) Report(name string) {
	elapsed := gnfmt.TimeString(time.Since(c.Start).Seconds())
	c.LogSummary(name + " summary")
	slog.Info(name+" finished", "run", c.ID, "duration", elapsed)

	gn.Info("%s finished in <em>%s</em>", name, elapsed)
	for _, v := range c.Summary() {
		gn.Info("  %s", v)
	}
}
