package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// DeprecationReporter is the production units.Reporter: it logs each
// notice and counts accesses so dashboards can track remaining users of
// the deprecated accessors.
type DeprecationReporter struct {
	logger  *slog.Logger
	counter prometheus.Counter
}

// NewDeprecationReporter creates a reporter backed by the given logger
// and the DeprecationNotices counter.
func NewDeprecationReporter(logger *slog.Logger, counter prometheus.Counter) *DeprecationReporter {
	return &DeprecationReporter{logger: logger, counter: counter}
}

// Report logs the notice at warn level and increments the counter.
// It never blocks and never fails back to the caller.
func (r *DeprecationReporter) Report(msg string) {
	r.counter.Inc()
	r.logger.Warn(msg)
}
