package extract

import (
	"context"
	"log/slog"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

// Collector is one extraction strategy: it turns a single representation of
// the page into labeled percentage candidates. Collectors must tolerate
// total failure; contributing nothing never aborts the cycle.
type Collector interface {
	Name() string
	Collect(ctx context.Context, r ports.Rendering, set domain.CandidateSet)
}

// collect runs one collector with panic isolation. Whatever goes wrong
// inside a strategy is downgraded to "no candidates".
func collect(ctx context.Context, c Collector, r ports.Rendering, set domain.CandidateSet, logger *slog.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			if logger != nil {
				logger.Warn("collector panicked", "collector", c.Name(), "context", r.Context, "panic", rec)
			}
		}
	}()
	c.Collect(ctx, r, set)
}
