package extract

import (
	"context"
	"log/slog"
	"strings"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

// Aggregator iterates an ordered list of collectors over one or more page
// contexts, merging every observation into a single candidate set. Adding,
// removing or reordering strategies is a data change here, not new control
// flow. Evidence accumulates across contexts: each sub-document run is
// seeded with everything collected so far, and the first validator-accepted
// reading ends the cycle.
type Aggregator struct {
	collectors    []Collector
	reconciler    *Reconciler
	validator     *Validator
	allowEstimate bool
	logger        *slog.Logger
}

// NewAggregator assembles one pipeline over a fixed collector order.
func NewAggregator(collectors []Collector, reconciler *Reconciler, validator *Validator, allowEstimate bool, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		collectors:    collectors,
		reconciler:    reconciler,
		validator:     validator,
		allowEstimate: allowEstimate,
		logger:        logger,
	}
}

// Run feeds the renderings through the collector list, reconciling after
// every strategy. set is mutated in place so callers can thread partial
// evidence into a later pipeline run.
func (a *Aggregator) Run(ctx context.Context, renderings []ports.Rendering, set domain.CandidateSet) (*domain.Reading, bool) {
	var units []string
	for _, r := range renderings {
		units = append(units, textUnits(r)...)
		for _, c := range a.collectors {
			collect(ctx, c, r, set, a.logger)
			triple, ok := a.reconciler.Reconcile(set, units, a.allowEstimate)
			if !ok {
				continue
			}
			reading, accepted := a.validator.Validate(triple)
			if !accepted {
				if a.logger != nil {
					a.logger.Debug("implausible triple rejected",
						"collector", c.Name(), "context", r.Context,
						"player", triple.Player, "banker", triple.Banker, "tie", triple.Tie,
						"sum", triple.Sum())
				}
				continue
			}
			if a.logger != nil {
				a.logger.Info("reading accepted",
					"collector", c.Name(), "context", r.Context,
					"player", reading.PlayerPercent, "banker", reading.BankerPercent,
					"tie", reading.TiePercent, "derived", reading.Derived)
			}
			return reading, true
		}
	}
	return nil, false
}

// textUnits flattens a rendering into the bounded text units the
// reconciler's structural fallback re-scans.
func textUnits(r ports.Rendering) []string {
	var units []string
	if len(r.Elements) > 0 {
		units = append(units, r.Elements...)
	} else if r.Markup != "" {
		units = append(units, elementTexts(r.Markup)...)
	}
	if r.Text != "" {
		for _, line := range strings.Split(r.Text, "\n") {
			if strings.TrimSpace(line) != "" {
				units = append(units, line)
			}
		}
	}
	return units
}
