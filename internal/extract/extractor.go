package extract

import (
	"context"
	"log/slog"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

// Extractor runs one observation cycle: render the page, try the image
// pipeline, then the text pipelines over the main document and every
// embedded frame, then once more after a refresh. The caller gets either a
// validated reading or nil; the reasons live in the logs.
type Extractor struct {
	renderer   ports.PageRenderer
	recognizer ports.TextRecognizer
	params     Params
	logger     *slog.Logger

	image *Aggregator
	text  *Aggregator
}

var _ ports.StatsExtractor = (*Extractor)(nil)

// New wires the collector pipelines. recognizer may be nil; the image
// pipeline is then skipped for the process lifetime.
func New(renderer ports.PageRenderer, recognizer ports.TextRecognizer, params Params, logger *slog.Logger) *Extractor {
	reconciler := NewReconciler(params)
	validator := NewValidator(params)

	image := NewAggregator(
		[]Collector{NewOCRCollector(params, recognizer, logger)},
		reconciler, validator, true, logger)

	text := NewAggregator(
		[]Collector{
			NewStructuredCollector(params),
			NewBulkTextCollector(params),
			NewMarkupCollector(params),
		},
		reconciler, validator, false, logger)

	return &Extractor{
		renderer:   renderer,
		recognizer: recognizer,
		params:     params,
		logger:     logger,
		image:      image,
		text:       text,
	}
}

// Extract performs a single synchronous cycle. It never returns an error
// for data-quality problems; only context cancellation surfaces.
func (e *Extractor) Extract(ctx context.Context) (*domain.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.renderer == nil {
		return nil, nil
	}

	main := e.render(ctx)

	// Screenshot/OCR is the most reliable source on this page and goes
	// first. A missing recognizer skips it without failing the cycle.
	// The pipeline gets a screenshot-only rendering: the estimation tier
	// it carries must never fire on evidence the recognizer did not see.
	if e.recognizer != nil && e.recognizer.Available() {
		if shot, err := e.renderer.Screenshot(ctx); err != nil {
			e.logger.Warn("screenshot capture failed", "error", err)
		} else {
			set := domain.NewCandidateSet()
			capture := ports.Rendering{Screenshot: shot, Context: "screenshot"}
			if reading, ok := e.image.Run(ctx, []ports.Rendering{capture}, set); ok {
				return reading, nil
			}
		}
	}

	set := domain.NewCandidateSet()
	if reading, ok := e.text.Run(ctx, []ports.Rendering{main}, set); ok {
		return reading, nil
	}

	// Game content commonly loads inside an iframe. The frame runs are
	// seeded with the main document's candidates so partial evidence from
	// both contexts can complete each other.
	frames, err := e.renderer.Frames(ctx)
	if err != nil {
		e.logger.Warn("frame enumeration failed", "error", err)
	}
	if len(frames) > 0 {
		if reading, ok := e.text.Run(ctx, frames, set); ok {
			return reading, nil
		}
	}

	if e.params.RefreshRetry {
		if reading, ok := e.refreshAndRetry(ctx); ok {
			return reading, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.logger.Warn("cycle produced no reading")
	return nil, nil
}

func (e *Extractor) render(ctx context.Context) ports.Rendering {
	main, err := e.renderer.Render(ctx)
	if err != nil {
		e.logger.Warn("page render failed", "error", err)
		main = ports.Rendering{}
	}
	if main.Context == "" {
		main.Context = "main"
	}
	return main
}

func (e *Extractor) refreshAndRetry(ctx context.Context) (*domain.Reading, bool) {
	if err := e.renderer.Refresh(ctx); err != nil {
		e.logger.Warn("page refresh failed", "error", err)
		return nil, false
	}

	set := domain.NewCandidateSet()
	main := e.render(ctx)
	if reading, ok := e.text.Run(ctx, []ports.Rendering{main}, set); ok {
		return reading, true
	}
	frames, err := e.renderer.Frames(ctx)
	if err != nil || len(frames) == 0 {
		return nil, false
	}
	return e.text.Run(ctx, frames, set)
}
