package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

// BulkTextCollector works on one large blob of rendered page text, a single
// cheap pass compared to per-element iteration. It classifies line by line
// and then by a symmetric character window around every percent match.
type BulkTextCollector struct {
	params Params
}

// NewBulkTextCollector builds the whole-page-text strategy.
func NewBulkTextCollector(params Params) *BulkTextCollector {
	return &BulkTextCollector{params: params}
}

func (c *BulkTextCollector) Name() string { return "bulktext" }

func (c *BulkTextCollector) Collect(_ context.Context, r ports.Rendering, set domain.CandidateSet) {
	text := r.Text
	if strings.TrimSpace(text) == "" && r.Markup != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.Markup)); err == nil {
			text = doc.Find("body").Text()
		}
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	context := r.Context + "/" + c.Name()
	classifyLines(text, context, set)
	classifyWindows(text, context, c.params.ContextWindow, set)
}
