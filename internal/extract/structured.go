package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

// StructuredCollector walks the visible text of individual page elements
// and classifies each one by the section keywords it carries. When the
// renderer could not enumerate elements it reconstructs them from the raw
// markup instead.
type StructuredCollector struct {
	params Params
}

// NewStructuredCollector builds the per-element strategy.
func NewStructuredCollector(params Params) *StructuredCollector {
	return &StructuredCollector{params: params}
}

func (c *StructuredCollector) Name() string { return "structured" }

// Collect appends one candidate per (keyword, percentage) pairing found in
// a bounded element text. Overlong texts are container noise and skipped.
func (c *StructuredCollector) Collect(_ context.Context, r ports.Rendering, set domain.CandidateSet) {
	elements := r.Elements
	if len(elements) == 0 && r.Markup != "" {
		elements = elementTexts(r.Markup)
	}
	for _, text := range elements {
		text = strings.TrimSpace(text)
		if text == "" || len(text) > c.params.MaxElementTextLen {
			continue
		}
		classifyUnit(text, r.Context+"/"+c.Name(), set)
	}
}

// elementTexts parses markup and returns the subtree text of every node.
// Parent/child duplication is deliberate: the same reading observed at
// several nesting levels strengthens the consensus vote.
func elementTexts(markup string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	var texts []string
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "script" || goquery.NodeName(s) == "style" {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}
