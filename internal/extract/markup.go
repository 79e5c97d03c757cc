package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

// MarkupCollector matches percentages directly in the raw markup. The page
// frequently splits a label and its number across adjacent tags, so besides
// a plain window scan it runs a small family of adjacency patterns
// (label-before-number and number-before-label, with a bounded gap).
type MarkupCollector struct {
	params   Params
	patterns map[domain.Label][]*regexp.Regexp
}

// NewMarkupCollector compiles the per-label pattern family.
func NewMarkupCollector(params Params) *MarkupCollector {
	patterns := make(map[domain.Label][]*regexp.Regexp, len(domain.AllLabels))
	for _, label := range domain.AllLabels {
		kw := keywordAlternation(label)
		gap := params.AdjacentGap
		raw := []string{
			fmt.Sprintf(`(?is)(?:%s)[^>]*?(\d+)%%`, kw),
			fmt.Sprintf(`(?is)(\d+)%%[^<]*?(?:%s)`, kw),
			fmt.Sprintf(`(?is)<[^>]*>(?:%s)[^<]*?(\d+)%%`, kw),
			fmt.Sprintf(`(?is)(\d+)%%[^<]*?<[^>]*>(?:%s)`, kw),
			fmt.Sprintf(`(?is)(?:%s)[^>]{0,%d}(\d+)%%`, kw, gap),
			fmt.Sprintf(`(?is)(\d+)%%[^>]{0,%d}(?:%s)`, gap, kw),
		}
		compiled := make([]*regexp.Regexp, 0, len(raw))
		for _, p := range raw {
			compiled = append(compiled, regexp.MustCompile(p))
		}
		patterns[label] = compiled
	}
	return &MarkupCollector{params: params, patterns: patterns}
}

func (c *MarkupCollector) Name() string { return "markup" }

func (c *MarkupCollector) Collect(_ context.Context, r ports.Rendering, set domain.CandidateSet) {
	if r.Markup == "" {
		return
	}
	context := r.Context + "/" + c.Name()

	for _, label := range domain.AllLabels {
		for _, pattern := range c.patterns[label] {
			for _, groups := range pattern.FindAllStringSubmatch(r.Markup, -1) {
				value, err := strconv.ParseFloat(groups[1], 64)
				if err != nil || value < 0 || value > 100 {
					continue
				}
				set.Add(label, value, context)
			}
		}
	}

	classifyWindows(r.Markup, context, c.params.ContextWindow, set)
}
