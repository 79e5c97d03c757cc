package extract

import (
	"context"
	"log/slog"
	"strings"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

// OCRCollector reads the statistics straight off a full-page screenshot via
// an external text recognizer. OCR transcripts are the noisiest source, so
// on top of the shared line/window classification this collector carries
// its own triple-number fallbacks for partially garbled output.
type OCRCollector struct {
	params     Params
	recognizer ports.TextRecognizer
	logger     *slog.Logger
}

// NewOCRCollector wires the recognizer capability.
func NewOCRCollector(params Params, recognizer ports.TextRecognizer, logger *slog.Logger) *OCRCollector {
	return &OCRCollector{params: params, recognizer: recognizer, logger: logger}
}

func (c *OCRCollector) Name() string { return "ocr" }

func (c *OCRCollector) Collect(ctx context.Context, r ports.Rendering, set domain.CandidateSet) {
	if c.recognizer == nil || !c.recognizer.Available() || len(r.Screenshot) == 0 {
		return
	}

	transcript, err := c.recognizer.Recognize(ctx, r.Screenshot)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("ocr recognition failed", "error", err)
		}
		return
	}
	if strings.TrimSpace(transcript) == "" {
		return
	}

	resolved := c.classifyTranscript(transcript)
	if !complete(resolved) {
		c.fillFromTripleLine(transcript, resolved)
	}
	if !complete(resolved) {
		c.fillFromSlidingWindow(transcript, resolved)
	}

	context := r.Context + "/" + c.Name()
	for label, value := range resolved {
		set.Add(label, value, context)
	}
}

// classifyTranscript runs the line and window scans, keeping per label the
// largest value seen. OCR tends to over-segment multi-line numbers, and the
// truncated fragments always read low.
func (c *OCRCollector) classifyTranscript(transcript string) map[domain.Label]float64 {
	resolved := make(map[domain.Label]float64, 3)
	keep := func(label domain.Label, value float64) {
		if current, ok := resolved[label]; !ok || value > current {
			resolved[label] = value
		}
	}

	for _, line := range strings.Split(transcript, "\n") {
		matches := percentsIn(line)
		if len(matches) == 0 {
			continue
		}
		for _, label := range mentionedLabels(line) {
			for _, m := range matches {
				keep(label, m.value)
			}
		}
	}

	window := c.params.ContextWindow
	for _, m := range percentsIn(transcript) {
		start := m.start - window
		if start < 0 {
			start = 0
		}
		end := m.end + window
		if end > len(transcript) {
			end = len(transcript)
		}
		surrounding := transcript[start:end]
		for _, label := range domain.AllLabels {
			if hasKeyword(surrounding, label) {
				keep(label, m.value)
				break
			}
		}
	}
	return resolved
}

// fillFromTripleLine looks for a single line carrying three percentages
// that sum close to 100 and assigns them in the on-screen order: player,
// tie, banker, left to right. If the line carries all three keywords the
// assignment is trusted outright; with no keywords at all it is taken as a
// last resort only when exactly three numbers occur.
func (c *OCRCollector) fillFromTripleLine(transcript string, resolved map[domain.Label]float64) {
	for _, line := range strings.Split(transcript, "\n") {
		matches := percentsIn(line)
		if len(matches) < 3 {
			continue
		}
		sum := matches[0].value + matches[1].value + matches[2].value
		if sum < c.params.TripleSumMin || sum > c.params.TripleSumMax {
			continue
		}

		labeled := hasKeyword(line, domain.LabelPlayer) &&
			hasKeyword(line, domain.LabelTie) &&
			hasKeyword(line, domain.LabelBanker)
		unlabeled := len(mentionedLabels(line)) == 0
		// A partially labeled line stays with the keyword classification;
		// positional assignment only covers the fully labeled and the
		// fully anonymous layouts.
		if labeled || (unlabeled && len(matches) == 3) {
			resolved[domain.LabelPlayer] = matches[0].value
			resolved[domain.LabelTie] = matches[1].value
			resolved[domain.LabelBanker] = matches[2].value
			if c.logger != nil {
				c.logger.Debug("mapped inline triple",
					"player", matches[0].value, "tie", matches[1].value, "banker", matches[2].value,
					"labeled", labeled)
			}
			return
		}
	}
}

// fillFromSlidingWindow scans every run of three consecutive percentages in
// the transcript and picks the run whose sum is closest to plausible,
// preferring runs where the middle value sits near the minimum (the tie is
// usually the smallest of the three). Already-resolved labels keep their
// values.
func (c *OCRCollector) fillFromSlidingWindow(transcript string, resolved map[domain.Label]float64) {
	matches := percentsIn(transcript)
	if len(matches) < 3 {
		return
	}

	bestScore := 0.0
	found := false
	var best [3]float64
	for i := 0; i+2 < len(matches); i++ {
		triple := [3]float64{matches[i].value, matches[i+1].value, matches[i+2].value}
		sum := triple[0] + triple[1] + triple[2]
		if sum < c.params.TripleSumMin || sum > c.params.TripleSumMax {
			continue
		}
		min := triple[0]
		for _, v := range triple[1:] {
			if v < min {
				min = v
			}
		}
		score := -(triple[1] - min)
		if !found || score > bestScore {
			found = true
			bestScore = score
			best = triple
		}
	}
	if !found {
		return
	}

	order := []domain.Label{domain.LabelPlayer, domain.LabelTie, domain.LabelBanker}
	for i, label := range order {
		if _, ok := resolved[label]; !ok {
			resolved[label] = best[i]
		}
	}
}

func complete(resolved map[domain.Label]float64) bool {
	return len(resolved) == len(domain.AllLabels)
}
