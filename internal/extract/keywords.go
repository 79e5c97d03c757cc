package extract

import (
	"regexp"
	"strconv"
	"strings"

	"BacBoScanner/internal/domain"
)

// keywordTable maps every recognized section keyword (upper-cased) to its
// label. The page is served in English or Portuguese; supporting another
// locale means adding rows here, nothing else.
var keywordTable = map[string]domain.Label{
	"PLAYER":  domain.LabelPlayer,
	"JOGADOR": domain.LabelPlayer,
	"BANKER":  domain.LabelBanker,
	"BANCA":   domain.LabelBanker,
	"TIE":     domain.LabelTie,
	"EMPATE":  domain.LabelTie,
}

// keywordAlternation returns a regex alternation of the keywords for a
// label, e.g. "PLAYER|JOGADOR".
func keywordAlternation(label domain.Label) string {
	var words []string
	for word, l := range keywordTable {
		if l == label {
			words = append(words, word)
		}
	}
	// Map iteration order is random; keep pattern text stable.
	sortStrings(words)
	return strings.Join(words, "|")
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// hasKeyword reports whether text mentions any keyword of the label,
// case-insensitively.
func hasKeyword(text string, label domain.Label) bool {
	upper := strings.ToUpper(text)
	for word, l := range keywordTable {
		if l == label && strings.Contains(upper, word) {
			return true
		}
	}
	return false
}

// mentionedLabels returns every label whose keyword occurs in text.
func mentionedLabels(text string) []domain.Label {
	upper := strings.ToUpper(text)
	seen := make(map[domain.Label]bool, 3)
	for word, label := range keywordTable {
		if strings.Contains(upper, word) {
			seen[label] = true
		}
	}
	var labels []domain.Label
	for _, label := range domain.AllLabels {
		if seen[label] {
			labels = append(labels, label)
		}
	}
	return labels
}

// keywordOccurrence is one keyword hit with its position in the source text.
type keywordOccurrence struct {
	label domain.Label
	start int
	end   int
}

// keywordOccurrences finds every keyword mention in text with positions,
// ordered by offset.
func keywordOccurrences(text string) []keywordOccurrence {
	upper := strings.ToUpper(text)
	var occurrences []keywordOccurrence
	for word, label := range keywordTable {
		for from := 0; ; {
			i := strings.Index(upper[from:], word)
			if i < 0 {
				break
			}
			start := from + i
			occurrences = append(occurrences, keywordOccurrence{
				label: label,
				start: start,
				end:   start + len(word),
			})
			from = start + len(word)
		}
	}
	for i := 1; i < len(occurrences); i++ {
		for j := i; j > 0 && occurrences[j].start < occurrences[j-1].start; j-- {
			occurrences[j], occurrences[j-1] = occurrences[j-1], occurrences[j]
		}
	}
	return occurrences
}

// percentPattern matches an integer percentage like "82%". The page never
// renders fractional percentages.
var percentPattern = regexp.MustCompile(`(\d+)%`)

// percentMatch is one percent number with its position in the source text.
type percentMatch struct {
	value float64
	start int
	end   int
}

// percentsIn extracts every in-range percentage from text with positions.
func percentsIn(text string) []percentMatch {
	var matches []percentMatch
	for _, loc := range percentPattern.FindAllStringSubmatchIndex(text, -1) {
		value, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil || value < 0 || value > 100 {
			continue
		}
		matches = append(matches, percentMatch{value: value, start: loc[0], end: loc[1]})
	}
	return matches
}
