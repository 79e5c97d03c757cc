package extract

import (
	"strings"

	"BacBoScanner/internal/domain"
)

// classifyUnit scans one bounded text unit (an element's visible text or a
// single line). A unit mentioning a single section keyword donates every
// percentage it contains to that label; a unit mentioning several sections
// assigns each percentage to the nearest keyword, so a combined stats row
// like "PLAYER 70% TIE 5% BANKER 25%" splits correctly.
func classifyUnit(text, context string, set domain.CandidateSet) {
	if !strings.Contains(text, "%") {
		return
	}
	matches := percentsIn(text)
	if len(matches) == 0 {
		return
	}
	occurrences := keywordOccurrences(text)
	if len(occurrences) == 0 {
		return
	}

	if singleLabel, ok := soleLabel(occurrences); ok {
		for _, m := range matches {
			set.Add(singleLabel, m.value, context)
		}
		return
	}

	// Multi-section rows render either "PLAYER 70% TIE 5% ..." or
	// "70% PLAYER 5% TIE ...". Whichever comes first in the unit, keyword
	// or number, fixes the direction for the whole row.
	labelLeads := occurrences[0].start < matches[0].start
	for _, m := range matches {
		set.Add(rowLabel(occurrences, m, labelLeads), m.value, context)
	}
}

// rowLabel picks the keyword a percentage belongs to: the closest preceding
// keyword in a label-led row, the closest following one otherwise. A
// percentage with no keyword on its side falls back to plain proximity.
func rowLabel(occurrences []keywordOccurrence, m percentMatch, labelLeads bool) domain.Label {
	if labelLeads {
		for i := len(occurrences) - 1; i >= 0; i-- {
			if occurrences[i].start < m.start {
				return occurrences[i].label
			}
		}
	} else {
		for _, occ := range occurrences {
			if occ.start >= m.end {
				return occ.label
			}
		}
	}
	return nearestLabel(occurrences, m)
}

func soleLabel(occurrences []keywordOccurrence) (domain.Label, bool) {
	label := occurrences[0].label
	for _, occ := range occurrences[1:] {
		if occ.label != label {
			return 0, false
		}
	}
	return label, true
}

func nearestLabel(occurrences []keywordOccurrence, m percentMatch) domain.Label {
	center := (m.start + m.end) / 2
	best := occurrences[0]
	bestDist := distance(center, best)
	for _, occ := range occurrences[1:] {
		if d := distance(center, occ); d < bestDist {
			best, bestDist = occ, d
		}
	}
	return best.label
}

func distance(center int, occ keywordOccurrence) int {
	mid := (occ.start + occ.end) / 2
	if mid > center {
		return mid - center
	}
	return center - mid
}

// classifyLines splits a text blob into lines and classifies each one.
func classifyLines(text, context string, set domain.CandidateSet) {
	for _, line := range strings.Split(text, "\n") {
		classifyUnit(line, context, set)
	}
}

// classifyWindows classifies every percentage in a blob by the keywords
// found within window characters on either side of it. When several labels
// appear in the same window the first in player/banker/tie order wins, so a
// number is never attributed to two sections at once.
func classifyWindows(text, context string, window int, set domain.CandidateSet) {
	for _, m := range percentsIn(text) {
		start := m.start - window
		if start < 0 {
			start = 0
		}
		end := m.end + window
		if end > len(text) {
			end = len(text)
		}
		surrounding := text[start:end]
		for _, label := range domain.AllLabels {
			if hasKeyword(surrounding, label) {
				set.Add(label, m.value, context)
				break
			}
		}
	}
}
