package extract

import (
	"fmt"
	"regexp"
	"strconv"

	"BacBoScanner/internal/domain"
)

// Reconciler reduces a cycle's candidate set to one value per label.
type Reconciler struct {
	params Params
	tight  map[domain.Label][]*regexp.Regexp
}

// NewReconciler compiles the tight adjacency patterns used by the
// structural fallback.
func NewReconciler(params Params) *Reconciler {
	tight := make(map[domain.Label][]*regexp.Regexp, len(domain.AllLabels))
	for _, label := range domain.AllLabels {
		kw := keywordAlternation(label)
		tight[label] = []*regexp.Regexp{
			regexp.MustCompile(fmt.Sprintf(`(?i)(\d+)%%\s*(?:%s)`, kw)),
			regexp.MustCompile(fmt.Sprintf(`(?i)(?:%s)\s*(\d+)%%`, kw)),
		}
	}
	return &Reconciler{params: params, tight: tight}
}

// Reconcile resolves the set into a triple. units carries the original text
// units (element texts, transcript lines) for the structural fallback.
// allowEstimate enables the lone-player estimation tier; only the image
// pipeline opts in. The second return is false when too little evidence
// exists for a trustworthy triple.
func (r *Reconciler) Reconcile(set domain.CandidateSet, units []string, allowEstimate bool) (domain.Triple, bool) {
	resolved := make(map[domain.Label]float64, 3)
	for _, label := range domain.AllLabels {
		if value, ok := r.vote(set.Values(label)); ok {
			resolved[label] = value
		}
	}

	if len(resolved) < len(domain.AllLabels) {
		r.structuralFallback(units, resolved)
	}

	player, hasPlayer := resolved[domain.LabelPlayer]
	banker, hasBanker := resolved[domain.LabelBanker]
	tie, hasTie := resolved[domain.LabelTie]

	switch {
	case hasPlayer && hasBanker && hasTie:
		return domain.Triple{Player: player, Banker: banker, Tie: tie}, true

	case hasPlayer && hasBanker:
		// Two of three: the residual is derivable. Never the other way
		// around; a lone value must not seed a fabricated triple.
		tie = 100 - player - banker
		if tie < 0 {
			tie = 0
		}
		return domain.Triple{Player: player, Banker: banker, Tie: tie, Derived: true}, true

	case allowEstimate && hasPlayer && !hasBanker && !hasTie:
		banker = (100 - player) * r.params.EstimateSplit
		if banker < 0 {
			banker = 0
		}
		tie = 100 - player - banker
		if tie < 0 {
			tie = 0
		}
		return domain.Triple{Player: player, Banker: banker, Tie: tie, Estimated: true}, true
	}

	return domain.Triple{}, false
}

// vote picks the most frequent value; equally frequent values break toward
// the larger one, since truncated OCR reads under-report.
func (r *Reconciler) vote(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	var winner float64
	winnerCount := -1
	for value, count := range counts {
		if count > winnerCount {
			winner, winnerCount = value, count
			continue
		}
		if count == winnerCount {
			if r.params.PreferLarger && value > winner {
				winner = value
			}
			if !r.params.PreferLarger && value < winner {
				winner = value
			}
		}
	}
	return winner, true
}

// structuralFallback re-scans the original text units with the tight
// "number directly adjacent to keyword" patterns and takes the first match
// for each still-unresolved label.
func (r *Reconciler) structuralFallback(units []string, resolved map[domain.Label]float64) {
	for _, label := range domain.AllLabels {
		if _, ok := resolved[label]; ok {
			continue
		}
	unit:
		for _, unit := range units {
			for _, pattern := range r.tight[label] {
				groups := pattern.FindStringSubmatch(unit)
				if groups == nil {
					continue
				}
				value, err := strconv.ParseFloat(groups[1], 64)
				if err != nil || value < 0 || value > 100 {
					continue
				}
				resolved[label] = value
				break unit
			}
		}
	}
}
