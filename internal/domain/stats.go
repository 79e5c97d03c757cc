package domain

import (
	"fmt"
	"time"
)

// Label is one of the three outcome categories shown on the game page.
type Label int

const (
	LabelPlayer Label = iota
	LabelBanker
	LabelTie
)

// AllLabels lists the closed set in page display order (player, tie, banker
// is the on-screen order, but iteration here follows declaration order).
var AllLabels = []Label{LabelPlayer, LabelBanker, LabelTie}

func (l Label) String() string {
	switch l {
	case LabelPlayer:
		return "player"
	case LabelBanker:
		return "banker"
	case LabelTie:
		return "tie"
	}
	panic(fmt.Sprintf("domain: label out of range: %d", int(l)))
}

// Candidate is a single percentage observation for a label, extracted from
// one source context during one observation cycle.
type Candidate struct {
	Label   Label
	Value   float64
	Context string
}

// CandidateSet groups the observations gathered for each label during one
// cycle. Duplicates are kept on purpose: multiplicity is the consensus
// signal the reconciler votes on.
type CandidateSet map[Label][]Candidate

// NewCandidateSet builds an empty set.
func NewCandidateSet() CandidateSet {
	return make(CandidateSet, len(AllLabels))
}

// Add records one observation. Values outside [0,100] are the caller's
// responsibility to filter.
func (s CandidateSet) Add(label Label, value float64, context string) {
	s[label] = append(s[label], Candidate{Label: label, Value: value, Context: context})
}

// Values returns the raw observed values for a label.
func (s CandidateSet) Values(label Label) []float64 {
	candidates := s[label]
	values := make([]float64, len(candidates))
	for i, c := range candidates {
		values[i] = c.Value
	}
	return values
}

// Has reports whether at least one observation exists for the label.
func (s CandidateSet) Has(label Label) bool {
	return len(s[label]) > 0
}

// Empty reports whether no label has any observation.
func (s CandidateSet) Empty() bool {
	for _, candidates := range s {
		if len(candidates) > 0 {
			return false
		}
	}
	return true
}

// Merge appends all observations from other into s.
func (s CandidateSet) Merge(other CandidateSet) {
	for label, candidates := range other {
		s[label] = append(s[label], candidates...)
	}
}

// Triple is one reconciled value per label.
type Triple struct {
	Player float64
	Banker float64
	Tie    float64

	// Derived marks a tie computed as 100-player-banker rather than observed.
	Derived bool
	// Estimated marks banker/tie inferred from player alone via a fixed split.
	Estimated bool
}

// Sum returns player+banker+tie.
func (t Triple) Sum() float64 {
	return t.Player + t.Banker + t.Tie
}

// Value returns the reconciled value for a label.
func (t Triple) Value(label Label) float64 {
	switch label {
	case LabelPlayer:
		return t.Player
	case LabelBanker:
		return t.Banker
	case LabelTie:
		return t.Tie
	}
	panic(fmt.Sprintf("domain: label out of range: %d", int(label)))
}

// Reading is a validated statistics snapshot, the only entity the extraction
// core surfaces to the monitor and notifier.
type Reading struct {
	PlayerPercent float64
	BankerPercent float64
	TiePercent    float64
	PlayerWinning bool
	Derived       bool
	Timestamp     time.Time
}
