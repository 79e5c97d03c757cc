package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelString(t *testing.T) {
	assert.Equal(t, "player", LabelPlayer.String())
	assert.Equal(t, "banker", LabelBanker.String())
	assert.Equal(t, "tie", LabelTie.String())
	assert.Panics(t, func() { _ = Label(7).String() })
}

func TestCandidateSetKeepsDuplicates(t *testing.T) {
	set := NewCandidateSet()
	set.Add(LabelPlayer, 44, "a")
	set.Add(LabelPlayer, 44, "b")

	assert.Equal(t, []float64{44, 44}, set.Values(LabelPlayer))
	assert.True(t, set.Has(LabelPlayer))
	assert.False(t, set.Has(LabelBanker))
	assert.False(t, set.Empty())
}

func TestCandidateSetMerge(t *testing.T) {
	a := NewCandidateSet()
	a.Add(LabelPlayer, 44, "main")
	b := NewCandidateSet()
	b.Add(LabelPlayer, 46, "iframe-0")
	b.Add(LabelBanker, 44, "iframe-0")

	a.Merge(b)
	assert.Equal(t, []float64{44, 46}, a.Values(LabelPlayer))
	assert.Equal(t, []float64{44}, a.Values(LabelBanker))
}

func TestTripleSumAndValue(t *testing.T) {
	triple := Triple{Player: 44, Banker: 44, Tie: 12}
	assert.Equal(t, 100.0, triple.Sum())
	assert.Equal(t, 44.0, triple.Value(LabelPlayer))
	assert.Equal(t, 12.0, triple.Value(LabelTie))
}
