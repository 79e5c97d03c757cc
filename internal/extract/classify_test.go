package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"BacBoScanner/internal/domain"
)

func TestClassifyUnitCombinedStatsRow(t *testing.T) {
	set := domain.NewCandidateSet()
	classifyUnit("PLAYER 70% TIE 5% BANKER 25%", "t", set)

	assert.Equal(t, []float64{70}, set.Values(domain.LabelPlayer))
	assert.Equal(t, []float64{5}, set.Values(domain.LabelTie))
	assert.Equal(t, []float64{25}, set.Values(domain.LabelBanker))
}

func TestClassifyUnitNumberBeforeLabel(t *testing.T) {
	set := domain.NewCandidateSet()
	classifyUnit("70% PLAYER 25% BANKER", "t", set)

	assert.Equal(t, []float64{70}, set.Values(domain.LabelPlayer))
	assert.Equal(t, []float64{25}, set.Values(domain.LabelBanker))
	assert.False(t, set.Has(domain.LabelTie))
}

func TestClassifyUnitSingleSectionTakesAllNumbers(t *testing.T) {
	set := domain.NewCandidateSet()
	classifyUnit("Banca 51% (51%)", "t", set)

	assert.Equal(t, []float64{51, 51}, set.Values(domain.LabelBanker))
	assert.False(t, set.Has(domain.LabelPlayer))
	assert.False(t, set.Has(domain.LabelTie))
}

func TestClassifyUnitIgnoresUnlabeledNumbers(t *testing.T) {
	set := domain.NewCandidateSet()
	classifyUnit("round 17 finished at 44%", "t", set)
	assert.True(t, set.Empty())
}

func TestClassifyUnitIgnoresLabelWithoutNumber(t *testing.T) {
	set := domain.NewCandidateSet()
	classifyUnit("PLAYER wins again", "t", set)
	assert.True(t, set.Empty())
}

func TestClassifyLinesSplitsBlob(t *testing.T) {
	set := domain.NewCandidateSet()
	classifyLines("Bac Bo\nJogador 44%\nEmpate 12%\nBanca 44%\n", "t", set)

	assert.Equal(t, []float64{44}, set.Values(domain.LabelPlayer))
	assert.Equal(t, []float64{12}, set.Values(domain.LabelTie))
	assert.Equal(t, []float64{44}, set.Values(domain.LabelBanker))
}

func TestClassifyWindowsFirstLabelWins(t *testing.T) {
	set := domain.NewCandidateSet()
	classifyWindows("PLAYER BANKER 60%", "t", 50, set)

	assert.Equal(t, []float64{60}, set.Values(domain.LabelPlayer))
	assert.False(t, set.Has(domain.LabelBanker))
}

func TestClassifyWindowsRespectsWindowSize(t *testing.T) {
	// The keyword sits further than the window reaches.
	set := domain.NewCandidateSet()
	classifyWindows("BANKER xxxxxxxxxxxxxxxxxxxx 33%", "t", 5, set)
	assert.True(t, set.Empty())
}
