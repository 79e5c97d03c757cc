package extract

// Params collects the tunable heuristics of the extraction core. The
// defaults were calibrated against the live page; none of them is derivable
// from first principles, so they stay configurable.
type Params struct {
	// MaxElementTextLen skips element texts longer than this as noise.
	MaxElementTextLen int `yaml:"maxElementTextLen"`
	// ContextWindow is the number of characters inspected on each side of a
	// percent match when classifying it by nearby keywords.
	ContextWindow int `yaml:"contextWindow"`
	// AdjacentGap bounds the keyword-to-number distance in the markup
	// adjacency patterns.
	AdjacentGap int `yaml:"adjacentGap"`
	// SumMin/SumMax is the plausibility band for a fully observed triple.
	SumMin float64 `yaml:"sumMin"`
	SumMax float64 `yaml:"sumMax"`
	// TripleSumMin/TripleSumMax is the tighter band used by the transcript
	// three-number fallbacks.
	TripleSumMin float64 `yaml:"tripleSumMin"`
	TripleSumMax float64 `yaml:"tripleSumMax"`
	// EstimateSplit is the banker share of the remainder when estimating
	// from a lone player value.
	EstimateSplit float64 `yaml:"estimateSplit"`
	// PreferLarger breaks equal-frequency votes toward the larger value
	// (truncated OCR reads tend to under-report).
	PreferLarger bool `yaml:"preferLarger"`
	// RefreshRetry reloads the page and repeats the text pipeline once when
	// every source came up empty.
	RefreshRetry bool `yaml:"refreshRetry"`
}

// DefaultParams returns the calibrated defaults.
func DefaultParams() Params {
	return Params{
		MaxElementTextLen: 300,
		ContextWindow:     200,
		AdjacentGap:       200,
		SumMin:            85,
		SumMax:            110,
		TripleSumMin:      90,
		TripleSumMax:      110,
		EstimateSplit:     0.6,
		PreferLarger:      true,
		RefreshRetry:      true,
	}
}
