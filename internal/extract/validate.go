package extract

import (
	"time"

	"BacBoScanner/internal/domain"
)

// Validator applies the plausibility check that decides whether a
// reconciled triple may leave the core.
type Validator struct {
	params Params
	now    func() time.Time
}

// NewValidator builds a validator using the wall clock.
func NewValidator(params Params) *Validator {
	return &Validator{params: params, now: time.Now}
}

// Validate accepts a triple when its sum falls inside the tolerance band,
// or when the triple was derived/estimated and both computed components are
// non-negative. Accepted triples become the cycle's reading; anything else
// is a "no result" for this cycle, never an error.
func (v *Validator) Validate(t domain.Triple) (*domain.Reading, bool) {
	sum := t.Sum()
	plausible := sum >= v.params.SumMin && sum <= v.params.SumMax
	if !plausible {
		if !t.Derived && !t.Estimated {
			return nil, false
		}
		if t.Banker < 0 || t.Tie < 0 {
			return nil, false
		}
	}

	return &domain.Reading{
		PlayerPercent: t.Player,
		BankerPercent: t.Banker,
		TiePercent:    t.Tie,
		PlayerWinning: t.Player > 50,
		Derived:       t.Derived,
		Timestamp:     v.now(),
	}, true
}
