package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BacBoScanner/internal/domain"
)

func newTestValidator(params Params) (*Validator, time.Time) {
	fixed := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
	v := NewValidator(params)
	v.now = func() time.Time { return fixed }
	return v, fixed
}

func TestValidateSumBandIsInclusive(t *testing.T) {
	v, _ := newTestValidator(DefaultParams())

	cases := []struct {
		sum      float64
		accepted bool
	}{
		{84, false},
		{85, true},
		{100, true},
		{110, true},
		{111, false},
	}
	for _, tc := range cases {
		triple := domain.Triple{Player: tc.sum - 20, Banker: 15, Tie: 5}
		_, ok := v.Validate(triple)
		assert.Equal(t, tc.accepted, ok, "sum %v", tc.sum)
	}
}

func TestValidateDerivedEscapesBand(t *testing.T) {
	v, _ := newTestValidator(DefaultParams())

	// A clamped residual can push the sum out of band; the derived form
	// with non-negative components still passes.
	triple := domain.Triple{Player: 70, Banker: 70, Tie: 0, Derived: true}
	reading, ok := v.Validate(triple)
	require.True(t, ok)
	assert.True(t, reading.Derived)

	_, ok = v.Validate(domain.Triple{Player: 70, Banker: 70, Tie: 0})
	assert.False(t, ok)
}

func TestValidateDerivedRejectsNegativeComponents(t *testing.T) {
	v, _ := newTestValidator(DefaultParams())
	_, ok := v.Validate(domain.Triple{Player: 70, Banker: -3, Tie: 60, Derived: true})
	assert.False(t, ok)
}

func TestValidatePlayerWinningStrictlyAbove50(t *testing.T) {
	v, _ := newTestValidator(DefaultParams())

	reading, ok := v.Validate(domain.Triple{Player: 51, Banker: 40, Tie: 9})
	require.True(t, ok)
	assert.True(t, reading.PlayerWinning)

	reading, ok = v.Validate(domain.Triple{Player: 50, Banker: 41, Tie: 9})
	require.True(t, ok)
	assert.False(t, reading.PlayerWinning)
}

func TestValidateStampsReading(t *testing.T) {
	v, fixed := newTestValidator(DefaultParams())
	reading, ok := v.Validate(domain.Triple{Player: 44, Banker: 44, Tie: 12})
	require.True(t, ok)
	assert.Equal(t, fixed, reading.Timestamp)
	assert.Equal(t, 44.0, reading.PlayerPercent)
	assert.Equal(t, 44.0, reading.BankerPercent)
	assert.Equal(t, 12.0, reading.TiePercent)
}
