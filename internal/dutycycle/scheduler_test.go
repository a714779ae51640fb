package dutycycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectsMatchesModulo(t *testing.T) {
	for _, period := range []uint32{1, 2, 4, 16, 64, 1024} {
		for n := uint32(0); n < 4*period+3; n++ {
			assert.Equal(t, n%period == 0, Selects(n, period-1, true), "n=%d period=%d", n, period)
		}
	}
}

func TestSchedulerEvery16th(t *testing.T) {
	s, err := New(16, true)
	require.NoError(t, err)

	var selected []uint32
	for i := 0; i < 49; i++ {
		if s.SampleAccel() {
			selected = append(selected, s.Counter())
		}
		s.Advance()
	}
	assert.Equal(t, []uint32{0, 16, 32, 48}, selected)
}

func TestSchedulerDecisionStableWithoutAdvance(t *testing.T) {
	s, err := New(16, true)
	require.NoError(t, err)

	// a dropped cycle does not advance, so the next attempt repeats the decision
	assert.True(t, s.SampleAccel())
	assert.True(t, s.SampleAccel())
	s.Advance()
	assert.False(t, s.SampleAccel())
}

func TestSchedulerDisabledNeverSelects(t *testing.T) {
	s, err := New(1, false)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		assert.False(t, s.SampleAccel(), "counter=%d", s.Counter())
		s.Advance()
	}
}

func TestSchedulerWrap(t *testing.T) {
	s := &Scheduler{mask: 15, enabled: true, counter: ^uint32(0)}
	assert.False(t, s.SampleAccel())
	s.Advance()
	assert.Equal(t, uint32(0), s.Counter())
	assert.True(t, s.SampleAccel())
}

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	for _, p := range []uint32{0, 3, 15, 17, 100} {
		_, err := New(p, true)
		assert.Error(t, err, "period=%d", p)
	}
	s, err := New(16, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(16), s.Period())
	assert.False(t, s.Enabled())
}
