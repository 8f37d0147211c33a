package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreemptMs(t *testing.T) {
	cases := []struct {
		ar   float64
		want float64
	}{
		{0, 1800},
		{4, 1320},
		{5, 1200},
		{9, 600},
		{9.8, 480},
		{10, 450},
		{11, 300},
		{-3, 1800}, // clamps low
		{15, 300},  // clamps at 11
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, PreemptMs(c.ar), 1e-9, "ar=%v", c.ar)
	}
}

func TestCircleRadius(t *testing.T) {
	assert.InDelta(t, 54.4, CircleRadius(0), 1e-9)
	assert.InDelta(t, 36.48, CircleRadius(4), 1e-9)
	assert.InDelta(t, 32.0, CircleRadius(5), 1e-9)
	assert.InDelta(t, 9.6, CircleRadius(10), 1e-9)
	assert.InDelta(t, 54.4, CircleRadius(-2), 1e-9, "clamps low")
	assert.InDelta(t, 9.6, CircleRadius(14), 1e-9, "clamps high")
}

func TestApproachScale(t *testing.T) {
	assert.InDelta(t, 3.2, approachScale(0), 1e-9)
	assert.InDelta(t, 2.1, approachScale(0.5), 1e-9)
	assert.InDelta(t, 1.0, approachScale(1), 1e-9)
	assert.InDelta(t, 1.0, approachScale(2), 1e-9, "progress clamps")
}

func TestFadeAlpha(t *testing.T) {
	assert.Equal(t, 0.0, fadeInAlpha(0))
	assert.InDelta(t, 0.82, fadeInAlpha(1), 1e-9)
	// Sub-linear early, catches up late.
	assert.Less(t, fadeInAlpha(0.5), 0.41)

	assert.Equal(t, 1.0, fadeOutAlpha(0, fadeOutCircleMs))
	assert.InDelta(t, 0.5, fadeOutAlpha(15, fadeOutCircleMs), 1e-9)
	assert.Equal(t, 0.0, fadeOutAlpha(40, fadeOutCircleMs))
}
