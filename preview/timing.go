package preview

import "math"

// Post-hit fade-out windows (standard mode).
const (
	fadeOutCircleMs = 30.0
	fadeOutSliderMs = 70.0 // also spinners and follow points
)

const approachStartScale = 3.2

// PreemptMs converts an approach rate into the visibility window before an
// object's hit time. AR above 10 keeps extrapolating, capped at 11.
func PreemptMs(ar float64) float64 {
	ar = clamp(ar, 0, 11)
	if ar < 5 {
		return 1800 - 120*ar
	}
	return 1200 - 150*(ar-5)
}

// CircleRadius converts circle size into a drawn radius in playfield units.
func CircleRadius(cs float64) float64 {
	return 54.4 - 4.48*clamp(cs, 0, 10)
}

// approachScale shrinks the approach circle from 3.2x down to 1x of the
// drawn radius as fade-in progress goes 0→1.
func approachScale(progress float64) float64 {
	return approachStartScale - (approachStartScale-1)*clamp(progress, 0, 1)
}

// fadeInAlpha is the fill alpha while an object approaches its hit time.
func fadeInAlpha(progress float64) float64 {
	return 0.82 * math.Pow(clamp(progress, 0, 1), 1.75)
}

// fadeOutAlpha is the linear post-hit fade over the given window.
func fadeOutAlpha(sinceHitMs, windowMs float64) float64 {
	return clamp(1-sinceHitMs/windowMs, 0, 1)
}
