package preview

import "math"

// Mania mode: notes scroll down fixed lanes toward a receptor line. Scroll
// speed follows difficulty, and judged notes linger for a few pixels' worth
// of time instead of vanishing exactly at their hit time.

const (
	maniaReceptorY  = 360.0
	maniaNoteHeight = 14.0

	// Post-judge pixel tolerance, converted to a time delay per map.
	maniaLingerPx = 16.0
)

func maniaLaneCount(cs float64) int {
	return clampInt(int(math.Round(cs)), 1, 10)
}

// maniaLookaheadMs derives scroll lookahead from difficulty: harder maps
// scroll faster, so notes spawn closer to their hit time.
func maniaLookaheadMs(m *MapData) float64 {
	diff := clamp(m.OverallDifficulty, 0, 10)
	progress := math.Pow(diff/10, 0.95)
	return 1500 - progress*1100
}

func renderMania(t float64, m *MapData, d *derivedState) []DrawOp {
	lanes := maniaLaneCount(m.CircleSize)
	lookahead := maniaLookaheadMs(m)
	speed := maniaReceptorY / lookahead // px per ms
	lingerMs := maniaLingerPx / speed
	laneW := PlayfieldWidth / float64(lanes)

	ops := []DrawOp{
		{Shape: ShapeSegment, X: 0, Y: maniaReceptorY, X2: PlayfieldWidth, Y2: maniaReceptorY, Stroke: 2, Colour: rgb(200, 200, 200).WithAlpha(0.8)},
	}
	for l := 1; l < lanes; l++ {
		x := float64(l) * laneW
		ops = append(ops, DrawOp{Shape: ShapeSegment, X: x, Y: 0, X2: x, Y2: maniaReceptorY, Stroke: 1, Colour: rgb(90, 90, 90).WithAlpha(0.35)})
	}

	for i := len(m.Objects) - 1; i >= 0; i-- {
		obj := &m.Objects[i]
		if float64(obj.Time) > t+lookahead || float64(obj.EndTime) < t-lingerMs {
			continue
		}
		lane := clampInt(int(obj.X*float64(lanes)/PlayfieldWidth), 0, lanes-1)
		laneX := float64(lane) * laneW
		colour := maniaLaneColour(lane, lanes)

		alpha := 1.0
		if t > float64(obj.EndTime) {
			alpha = fadeOutAlpha(t-float64(obj.EndTime), lingerMs)
		}
		if alpha <= 0 {
			continue
		}

		headY := maniaReceptorY - (float64(obj.Time)-t)*speed
		if headY > maniaReceptorY {
			headY = maniaReceptorY
		}

		if obj.Kind == KindHold || obj.Kind == KindSlider {
			tailY := maniaReceptorY - (float64(obj.EndTime)-t)*speed
			if tailY > maniaReceptorY {
				tailY = maniaReceptorY
			}
			// Body never renders past the receptor line.
			if headY > tailY {
				ops = append(ops, DrawOp{
					Shape:  ShapeRect,
					X:      laneX + 5,
					Y:      tailY,
					X2:     laneW - 10,
					Y2:     headY - tailY,
					Colour: colour.Darken(0.35).WithAlpha(alpha * 0.8),
				})
			}
			ops = append(ops, DrawOp{
				Shape:  ShapeRect,
				X:      laneX + 2,
				Y:      tailY - maniaNoteHeight/2,
				X2:     laneW - 4,
				Y2:     maniaNoteHeight,
				Colour: colour.WithAlpha(alpha),
			})
		}

		ops = append(ops, DrawOp{
			Shape:  ShapeRect,
			X:      laneX + 2,
			Y:      headY - maniaNoteHeight,
			X2:     laneW - 4,
			Y2:     maniaNoteHeight,
			Colour: colour.WithAlpha(alpha),
		})
	}
	return ops
}

// maniaLaneColour follows the usual skin convention: alternating white/blue
// with a yellow centre lane on odd key counts.
func maniaLaneColour(lane, lanes int) RGBA {
	if lanes%2 == 1 && lane == lanes/2 {
		return rgb(255, 204, 0)
	}
	if lane%2 == 0 {
		return rgb(240, 240, 240)
	}
	return rgb(90, 160, 255)
}
