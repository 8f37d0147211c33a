package preview

// Taiko mode: notes travel right-to-left toward a fixed receptor at constant
// speed. Hit-sound bits classify don vs kat; the finish bit enlarges the
// note. Sliders and holds become rolls, spinners a shrinking ring.

const (
	taikoLookaheadMs  = 1900.0
	taikoLookbehindMs = 320.0

	taikoReceptorX   = 96.0
	taikoLaneY       = PlayfieldHeight / 2
	taikoNoteRadius  = 24.0
	taikoFinishScale = 1.38
)

var (
	taikoDonColour  = rgb(235, 69, 44)
	taikoKatColour  = rgb(67, 142, 172)
	taikoRollColour = rgb(252, 184, 6)
	taikoGrey       = rgb(160, 160, 160)
)

func renderTaiko(t float64, m *MapData, d *derivedState) []DrawOp {
	speed := (PlayfieldWidth - taikoReceptorX) / taikoLookaheadMs
	noteX := func(timeMs int) float64 {
		return taikoReceptorX + (float64(timeMs)-t)*speed
	}

	ops := []DrawOp{
		{Shape: ShapeSegment, X: 0, Y: taikoLaneY, X2: PlayfieldWidth, Y2: taikoLaneY, Stroke: 1, Colour: taikoGrey.WithAlpha(0.4)},
		{Shape: ShapeArc, X: taikoReceptorX, Y: taikoLaneY, R: taikoNoteRadius + 6, Stroke: 3, Colour: taikoGrey.WithAlpha(0.9)},
	}

	for i := len(m.Objects) - 1; i >= 0; i-- {
		obj := &m.Objects[i]
		if float64(obj.Time) > t+taikoLookaheadMs || float64(obj.EndTime) < t-taikoLookbehindMs {
			continue
		}
		alpha := 1.0
		if t > float64(obj.EndTime) {
			alpha = fadeOutAlpha(t-float64(obj.EndTime), taikoLookbehindMs)
		}
		if alpha <= 0 {
			continue
		}

		radius := taikoNoteRadius
		if obj.HitSound&soundFinish != 0 {
			radius *= taikoFinishScale
		}

		switch obj.Kind {
		case KindSlider, KindHold:
			head, tail := noteX(obj.Time), noteX(obj.EndTime)
			ops = append(ops,
				DrawOp{Shape: ShapeRect, X: head, Y: taikoLaneY - radius, X2: tail - head, Y2: radius * 2, Colour: taikoRollColour.Darken(0.25).WithAlpha(alpha * 0.85)},
				DrawOp{Shape: ShapeCircle, X: head, Y: taikoLaneY, R: radius, Colour: taikoRollColour.WithAlpha(alpha)},
				DrawOp{Shape: ShapeCircle, X: tail, Y: taikoLaneY, R: radius, Colour: taikoRollColour.WithAlpha(alpha)},
			)

		case KindSpinner:
			duration := float64(obj.EndTime - obj.Time)
			progress := 0.0
			if duration > 0 {
				progress = clamp((t-float64(obj.Time))/duration, 0, 1)
			}
			ops = append(ops, DrawOp{
				Shape:  ShapeArc,
				X:      noteX(obj.Time),
				Y:      taikoLaneY,
				R:      (taikoNoteRadius + 22) * (1 - 0.7*progress),
				Stroke: 4,
				Colour: taikoGrey.Lighten(0.3).WithAlpha(alpha),
			})

		default:
			colour := taikoDonColour
			if obj.HitSound&(soundWhistle|soundClap) != 0 {
				colour = taikoKatColour
			}
			x := noteX(obj.Time)
			ops = append(ops,
				DrawOp{Shape: ShapeCircle, X: x, Y: taikoLaneY, R: radius, Colour: colour.WithAlpha(alpha)},
				DrawOp{Shape: ShapeArc, X: x, Y: taikoLaneY, R: radius, Stroke: 2, Colour: colour.Lighten(0.55).WithAlpha(alpha)},
			)
		}
	}
	return ops
}
