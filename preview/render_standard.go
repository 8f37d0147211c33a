package preview

// Standard mode: approach circles, slider bodies with a travelling ball,
// spinners, and follow points between same-combo neighbours. Future objects
// are emitted first so current/past objects draw on top.

const (
	standardLookaheadPadMs = 220.0
	standardLookbehindMs   = 70.0
)

func renderStandard(t float64, m *MapData, d *derivedState) []DrawOp {
	preempt := PreemptMs(m.ApproachRate)
	radius := CircleRadius(m.CircleSize)
	lookahead := preempt + standardLookaheadPadMs

	var visible []int
	for i := range m.Objects {
		obj := &m.Objects[i]
		if float64(obj.Time) <= t+lookahead && float64(obj.EndTime) >= t-standardLookbehindMs {
			visible = append(visible, i)
		}
	}

	var ops []DrawOp
	ops = append(ops, followPointOps(t, m, d, preempt)...)
	for k := len(visible) - 1; k >= 0; k-- {
		ops = append(ops, standardObjectOps(t, m, d, visible[k], radius, preempt)...)
	}
	return ops
}

func standardObjectOps(t float64, m *MapData, d *derivedState, i int, radius, preempt float64) []DrawOp {
	obj := &m.Objects[i]
	colour := d.colour(m, i)

	fadeWindow := fadeOutSliderMs
	if obj.Kind == KindCircle || obj.Kind == KindHold {
		fadeWindow = fadeOutCircleMs
	}

	var alpha, fadeIn float64
	switch {
	case t < float64(obj.Time):
		fadeIn = clamp(1-(float64(obj.Time)-t)/preempt, 0, 1)
		alpha = fadeInAlpha(fadeIn)
	case t <= float64(obj.EndTime):
		fadeIn = 1
		alpha = 1
	default:
		fadeIn = 1
		alpha = fadeOutAlpha(t-float64(obj.EndTime), fadeWindow)
	}
	if alpha <= 0 {
		return nil
	}

	if obj.Kind == KindSpinner {
		return spinnerOps(t, obj, alpha)
	}

	pos := d.position(m, i)
	var ops []DrawOp

	if obj.Kind == KindSlider {
		path := d.sliderPath(m, i)
		body := colour.Darken(0.55).WithAlpha(alpha * 0.75)
		for j := 1; j < len(path.Points); j++ {
			ops = append(ops, DrawOp{
				Shape:  ShapeSegment,
				X:      path.Points[j-1].X,
				Y:      path.Points[j-1].Y,
				X2:     path.Points[j].X,
				Y2:     path.Points[j].Y,
				Stroke: radius * 2,
				Colour: body,
			})
		}
		if t >= float64(obj.Time) && t <= float64(obj.EndTime) {
			ball := sliderBallPosition(path, obj, t)
			ops = append(ops, DrawOp{Shape: ShapeCircle, X: ball.X, Y: ball.Y, R: radius * 0.9, Colour: rgb(255, 255, 255).WithAlpha(alpha)})
			ops = append(ops, DrawOp{Shape: ShapeArc, X: ball.X, Y: ball.Y, R: radius * 1.1, Stroke: 2, Colour: colour.Lighten(0.4).WithAlpha(alpha)})
		}
	}

	ops = append(ops,
		DrawOp{Shape: ShapeCircle, X: pos.X, Y: pos.Y, R: radius, Colour: colour.WithAlpha(alpha)},
		DrawOp{Shape: ShapeArc, X: pos.X, Y: pos.Y, R: radius, Stroke: 3, Colour: colour.Lighten(0.6).WithAlpha(alpha)},
	)
	if t < float64(obj.Time) {
		ops = append(ops, DrawOp{
			Shape:  ShapeArc,
			X:      pos.X,
			Y:      pos.Y,
			R:      radius * approachScale(fadeIn),
			Stroke: 2,
			Colour: colour.Lighten(0.3).WithAlpha(alpha),
		})
	}
	return ops
}

func spinnerOps(t float64, obj *HitObject, alpha float64) []DrawOp {
	cx, cy := PlayfieldWidth/2, PlayfieldHeight/2
	duration := float64(obj.EndTime - obj.Time)
	progress := 0.0
	if duration > 0 {
		progress = clamp((t-float64(obj.Time))/duration, 0, 1)
	}
	outer := 160 - 130*progress
	grey := rgb(200, 200, 200)
	return []DrawOp{
		{Shape: ShapeArc, X: cx, Y: cy, R: outer, Stroke: 6, Colour: grey.WithAlpha(alpha * 0.9)},
		{Shape: ShapeCircle, X: cx, Y: cy, R: 8, Colour: grey.WithAlpha(alpha)},
	}
}

// sliderBallPosition maps a time within [Time, EndTime] to a point on the
// path, ping-ponging across repeat spans.
func sliderBallPosition(p *Path, obj *HitObject, t float64) Point {
	duration := float64(obj.EndTime - obj.Time)
	if duration <= 0 || obj.Slides < 1 {
		return p.At(0)
	}
	span := duration / float64(obj.Slides)
	elapsed := clamp(t-float64(obj.Time), 0, duration)
	idx := int(elapsed / span)
	if idx > obj.Slides-1 {
		idx = obj.Slides - 1
	}
	progress := (elapsed - float64(idx)*span) / span
	if idx%2 == 1 {
		progress = 1 - progress
	}
	return p.At(progress * p.Total)
}

// sliderEndPosition is where a slider leaves the ball when it completes.
func sliderEndPosition(p *Path, obj *HitObject) Point {
	if obj.Slides%2 == 0 {
		return p.At(0)
	}
	return p.At(p.Total)
}

// followPointOps connects consecutive objects in the same colour group with
// a faint segment that fades with the later object.
func followPointOps(t float64, m *MapData, d *derivedState, preempt float64) []DrawOp {
	var ops []DrawOp
	for i := 0; i+1 < len(m.Objects); i++ {
		a, b := &m.Objects[i], &m.Objects[i+1]
		if a.Kind == KindSpinner || b.Kind == KindSpinner || b.NewCombo {
			continue
		}
		if d.combos[i] != d.combos[i+1] {
			continue
		}
		if float64(b.Time) > t+preempt || float64(b.Time) < t-fadeOutSliderMs {
			continue
		}

		var alpha float64
		if t < float64(b.Time) {
			alpha = fadeInAlpha(clamp(1-(float64(b.Time)-t)/preempt, 0, 1))
		} else {
			alpha = fadeOutAlpha(t-float64(b.Time), fadeOutSliderMs)
		}
		if alpha <= 0 {
			continue
		}

		from := d.position(m, i)
		if a.Kind == KindSlider {
			from = sliderEndPosition(d.sliderPath(m, i), a)
		}
		to := d.position(m, i+1)
		ops = append(ops, DrawOp{
			Shape:  ShapeSegment,
			X:      from.X,
			Y:      from.Y,
			X2:     to.X,
			Y2:     to.Y,
			Stroke: 2,
			Colour: d.colour(m, i).Lighten(0.7).WithAlpha(alpha * 0.45),
		})
	}
	return ops
}
