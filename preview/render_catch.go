package preview

import "math"

// Catch mode: fruit fall along vertical lines toward the catch line while a
// catcher glides between the surrounding objects' x positions. The rendered
// catcher position is smoothed across frames; a long frame gap (tab-away)
// snaps it instead.

const (
	catchFadeOutMs = 16.0

	catchLineY  = 340.0
	catchSpawnY = 40.0

	catcherBlendDtMs = 110.0
	catcherBlendMin  = 0.14
	catcherSnapMs    = 220.0
)

// catcherState is smoothing state private to this renderer, reset per open.
type catcherState struct {
	renderX      float64
	renderTimeMs float64
	valid        bool
}

func renderCatch(t float64, m *MapData, d *derivedState, cs *catcherState) []DrawOp {
	preempt := PreemptMs(m.ApproachRate)
	lookahead := maxf(900, preempt)
	lookbehind := maxf(36, catchFadeOutMs+14)
	speed := (catchLineY - catchSpawnY) / lookahead
	radius := CircleRadius(m.CircleSize)

	ops := []DrawOp{
		{Shape: ShapeSegment, X: 0, Y: catchLineY, X2: PlayfieldWidth, Y2: catchLineY, Stroke: 1, Colour: rgb(160, 160, 160).WithAlpha(0.5)},
	}

	for i := len(m.Objects) - 1; i >= 0; i-- {
		obj := &m.Objects[i]
		if obj.Kind == KindSpinner {
			continue
		}
		if float64(obj.Time) > t+lookahead || float64(obj.EndTime) < t-lookbehind {
			continue
		}

		var alpha float64
		if t <= float64(obj.Time) {
			progress := clamp(1-(float64(obj.Time)-t)/lookahead, 0, 1)
			alpha = math.Pow(progress, 1.2)
		} else {
			alpha = fadeOutAlpha(t-float64(obj.Time), catchFadeOutMs)
		}
		if alpha <= 0 {
			continue
		}

		y := catchLineY - (float64(obj.Time)-t)*speed
		colour := d.colour(m, i)
		ops = append(ops,
			DrawOp{Shape: ShapeCircle, X: obj.X, Y: y, R: radius * 0.7, Colour: colour.WithAlpha(alpha)},
			DrawOp{Shape: ShapeArc, X: obj.X, Y: y, R: radius * 0.7, Stroke: 2, Colour: colour.Lighten(0.5).WithAlpha(alpha)},
		)
	}

	target := catcherTargetX(t, m)
	dt := math.Abs(t - cs.renderTimeMs)
	if !cs.valid || dt > catcherSnapMs {
		cs.renderX = target
		cs.valid = true
	} else {
		blend := clamp(dt/catcherBlendDtMs, catcherBlendMin, 1)
		cs.renderX += (target - cs.renderX) * blend
	}
	cs.renderTimeMs = t

	catcherW := radius * 3.4
	ops = append(ops, DrawOp{
		Shape:  ShapeRect,
		X:      cs.renderX - catcherW/2,
		Y:      catchLineY + 4,
		X2:     catcherW,
		Y2:     12,
		Colour: rgb(255, 255, 255).WithAlpha(0.95),
	})
	return ops
}

// catcherTargetX interpolates between the previous and next non-spinner
// object's x by time fraction.
func catcherTargetX(t float64, m *MapData) float64 {
	prev, next := -1, -1
	for i := range m.Objects {
		if m.Objects[i].Kind == KindSpinner {
			continue
		}
		if float64(m.Objects[i].Time) <= t {
			prev = i
		} else {
			next = i
			break
		}
	}
	switch {
	case prev < 0 && next < 0:
		return PlayfieldWidth / 2
	case prev < 0:
		return m.Objects[next].X
	case next < 0:
		return m.Objects[prev].X
	}
	a, b := &m.Objects[prev], &m.Objects[next]
	span := float64(b.Time - a.Time)
	if span <= 0 {
		return b.X
	}
	frac := (t - float64(a.Time)) / span
	return a.X + (b.X-a.X)*frac
}
