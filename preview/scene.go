// Package preview reconstructs how a beatmap plays: it samples slider curve
// geometry, resolves object stacking and combo colours, and produces a
// drawable scene per frame for all four game modes, driven by an audio-linked
// or free-running clock.
package preview

import "github.com/lucasb-eyer/go-colorful"

// Playfield dimensions shared by every mode.
const (
	PlayfieldWidth  = 512.0
	PlayfieldHeight = 384.0
)

type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeArc
	ShapeSegment
	ShapeRect
)

// RGBA is a draw colour with a separate 0..1 alpha so renderers can fade
// without touching the base colour.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// DrawOp is one draw primitive in playfield space. Interpretation of the
// fields depends on Shape:
//
//	ShapeCircle  — centre (X,Y), radius R, filled when Stroke == 0
//	ShapeArc     — centre (X,Y), radius R, ring of width Stroke
//	ShapeSegment — from (X,Y) to (X2,Y2), width Stroke
//	ShapeRect    — origin (X,Y), size (X2,Y2), filled when Stroke == 0
type DrawOp struct {
	Shape  Shape
	X, Y   float64
	R      float64
	X2, Y2 float64
	Stroke float64
	Colour RGBA
}

// Scene is one frame of drawable state plus the scalars a progress
// indicator needs.
type Scene struct {
	Ops             []DrawOp
	CurrentTimeMs   float64
	TotalDurationMs float64
}

func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Lighten blends toward white by f (0..1).
func (c RGBA) Lighten(f float64) RGBA {
	return c.blend(colorful.Color{R: 1, G: 1, B: 1}, f)
}

// Darken blends toward black by f (0..1).
func (c RGBA) Darken(f float64) RGBA {
	return c.blend(colorful.Color{}, f)
}

func (c RGBA) blend(target colorful.Color, f float64) RGBA {
	src := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	out := src.BlendRgb(target, clamp(f, 0, 1)).Clamped()
	return RGBA{R: uint8(out.R*255 + 0.5), G: uint8(out.G*255 + 0.5), B: uint8(out.B*255 + 0.5), A: c.A}
}

func rgb(r, g, b uint8) RGBA { return RGBA{R: r, G: g, B: b, A: 1} }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
