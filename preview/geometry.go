package preview

import "math"

// Curve sampling. Sliders declare an authoritative length that can disagree
// slightly with the raw control-point geometry, so every sampled path is
// deduplicated and then trimmed to that exact arc length.

const dedupEpsilon = 0.001

// DedupAdjacent removes consecutive near-duplicate points. Zero-length
// segments break the arc-length walk, so this runs before and after sampling.
func DedupAdjacent(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Point, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		last := out[len(out)-1]
		if math.Abs(p.X-last.X) > dedupEpsilon || math.Abs(p.Y-last.Y) > dedupEpsilon {
			out = append(out, p)
		}
	}
	return out
}

// SampleBezier evaluates a multi-segment Bézier curve. An exactly-repeated
// adjacent control point is an anchor duplication marking a segment boundary.
func SampleBezier(ctrl []Point) []Point {
	if len(ctrl) == 0 {
		return nil
	}
	var segments [][]Point
	cur := []Point{ctrl[0]}
	for _, p := range ctrl[1:] {
		last := cur[len(cur)-1]
		if p.X == last.X && p.Y == last.Y {
			segments = append(segments, cur)
			cur = []Point{p}
			continue
		}
		cur = append(cur, p)
	}
	segments = append(segments, cur)

	var out []Point
	for _, seg := range segments {
		pts := sampleBezierSegment(seg)
		// The boundary point is shared between consecutive segments.
		if len(out) > 0 && len(pts) > 0 && out[len(out)-1] == pts[0] {
			pts = pts[1:]
		}
		out = append(out, pts...)
	}
	return out
}

func sampleBezierSegment(seg []Point) []Point {
	if len(seg) < 2 {
		return append([]Point(nil), seg...)
	}
	length := 0.0
	for i := 1; i < len(seg); i++ {
		length += dist(seg[i-1], seg[i])
	}
	steps := stepCount(length/6, 8, 96)
	out := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		out = append(out, deCasteljau(seg, float64(i)/float64(steps)))
	}
	return out
}

func deCasteljau(ctrl []Point, t float64) Point {
	buf := append([]Point(nil), ctrl...)
	for n := len(buf) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			buf[i] = Point{
				X: buf[i].X + (buf[i+1].X-buf[i].X)*t,
				Y: buf[i].Y + (buf[i+1].Y-buf[i].Y)*t,
			}
		}
	}
	return buf[0]
}

// SampleCatmull evaluates a uniform Catmull-Rom spline, clamping the first
// and last control point to themselves where no neighbour exists.
func SampleCatmull(ctrl []Point) []Point {
	n := len(ctrl)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Point{ctrl[0]}
	}
	var out []Point
	for i := 0; i < n-1; i++ {
		p0 := ctrl[maxi(i-1, 0)]
		p1 := ctrl[i]
		p2 := ctrl[i+1]
		p3 := ctrl[mini(i+2, n-1)]
		steps := stepCount(dist(p1, p2)/8, 6, 48)
		if i == 0 {
			out = append(out, p1)
		}
		for s := 1; s <= steps; s++ {
			out = append(out, catmullPoint(p0, p1, p2, p3, float64(s)/float64(steps)))
		}
	}
	return out
}

func catmullPoint(p0, p1, p2, p3 Point, t float64) Point {
	t2 := t * t
	t3 := t2 * t
	return Point{
		X: 0.5 * (2*p1.X + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3),
		Y: 0.5 * (2*p1.Y + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3),
	}
}

// SamplePerfect fits a circumscribed circle through the first three control
// points and samples the arc. Reports false for fewer than three points or a
// colinear triple; callers fall back to Bézier sampling.
//
// Arc direction is chosen by comparing the angular distance start→mid against
// start→end. Near-degenerate arcs can be misclassified by this heuristic;
// that behaviour is deliberate and pinned by tests.
func SamplePerfect(ctrl []Point) ([]Point, bool) {
	if len(ctrl) < 3 {
		return nil, false
	}
	a, b, c := ctrl[0], ctrl[1], ctrl[2]

	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-8 {
		return nil, false
	}
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	centre := Point{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}
	radius := dist(centre, a)

	angA := math.Atan2(a.Y-centre.Y, a.X-centre.X)
	angB := math.Atan2(b.Y-centre.Y, b.X-centre.X)
	angC := math.Atan2(c.Y-centre.Y, c.X-centre.X)

	toMid := wrapPositive(angB - angA)
	toEnd := wrapPositive(angC - angA)
	sweep := toEnd
	if toMid > toEnd {
		sweep = toEnd - 2*math.Pi
	}

	arcLength := math.Abs(sweep) * radius
	steps := stepCount(arcLength/6, 10, 128)
	out := make([]Point, 0, steps+1)
	for i := 0; i <= steps; i++ {
		ang := angA + sweep*float64(i)/float64(steps)
		out = append(out, Point{
			X: centre.X + math.Cos(ang)*radius,
			Y: centre.Y + math.Sin(ang)*radius,
		})
	}
	return out, true
}

// TrimToLength cuts the path at an exact cumulative arc length, linearly
// interpolating inside the final segment. A target at or beyond the path's
// full length returns the path unchanged.
func TrimToLength(pts []Point, target float64) []Point {
	if len(pts) < 2 || target <= 0 {
		return pts
	}
	walked := 0.0
	for i := 1; i < len(pts); i++ {
		seg := dist(pts[i-1], pts[i])
		if walked+seg >= target && seg > 0 {
			t := (target - walked) / seg
			out := append([]Point(nil), pts[:i]...)
			out = append(out, Point{
				X: pts[i-1].X + (pts[i].X-pts[i-1].X)*t,
				Y: pts[i-1].Y + (pts[i].Y-pts[i-1].Y)*t,
			})
			return out
		}
		walked += seg
	}
	return pts
}

// Path is a sampled polyline with a precomputed cumulative-length table for
// arc-length position lookups.
type Path struct {
	Points []Point
	cum    []float64
	Total  float64
}

func NewPath(pts []Point) *Path {
	p := &Path{Points: pts, cum: make([]float64, len(pts))}
	for i := 1; i < len(pts); i++ {
		p.cum[i] = p.cum[i-1] + dist(pts[i-1], pts[i])
	}
	if len(pts) > 0 {
		p.Total = p.cum[len(pts)-1]
	}
	return p
}

// At returns the point at cumulative arc length d, clamped to the path.
func (p *Path) At(d float64) Point {
	if len(p.Points) == 0 {
		return Point{}
	}
	if d <= 0 || len(p.Points) == 1 {
		return p.Points[0]
	}
	if d >= p.Total {
		return p.Points[len(p.Points)-1]
	}
	i := 1
	for i < len(p.cum) && p.cum[i] < d {
		i++
	}
	seg := p.cum[i] - p.cum[i-1]
	t := (d - p.cum[i-1]) / seg
	return Point{
		X: p.Points[i-1].X + (p.Points[i].X-p.Points[i-1].X)*t,
		Y: p.Points[i-1].Y + (p.Points[i].Y-p.Points[i-1].Y)*t,
	}
}

// buildSliderPath samples, trims and stack-offsets one slider's path.
func buildSliderPath(obj *HitObject, stackIndex int) *Path {
	ctrl := DedupAdjacent(obj.Control)

	var sampled []Point
	switch obj.Curve {
	case CurveLinear:
		sampled = ctrl
	case CurveCatmull:
		sampled = SampleCatmull(ctrl)
	case CurvePerfect:
		if arc, ok := SamplePerfect(ctrl); ok {
			sampled = arc
		} else {
			sampled = SampleBezier(ctrl)
		}
	default:
		sampled = SampleBezier(ctrl)
	}

	sampled = DedupAdjacent(sampled)
	if obj.Length > 0 {
		sampled = TrimToLength(sampled, obj.Length)
	}
	if off := stackOffset(stackIndex); off.X != 0 || off.Y != 0 {
		shifted := make([]Point, len(sampled))
		for i, p := range sampled {
			shifted[i] = Point{p.X + off.X, p.Y + off.Y}
		}
		sampled = shifted
	}
	return NewPath(sampled)
}

func stepCount(raw float64, lo, hi int) int {
	n := int(math.Ceil(raw))
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func wrapPositive(a float64) float64 {
	for a < 0 {
		a += 2 * math.Pi
	}
	for a >= 2*math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

func dist(a, b Point) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

func mini(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}
