package preview

// derivedState is the per-open table of values computed from a MapData plus
// the caller's current difficulty interpretation: stack indices, combo
// indices and lazily built slider paths. Keeping these out of the (cached,
// shared) MapData avoids aliasing between opens.
type derivedState struct {
	stacks []int
	combos []int
	paths  map[int]*cachedPath
}

// cachedPath remembers the stack index a path was built with; paths embed
// the stack offset, so a mismatch forces a lazy rebuild on next access.
type cachedPath struct {
	path  *Path
	stack int
}

func newDerivedState(m *MapData) *derivedState {
	d := &derivedState{paths: make(map[int]*cachedPath)}
	d.recompute(m)
	return d
}

// recompute re-runs stacking and combo assignment. Cached paths are not
// swept here; sliderPath rebuilds each one on first use after a mismatch.
func (d *derivedState) recompute(m *MapData) {
	d.stacks = ResolveStacks(m.Objects, PreemptMs(m.ApproachRate), m.StackLeniency)
	d.combos = AssignCombos(m.Objects, len(m.ComboColours))
}

func (d *derivedState) sliderPath(m *MapData, i int) *Path {
	if c, ok := d.paths[i]; ok && c.stack == d.stacks[i] {
		return c.path
	}
	p := buildSliderPath(&m.Objects[i], d.stacks[i])
	d.paths[i] = &cachedPath{path: p, stack: d.stacks[i]}
	return p
}

func (d *derivedState) colour(m *MapData, i int) RGBA {
	return m.ComboColours[d.combos[i]%len(m.ComboColours)]
}

// position is an object's head position with its stack nudge applied.
func (d *derivedState) position(m *MapData, i int) Point {
	off := stackOffset(d.stacks[i])
	return Point{X: m.Objects[i].X + off.X, Y: m.Objects[i].Y + off.Y}
}
