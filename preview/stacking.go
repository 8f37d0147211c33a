package preview

// Stacking nests objects that are close in both time and position so they
// don't fully overlap on screen.

const (
	stackDistance = 3.0 // playfield units
	stackNudge    = 5.2 // diagonal offset per stack level
)

// ResolveStacks assigns a stack index per object. For each circle, slider or
// hold it scans backward through immediately preceding non-spinner objects
// while the time gap stays within preempt * leniency; the scan is a prefix
// walk because objects are ordered by ascending time. Candidates within
// stackDistance contribute max(candidate index) + 1.
func ResolveStacks(objects []HitObject, preemptMs, leniency float64) []int {
	window := preemptMs * clamp(leniency, 0, 2)
	stacks := make([]int, len(objects))
	for i := range objects {
		if objects[i].Kind == KindSpinner {
			continue
		}
		best := -1
		for j := i - 1; j >= 0; j-- {
			if float64(objects[i].Time-objects[j].Time) > window {
				break
			}
			if objects[j].Kind == KindSpinner {
				continue
			}
			dx := objects[i].X - objects[j].X
			dy := objects[i].Y - objects[j].Y
			if dx*dx+dy*dy <= stackDistance*stackDistance && stacks[j] > best {
				best = stacks[j]
			}
		}
		stacks[i] = best + 1
	}
	return stacks
}

// stackOffset is the render-time nudge for a stack level.
func stackOffset(index int) Point {
	return Point{X: -stackNudge * float64(index), Y: -stackNudge * float64(index)}
}
