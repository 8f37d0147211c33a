package preview

// AssignCombos propagates colour-group indices across the object sequence.
// The index advances on every new-combo flag (except on the very first
// object) by 1 plus the object's combo-skip count, wrapping at colourCount.
// Follow points only connect objects sharing the same index.
func AssignCombos(objects []HitObject, colourCount int) []int {
	combos := make([]int, len(objects))
	if colourCount <= 0 {
		return combos
	}
	idx := 0
	for i, obj := range objects {
		if obj.NewCombo && i > 0 {
			idx = (idx + 1 + obj.ComboSkip) % colourCount
		}
		combos[i] = idx
	}
	return combos
}
