package ecs

// IntersectEntities returns the ids present in every set, in the order of
// the smallest one. A nil set matches nothing.
func IntersectEntities(sets ...*SparseSet) []int {
	if len(sets) == 0 {
		return nil
	}
	smallest := sets[0]
	for _, s := range sets {
		if s == nil {
			return nil
		}
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	out := make([]int, 0, smallest.Len())
next:
	for _, id := range smallest.ids {
		for _, s := range sets {
			if s != smallest && !s.Has(id) {
				continue next
			}
		}
		out = append(out, id)
	}
	return out
}
