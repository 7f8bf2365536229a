package engine

// RecomputeTotal sums projected points over filled slots. Bench and
// available players never count.
func RecomputeTotal(s State) float64 {
	total := 0.0
	for _, slot := range s.Slots {
		if slot.Occupant != nil {
			total += slot.Occupant.ProjectedPoints
		}
	}
	return total
}
