package crud

// Sum adds up a numeric field
func Sum[V any](items []V, get func(V) float64) float64 {
	var total float64
	for _, item := range items {
		total += get(item)
	}
	return total
}

// Average returns 0 for an empty list
func Average[V any](items []V, get func(V) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return Sum(items, get) / float64(len(items))
}

// CountWhere counts the items matching pred
func CountWhere[V any](items []V, pred func(V) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}
