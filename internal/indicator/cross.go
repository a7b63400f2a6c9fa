package indicator

// CrossOver: a[i-1] <= b[i-1] && a[i] > b[i].
func CrossOver(a, b []float64, i int) bool {
	if i < 1 || i >= len(a) || i >= len(b) {
		return false
	}
	return a[i-1] <= b[i-1] && a[i] > b[i]
}

// CrossUnder: a[i-1] >= b[i-1] && a[i] < b[i].
func CrossUnder(a, b []float64, i int) bool {
	if i < 1 || i >= len(a) || i >= len(b) {
		return false
	}
	return a[i-1] >= b[i-1] && a[i] < b[i]
}
