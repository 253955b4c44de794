package calculator

import "math"

// Percentile ranks current within history using a strict less-than
// count: (values below current) / total * 100. Ties at the current value
// therefore understate the rank slightly. NaN entries are ignored.
// Returns ErrInsufficientData on an empty history.
func Percentile(current float64, history []float64) (float64, error) {
	clean := history[:0:0]
	for _, v := range history {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0, ErrInsufficientData
	}
	below := 0
	for _, v := range clean {
		if v < current {
			below++
		}
	}
	return float64(below) / float64(len(clean)) * 100, nil
}
