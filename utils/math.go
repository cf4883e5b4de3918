package utils

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Clamp01 bounds a score to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
