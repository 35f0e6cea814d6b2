package progression

import "math"

// PerLessonWeight is the share of the course one lesson is worth, in percent.
func PerLessonWeight(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 100 / float64(n)
}

// OverallProgress converts a completed count into a whole percentage capped at 100.
func OverallProgress(completed, n int) int {
	p := int(math.Round(float64(completed) * PerLessonWeight(n)))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// IsComplete reports whether every lesson of a non-empty course is completed.
func IsComplete(completed, n int) bool {
	return n > 0 && completed == n
}
