package game

import (
	"math"

	"coderoom/internal/models"
)

// Distance returns the Euclidean distance between two positions.
func Distance(p, q models.Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Within reports whether the two positions are no further apart than
// triggerDistance. Coincident points satisfy any non-negative trigger
// distance; a negative trigger distance never triggers.
func Within(p, q models.Position, triggerDistance float64) bool {
	if triggerDistance < 0 {
		return false
	}
	return Distance(p, q) <= triggerDistance
}

// Clamp constrains v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
