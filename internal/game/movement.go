package game

import "coderoom/internal/models"

// SpriteSize is the rendered character footprint in world units; positions
// are clamped so the sprite stays fully inside the grid.
const SpriteSize = 32

// Bounds is the walkable world rectangle.
type Bounds struct {
	Width  float64
	Height float64
}

// Move applies one axis-aligned step of the given speed and clamps the result
// into [0, dimension-SpriteSize]. An unknown direction leaves the position
// unchanged. Pure and deterministic.
func Move(pos models.Position, dir models.Direction, speed float64, bounds Bounds) models.Position {
	next := pos
	switch dir {
	case models.DirUp:
		next.Y -= speed
	case models.DirDown:
		next.Y += speed
	case models.DirLeft:
		next.X -= speed
	case models.DirRight:
		next.X += speed
	default:
		return pos
	}
	next.X = Clamp(next.X, 0, bounds.Width-SpriteSize)
	next.Y = Clamp(next.Y, 0, bounds.Height-SpriteSize)
	return next
}
