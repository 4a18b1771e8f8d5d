package paths

import "darktower-backend/internal/grid"

// Bresenham returns the straight line between two tiles, inclusive of
// both endpoints, taking the short way around the east-west wrap.
func Bresenham(from, to grid.TileCoord, width int) []grid.TileCoord {
	// Unwrap the target so the line takes the short direction.
	tx := to.X
	if dx := tx - from.X; dx > width/2 {
		tx -= width
	} else if dx < -width/2 {
		tx += width
	}

	x0, y0 := from.X, from.Y
	x1, y1 := tx, to.Y

	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	var path []grid.TileCoord
	for {
		path = append(path, grid.TileCoord{X: grid.WrapX(x0, width), Y: y0})
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return path
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
