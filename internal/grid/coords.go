package grid

// Scale constants shared by the local chunk layer.
const (
	// LocalSize is the side length of a local chunk in tiles.
	LocalSize = 48
	// ZMin is the deepest z-level (magma sea).
	ZMin = -24
	// ZMax is the highest z-level (open sky).
	ZMax = 16
	// SeaLevelZ is the z-level of sea level.
	SeaLevelZ = 0
)

// ZCount is the number of z-levels in a local chunk.
const ZCount = ZMax - ZMin + 1

// TileCoord identifies an overworld cell. X wraps on map width (torus
// east-west); Y clamps at the poles.
type TileCoord struct {
	X int
	Y int
}

// WrapX wraps an x coordinate onto a map of the given width.
func WrapX(x, width int) int {
	x %= width
	if x < 0 {
		x += width
	}
	return x
}

// ClampY clamps a y coordinate to [0, height).
func ClampY(y, height int) int {
	if y < 0 {
		return 0
	}
	if y >= height {
		return height - 1
	}
	return y
}

// Normalize wraps X and clamps Y for a map of the given dimensions.
func (t TileCoord) Normalize(width, height int) TileCoord {
	return TileCoord{X: WrapX(t.X, width), Y: ClampY(t.Y, height)}
}

// DistanceWrapped returns the Manhattan distance between two tiles with
// x wrapped on the map width and y unwrapped.
func DistanceWrapped(a, b TileCoord, width int) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	if wrapped := width - dx; wrapped < dx {
		dx = wrapped
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// LocalOffset is a position inside a local chunk, in [0, LocalSize).
type LocalOffset struct {
	LX int
	LY int
}

// GlobalLocal is a flat local-scale coordinate across the whole world:
// GX = wx*LocalSize + lx, and analogously for GY.
type GlobalLocal struct {
	GX int
	GY int
}

// FromHierarchical builds a global-local coordinate from a world tile and
// a local offset. The round-trip with WorldTile/LocalOffset is exact.
func FromHierarchical(tile TileCoord, off LocalOffset) GlobalLocal {
	return GlobalLocal{
		GX: tile.X*LocalSize + off.LX,
		GY: tile.Y*LocalSize + off.LY,
	}
}

// WorldTile returns the owning overworld cell.
func (g GlobalLocal) WorldTile() TileCoord {
	return TileCoord{X: floorDiv(g.GX, LocalSize), Y: floorDiv(g.GY, LocalSize)}
}

// LocalOffset returns the offset within the owning chunk.
func (g GlobalLocal) LocalOffset() LocalOffset {
	return LocalOffset{LX: floorMod(g.GX, LocalSize), LY: floorMod(g.GY, LocalSize)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((a < 0) != (b < 0)) {
		m += b
	}
	return m
}
