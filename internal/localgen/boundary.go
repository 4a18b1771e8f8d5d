package localgen

import "darktower-backend/internal/grid"

// EdgeDirection names a chunk side.
type EdgeDirection uint8

const (
	EdgeNorth EdgeDirection = iota
	EdgeSouth
	EdgeEast
	EdgeWest
)

// Opposite returns the facing direction.
func (d EdgeDirection) Opposite() EdgeDirection {
	switch d {
	case EdgeNorth:
		return EdgeSouth
	case EdgeSouth:
		return EdgeNorth
	case EdgeEast:
		return EdgeWest
	default:
		return EdgeEast
	}
}

// ChunkEdge is a one-tile-thick strip of a chunk face: LocalSize columns
// by the full z extent. Index [i][zi] where i runs along the edge and zi
// is z - ZMin.
type ChunkEdge struct {
	Dir   EdgeDirection
	Tiles [LocalSize][grid.ZCount]LocalTile
}

// ExtractEdge copies the outermost strip of the given side.
func (c *LocalChunk) ExtractEdge(dir EdgeDirection) *ChunkEdge {
	e := &ChunkEdge{Dir: dir}
	for i := 0; i < LocalSize; i++ {
		x, y := edgeCell(dir, i)
		for z := ZMin; z <= ZMax; z++ {
			e.Tiles[i][z-ZMin] = c.Get(x, y, z)
		}
	}
	return e
}

// edgeCell maps an index along an edge to the (x, y) of the outermost
// cell on that side.
func edgeCell(dir EdgeDirection, i int) (int, int) {
	switch dir {
	case EdgeNorth:
		return i, 0
	case EdgeSouth:
		return i, LocalSize - 1
	case EdgeEast:
		return LocalSize - 1, i
	default:
		return 0, i
	}
}

// BoundaryConditions carries up to four neighbour edges supplied to the
// generator. Each present edge was extracted from the neighbour's face
// touching this chunk, so it is applied to this chunk's matching side.
type BoundaryConditions struct {
	North *ChunkEdge
	South *ChunkEdge
	East  *ChunkEdge
	West  *ChunkEdge
}

// IsEmpty reports whether no edge is present.
func (b *BoundaryConditions) IsEmpty() bool {
	return b == nil || (b.North == nil && b.South == nil && b.East == nil && b.West == nil)
}

// Edge returns the edge stored for a side, or nil.
func (b *BoundaryConditions) Edge(dir EdgeDirection) *ChunkEdge {
	if b == nil {
		return nil
	}
	switch dir {
	case EdgeNorth:
		return b.North
	case EdgeSouth:
		return b.South
	case EdgeEast:
		return b.East
	default:
		return b.West
	}
}

// SetEdge stores an edge for a side.
func (b *BoundaryConditions) SetEdge(dir EdgeDirection, e *ChunkEdge) {
	switch dir {
	case EdgeNorth:
		b.North = e
	case EdgeSouth:
		b.South = e
	case EdgeEast:
		b.East = e
	default:
		b.West = e
	}
}
