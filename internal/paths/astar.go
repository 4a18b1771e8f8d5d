// Package paths builds overworld roads and trade routes: weighted A*
// with road-convergence costs and a Bresenham fallback when the
// iteration cap is exhausted.
package paths

import (
	"container/heap"

	"github.com/rs/zerolog/log"

	"darktower-backend/internal/grid"
	"darktower-backend/internal/metrics"
	"darktower-backend/internal/overworld"
)

// IterationCap bounds A* work per path.
const IterationCap = 10000

// RoadNetwork is the tile-history road layer the builder reads for
// convergence and writes through ApplyPath.
type RoadNetwork interface {
	HasRoad(x, y int) bool
	MarkRoad(x, y int)
}

// Builder finds and applies paths over one world.
type Builder struct {
	world *overworld.WorldData
	roads RoadNetwork
}

// NewBuilder creates a path builder. roads may be nil for cost-only use.
func NewBuilder(world *overworld.WorldData, roads RoadNetwork) *Builder {
	return &Builder{world: world, roads: roads}
}

type node struct {
	coord     grid.TileCoord
	cost      float64
	heuristic float64
	parent    *node
	index     int
}

type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return (pq[i].cost + pq[i].heuristic) < (pq[j].cost + pq[j].heuristic)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n, _ := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

// FindPath returns a path from from to to, both inclusive. When A*
// exhausts its iteration cap the Bresenham line is the path of last
// resort; no error surfaces.
func (b *Builder) FindPath(from, to grid.TileCoord) []grid.TileCoord {
	from = from.Normalize(b.world.Width, b.world.Height)
	to = to.Normalize(b.world.Width, b.world.Height)
	if from == to {
		return []grid.TileCoord{from}
	}

	start := &node{coord: from, heuristic: b.heuristic(from, to)}
	open := &priorityQueue{start}
	heap.Init(open)

	visited := make(map[grid.TileCoord]bool)
	cache := map[grid.TileCoord]*node{from: start}

	for iter := 0; open.Len() > 0; iter++ {
		if iter >= IterationCap {
			metrics.RecordPathFallback()
			log.Warn().
				Int("from_x", from.X).Int("from_y", from.Y).
				Int("to_x", to.X).Int("to_y", to.Y).
				Msg("A* iteration cap hit; falling back to Bresenham")
			return Bresenham(from, to, b.world.Width)
		}

		current, _ := heap.Pop(open).(*node)
		if current.coord == to {
			return reconstruct(current)
		}
		visited[current.coord] = true

		for _, nb := range b.neighbours(current.coord) {
			if visited[nb] {
				continue
			}
			step := b.stepCost(current.coord, nb)
			if step == impassable {
				continue
			}
			newCost := current.cost + step

			nbNode, seen := cache[nb]
			if !seen {
				nbNode = &node{coord: nb, cost: impassable, heuristic: b.heuristic(nb, to)}
				cache[nb] = nbNode
			}
			if newCost < nbNode.cost {
				nbNode.cost = newCost
				nbNode.parent = current
				if !seen {
					heap.Push(open, nbNode)
				} else if nbNode.index >= 0 {
					heap.Fix(open, nbNode.index)
				} else {
					heap.Push(open, nbNode)
				}
			}
		}
	}

	// No route at all (island endpoints): last resort line.
	metrics.RecordPathFallback()
	return Bresenham(from, to, b.world.Width)
}

// ApplyPath marks every cell of a path as road.
func (b *Builder) ApplyPath(path []grid.TileCoord) {
	if b.roads == nil {
		return
	}
	for _, c := range path {
		b.roads.MarkRoad(c.X, c.Y)
	}
}

func (b *Builder) heuristic(from, to grid.TileCoord) float64 {
	// Wrapped Manhattan distance. A diagonal step can cost as little as 1
	// (an existing road) while closing 2 here, so the estimate can exceed
	// the remaining cost and the path found is not always the cheapest.
	return float64(grid.DistanceWrapped(from, to, b.world.Width))
}

// neighbours yields the 8-connected tiles with x wrapped and polar y
// clipped.
func (b *Builder) neighbours(c grid.TileCoord) []grid.TileCoord {
	out := make([]grid.TileCoord, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ny := c.Y + dy
			if ny < 0 || ny >= b.world.Height {
				continue
			}
			out = append(out, grid.TileCoord{X: grid.WrapX(c.X+dx, b.world.Width), Y: ny})
		}
	}
	return out
}

// stepCost prices entering `to`. Roads are near-free; water is
// impassable; crossing a river adds a bridge; cells hugging an existing
// road without being one carry the parallel penalty.
func (b *Builder) stepCost(from, to grid.TileCoord) float64 {
	if b.roads != nil && b.roads.HasRoad(to.X, to.Y) {
		return costRoad
	}

	biome := b.world.BiomeAt(to.X, to.Y)
	cost := biomeStepCost(biome)
	if cost == impassable {
		return impassable
	}

	cost += hillPenalty(b.world.Heightmap.Get(to.X, to.Y))
	cost += wavyPenalty(to.X, to.Y)

	if b.crossesRiver(to) {
		cost += costRiverCrossing
	}

	if b.roads != nil && b.adjacentToRoad(to) {
		cost += parallelPenalty
	}
	return cost
}

func (b *Builder) crossesRiver(c grid.TileCoord) bool {
	if b.world.FlowAccum == nil {
		return false
	}
	return b.world.FlowAccum.Get(c.X, c.Y) > 4
}

// adjacentToRoad scans the 8 neighbours for road presence.
func (b *Builder) adjacentToRoad(c grid.TileCoord) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ny := c.Y + dy
			if ny < 0 || ny >= b.world.Height {
				continue
			}
			if b.roads.HasRoad(grid.WrapX(c.X+dx, b.world.Width), ny) {
				return true
			}
		}
	}
	return false
}

func reconstruct(n *node) []grid.TileCoord {
	var path []grid.TileCoord
	for n != nil {
		path = append(path, n.coord)
		n = n.parent
	}
	// Reverse into from -> to order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
