package layout

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/zyedidia/generic/mapset"
)

// Edge is an undirected connection between two grid-adjacent cells.
// A is always the lesser cell so an edge and its reverse compare equal.
type Edge struct {
	A, B geom.GridCell
}

// NewEdge returns the normalized edge between a and b.
func NewEdge(a, b geom.GridCell) Edge {
	if b.Less(a) {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Other returns the endpoint that is not c.
func (e Edge) Other(c geom.GridCell) geom.GridCell {
	if e.A == c {
		return e.B
	}
	return e.A
}

func (e Edge) String() string {
	return fmt.Sprintf("%s-%s", e.A, e.B)
}

// LevelGraph is the abstract room adjacency graph. Cells and Edges keep
// insertion order so iteration is reproducible for a given seed.
type LevelGraph struct {
	Start geom.GridCell
	End   geom.GridCell
	Cells []geom.GridCell
	Edges []Edge

	cells mapset.Set[geom.GridCell]
	edges mapset.Set[Edge]
}

// NewLevelGraph creates a graph holding only the start cell.
func NewLevelGraph(start geom.GridCell) *LevelGraph {
	g := &LevelGraph{
		Start: start,
		End:   start,
		cells: mapset.New[geom.GridCell](),
		edges: mapset.New[Edge](),
	}
	g.AddCell(start)
	return g
}

// AddCell registers a cell. Adding a known cell is a no-op.
func (g *LevelGraph) AddCell(c geom.GridCell) {
	if g.cells.Has(c) {
		return
	}
	g.cells.Put(c)
	g.Cells = append(g.Cells, c)
}

// Connect adds the edge between a and b, registering both cells.
// It reports false for self loops, non-adjacent cells and duplicates.
func (g *LevelGraph) Connect(a, b geom.GridCell) bool {
	if _, err := geom.DirectionOf(geom.GridCell{X: b.X - a.X, Y: b.Y - a.Y}); err != nil {
		return false
	}
	e := NewEdge(a, b)
	if g.edges.Has(e) {
		return false
	}
	g.AddCell(a)
	g.AddCell(b)
	g.edges.Put(e)
	g.Edges = append(g.Edges, e)
	return true
}

// HasCell reports whether c was generated.
func (g *LevelGraph) HasCell(c geom.GridCell) bool {
	return g.cells.Has(c)
}

// Connected reports whether an edge joins a and b in either direction.
func (g *LevelGraph) Connected(a, b geom.GridCell) bool {
	return g.edges.Has(NewEdge(a, b))
}

// Size returns the number of generated cells.
func (g *LevelGraph) Size() int {
	return g.cells.Size()
}

// Pattern returns the realized door pattern of c from the committed edges.
func (g *LevelGraph) Pattern(c geom.GridCell) geom.ConnectionPattern {
	var p geom.ConnectionPattern
	for _, d := range geom.AllDirections() {
		if g.Connected(c, c.Neighbor(d)) {
			p = p.With(d)
		}
	}
	return p
}

// Neighbors returns the connected neighbours of c in Up, Right, Down, Left order.
func (g *LevelGraph) Neighbors(c geom.GridCell) []geom.GridCell {
	var out []geom.GridCell
	for _, d := range geom.AllDirections() {
		n := c.Neighbor(d)
		if g.Connected(c, n) {
			out = append(out, n)
		}
	}
	return out
}

// Distances runs a breadth-first search from the start cell and returns the
// hop count of every reachable cell together with the visit order.
func (g *LevelGraph) Distances() (map[geom.GridCell]int, []geom.GridCell) {
	distance := map[geom.GridCell]int{g.Start: 0}
	order := []geom.GridCell{g.Start}

	for i := 0; i < len(order); i++ {
		current := order[i]
		for _, n := range g.Neighbors(current) {
			if _, seen := distance[n]; seen || !g.cells.Has(n) {
				continue
			}
			distance[n] = distance[current] + 1
			order = append(order, n)
		}
	}
	return distance, order
}

// IsConnected reports whether every cell is reachable from the start cell.
func (g *LevelGraph) IsConnected() bool {
	distance, _ := g.Distances()
	return len(distance) == g.cells.Size()
}

// Bounds returns the min and max cell coordinates.
func (g *LevelGraph) Bounds() (geom.GridCell, geom.GridCell) {
	lo, hi := g.Start, g.Start
	for _, c := range g.Cells {
		lo.X, lo.Y = min(lo.X, c.X), min(lo.Y, c.Y)
		hi.X, hi.Y = max(hi.X, c.X), max(hi.Y, c.Y)
	}
	return lo, hi
}

// EdgeList renders the edges on one line for logging.
func (g *LevelGraph) EdgeList() string {
	parts := make([]string, len(g.Edges))
	for i, e := range g.Edges {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}
