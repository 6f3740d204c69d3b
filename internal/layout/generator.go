// Package layout builds the abstract room graph of a level: a randomized
// walk over grid cells constrained by the door patterns the catalog can
// satisfy, an exit room chosen as the farthest dead end, and a handful of
// extra loops.
package layout

import (
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/zyedidia/generic/mapset"
)

// MaxAttempts bounds both the walk restarts and the tries per extra edge.
const MaxAttempts = 10

// Result is a generated graph together with how far it got toward its targets.
// A short graph is still usable; callers decide whether to warn or retry.
type Result struct {
	Graph *LevelGraph

	RoomsRequested int
	RoomsGenerated int
	ExtraRequested int
	ExtraAdded     int
}

// Complete reports whether both the room and the extra edge targets were met.
func (r Result) Complete() bool {
	return r.RoomsGenerated == r.RoomsRequested && r.ExtraAdded == r.ExtraRequested
}

type generator struct {
	rng     *rand.Rand
	allowed mapset.Set[geom.ConnectionPattern]
	graph   *LevelGraph
	target  int
}

// Generate builds a graph of up to rooms cells starting at (0, 0), then
// tries to add extra edges. Every cell's pattern is a member of allowed.
func Generate(rng *rand.Rand, rooms, extra int, allowed mapset.Set[geom.ConnectionPattern]) Result {
	if rooms < 1 {
		rooms = 1
	}
	if extra < 0 {
		extra = 0
	}

	g := &generator{
		rng:     rng,
		allowed: allowed,
		graph:   NewLevelGraph(geom.GridCell{}),
		target:  rooms,
	}

	for attempt := 0; attempt < MaxAttempts; attempt++ {
		from := g.graph.Cells[rng.Intn(len(g.graph.Cells))]
		if g.walk(from) {
			break
		}
		logger.Debug("room walk fell short, restarting",
			"attempt", attempt+1,
			"rooms", g.graph.Size(),
			"target", rooms)
	}

	g.graph.End = findEndingRoom(g.graph)
	added := g.addExtraEdges(extra)

	result := Result{
		Graph:          g.graph,
		RoomsRequested: rooms,
		RoomsGenerated: g.graph.Size(),
		ExtraRequested: extra,
		ExtraAdded:     added,
	}

	if result.RoomsGenerated < rooms {
		logger.Warning("level graph is smaller than requested",
			"requested", rooms,
			"generated", result.RoomsGenerated)
	}
	if added < extra {
		logger.Warning("could not place every extra connection",
			"requested", extra,
			"added", added)
	}
	logger.Info("level graph generated",
		"start", g.graph.Start.String(),
		"end", g.graph.End.String(),
		"edges", g.graph.EdgeList())

	return result
}

// walk extends the graph depth first from current. Committed edges are
// kept when a branch dead-ends.
func (g *generator) walk(current geom.GridCell) bool {
	if g.graph.Size() == g.target {
		return true
	}

	for _, d := range geom.ShuffledDirections(g.rng) {
		neighbour := current.Neighbor(d)
		if g.graph.HasCell(neighbour) {
			continue
		}

		// Recomputed each iteration: an earlier branch may have added a door here.
		pattern := g.graph.Pattern(current).With(d)
		if !g.allowed.Has(pattern) || !g.allowed.Has(d.Opposite().Bit()) {
			continue
		}

		g.graph.Connect(current, neighbour)
		if g.walk(neighbour) {
			return true
		}
	}

	return g.graph.Size() == g.target
}

// findEndingRoom returns the dead end farthest from the start. Ties keep the
// first cell reached. If no dead end exists the start cell is returned.
func findEndingRoom(graph *LevelGraph) geom.GridCell {
	distance, order := graph.Distances()

	ending := graph.Start
	maxDistance := 0
	for _, c := range order {
		if distance[c] > maxDistance && graph.Pattern(c).IsDeadEnd() {
			maxDistance = distance[c]
			ending = c
		}
	}
	return ending
}

func (g *generator) addExtraEdges(extra int) int {
	graph := g.graph
	added := 0

	for i := 0; i < extra; i++ {
		for attempt := 0; attempt < MaxAttempts; attempt++ {
			roomA := graph.Cells[g.rng.Intn(len(graph.Cells))]
			d := geom.DoorDirection(g.rng.Intn(4))
			roomB := roomA.Neighbor(d)

			if roomA == graph.Start || roomA == graph.End || roomB == graph.Start || roomB == graph.End {
				continue
			}
			if !graph.HasCell(roomB) || graph.Connected(roomA, roomB) {
				continue
			}

			patternA := graph.Pattern(roomA).With(d)
			patternB := graph.Pattern(roomB).With(d.Opposite())
			if !g.allowed.Has(patternA) || !g.allowed.Has(patternB) {
				continue
			}

			graph.Connect(roomA, roomB)
			added++
			break
		}
	}

	return added
}
