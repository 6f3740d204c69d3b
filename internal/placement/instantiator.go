package placement

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/lawnchairsociety/roomforge/internal/layout"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/lawnchairsociety/roomforge/internal/prefab"
	"github.com/zyedidia/generic/mapset"
)

// Instantiator places rooms breadth first from the start cell.
type Instantiator struct {
	catalog *catalog.Catalog
	sink    Sink
	rng     *rand.Rand
}

// NewInstantiator creates an instantiator writing into sink.
func NewInstantiator(c *catalog.Catalog, sink Sink, rng *rand.Rand) *Instantiator {
	return &Instantiator{catalog: c, sink: sink, rng: rng}
}

// MaxRoomArea returns the size of one logical grid slot: the largest selected
// room plus four of the largest corridors, per axis.
func MaxRoomArea(selection prefab.Selection, c *catalog.Catalog) geom.Vec2 {
	var room, corridor geom.Vec2
	for _, t := range selection {
		room.X = max(room.X, t.Bounds.W)
		room.Y = max(room.Y, t.Bounds.H)
	}
	for _, t := range c.AllCorridors() {
		corridor.X = max(corridor.X, t.Bounds.W)
		corridor.Y = max(corridor.Y, t.Bounds.H)
	}
	return room.Add(corridor.Scale(4))
}

// DesiredRect returns the logical slot of cell for a given slot size.
func DesiredRect(cell geom.GridCell, area geom.Vec2) geom.Rect {
	return geom.Rect{
		X: float64(cell.X) * area.X,
		Y: float64(cell.Y) * area.Y,
		W: area.X,
		H: area.Y,
	}
}

// Place instantiates every room of the graph and the corridors between them,
// then runs the post-placement pass.
func (in *Instantiator) Place(graph *layout.LevelGraph, selection prefab.Selection) (*Result, error) {
	area := MaxRoomArea(selection, in.catalog)
	result := &Result{
		Area:   area,
		byCell: make(map[geom.GridCell]*PlacedRoom, len(selection)),
	}
	r := &router{
		catalog:   in.catalog,
		sink:      in.sink,
		rng:       in.rng,
		selection: selection,
	}

	queue := []geom.GridCell{graph.Start}
	used := mapset.New[geom.GridCell]()
	used.Put(graph.Start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		tmpl, ok := selection[current]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSelection, current)
		}

		desired := DesiredRect(current, area)
		position := tmpl.Bounds.Min().Neg()
		found := false

		for _, d := range geom.AllDirections() {
			neighbour := current.Neighbor(d)
			if !graph.Connected(current, neighbour) {
				continue
			}

			if !used.Has(neighbour) {
				queue = append(queue, neighbour)
				used.Put(neighbour)
			}

			placed := result.byCell[neighbour]
			if found || placed == nil {
				continue
			}

			pos, report, err := r.connect(current, d, placed, desired)
			if err != nil {
				return nil, fmt.Errorf("failed to route %s -> %s: %w", neighbour, current, err)
			}
			result.Routes = append(result.Routes, report)
			position = pos
			found = true
		}

		room := &PlacedRoom{
			Cell:     current,
			Template: tmpl,
			Position: position,
			Desired:  desired,
		}
		room.Instance = in.sink.InstantiateRoom(current, tmpl, position)
		result.Rooms = append(result.Rooms, room)
		result.byCell[current] = room

		logger.Debug("placed room",
			"cell", current.String(),
			"template", tmpl.ID,
			"position", position.String())
	}

	if err := in.postProcess(graph, result); err != nil {
		return nil, err
	}

	logger.Info("level placed",
		"rooms", len(result.Rooms),
		"corridors", result.CorridorCount(),
		"capped_routes", len(result.CappedRoutes()))

	return result, nil
}

// postProcess binds the player spawn, opens every door and arms the hazards.
func (in *Instantiator) postProcess(graph *layout.LevelGraph, result *Result) error {
	start := result.Room(graph.Start)
	if start == nil || start.Template.Spawnpoint == nil {
		return fmt.Errorf("%w: %s", ErrNoSpawnpoint, graph.Start)
	}

	result.PlayerSpawn = start.Position.Add(*start.Template.Spawnpoint)
	in.sink.SetPlayerSpawn(result.PlayerSpawn)

	for _, room := range result.Rooms {
		if room.Instance == nil {
			continue
		}
		room.Instance.SetDoorsBlocked(false)
		if room.Template.HasAbyss {
			room.Instance.ActivateHazards()
		}
	}
	return nil
}
