package catalog

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/roomforge/internal/geom"
)

var (
	// ErrDoorNotFound is returned when a template has no door facing the requested side.
	ErrDoorNotFound = errors.New("catalog: door direction not found")

	// ErrInvalidTemplate is returned for templates that can not be placed.
	ErrInvalidTemplate = errors.New("catalog: invalid template")
)

// FloorLayer is the tile layer enemies spawn on.
const FloorLayer = "floor"

// Door is one connection point of a template.
type Door struct {
	Direction geom.DoorDirection

	// Position is the connection point in template-local space.
	Position geom.Vec2

	// Blockers name the door objects that close the opening during a fight.
	Blockers []string
}

// TileLayer is a named set of occupied tile cells.
type TileLayer struct {
	Name  string
	Tiles []geom.GridCell
}

// RoomTemplate is a read-only room or corridor definition.
type RoomTemplate struct {
	ID     string
	Role   Role
	Prefab string
	Doors  []Door
	Layers []TileLayer

	// Bounds spans the occupied tiles of every layer. Size is max - min.
	Bounds geom.Rect

	// Spawnpoint is the player spawn offset. Only start rooms need one.
	Spawnpoint *geom.Vec2

	// HasAbyss marks templates with hazard regions to activate after placement.
	HasAbyss bool

	pattern geom.ConnectionPattern
}

// NewRoomTemplate builds a template and precomputes its door pattern and bounds.
func NewRoomTemplate(id string, role Role, doors []Door, layers []TileLayer) (*RoomTemplate, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidTemplate)
	}

	var pattern geom.ConnectionPattern
	for _, d := range doors {
		if d.Direction < geom.Up || d.Direction > geom.Left {
			return nil, fmt.Errorf("%w: %s has door with direction %d", ErrInvalidTemplate, id, d.Direction)
		}
		if pattern.Has(d.Direction) {
			return nil, fmt.Errorf("%w: %s has two doors facing %s", ErrInvalidTemplate, id, d.Direction)
		}
		pattern = pattern.With(d.Direction)
	}

	bounds, ok := tileBounds(layers)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no occupied tiles", ErrInvalidTemplate, id)
	}

	return &RoomTemplate{
		ID:      id,
		Role:    role,
		Doors:   doors,
		Layers:  layers,
		Bounds:  bounds,
		pattern: pattern,
	}, nil
}

// tileBounds returns the rectangle from the min occupied tile to the max one.
func tileBounds(layers []TileLayer) (geom.Rect, bool) {
	found := false
	var lo, hi geom.GridCell

	for _, layer := range layers {
		for _, tile := range layer.Tiles {
			if !found {
				lo, hi = tile, tile
				found = true
				continue
			}
			lo.X, lo.Y = min(lo.X, tile.X), min(lo.Y, tile.Y)
			hi.X, hi.Y = max(hi.X, tile.X), max(hi.Y, tile.Y)
		}
	}

	if !found {
		return geom.Rect{}, false
	}
	return geom.Rect{
		X: float64(lo.X),
		Y: float64(lo.Y),
		W: float64(hi.X - lo.X),
		H: float64(hi.Y - lo.Y),
	}, true
}

// Pattern returns the door pattern of the template.
func (t *RoomTemplate) Pattern() geom.ConnectionPattern {
	return t.pattern
}

// DoorPosition returns the connection point of the door facing d.
func (t *RoomTemplate) DoorPosition(d geom.DoorDirection) (geom.Vec2, error) {
	for _, door := range t.Doors {
		if door.Direction == d {
			return door.Position, nil
		}
	}
	return geom.Vec2{}, fmt.Errorf("%w: %s has no %s door", ErrDoorNotFound, t.ID, d)
}

// Layer returns the named layer, or nil.
func (t *RoomTemplate) Layer(name string) *TileLayer {
	for i := range t.Layers {
		if t.Layers[i].Name == name {
			return &t.Layers[i]
		}
	}
	return nil
}

// FloorTiles returns the tiles of the floor layer. Templates without one
// fall back to the tiles of every layer.
func (t *RoomTemplate) FloorTiles() []geom.GridCell {
	if floor := t.Layer(FloorLayer); floor != nil {
		return floor.Tiles
	}
	var tiles []geom.GridCell
	for _, layer := range t.Layers {
		tiles = append(tiles, layer.Tiles...)
	}
	return tiles
}

// Blockers returns every door blocker name in door order.
func (t *RoomTemplate) Blockers() []string {
	var names []string
	for _, door := range t.Doors {
		names = append(names, door.Blockers...)
	}
	return names
}

// CorridorTemplate is a two-door template that can be walked from either end.
type CorridorTemplate struct {
	*RoomTemplate

	entryDirection geom.DoorDirection
	entryPos       geom.Vec2
	exitPos        geom.Vec2
}

// NewCorridorTemplate wraps a template that has exactly two doors.
func NewCorridorTemplate(t *RoomTemplate) (*CorridorTemplate, error) {
	if len(t.Doors) != 2 {
		return nil, fmt.Errorf("%w: corridor %s has %d doors, want 2", ErrInvalidTemplate, t.ID, len(t.Doors))
	}
	return &CorridorTemplate{
		RoomTemplate:   t,
		entryDirection: t.Doors[0].Direction,
		entryPos:       t.Doors[0].Position,
		exitPos:        t.Doors[1].Position,
	}, nil
}

// Entry returns the connection point of the door facing d. If the first door
// does not face d the second door is used.
func (c *CorridorTemplate) Entry(d geom.DoorDirection) geom.Vec2 {
	if d == c.entryDirection {
		return c.entryPos
	}
	return c.exitPos
}

// Exit returns the connection point of the door opposite to Entry(d).
func (c *CorridorTemplate) Exit(d geom.DoorDirection) geom.Vec2 {
	if d == c.entryDirection {
		return c.exitPos
	}
	return c.entryPos
}

// Advance is the offset from the exit door to the entry door, the step a
// chain of corridors moves per segment.
func (c *CorridorTemplate) Advance(d geom.DoorDirection) geom.Vec2 {
	return c.Entry(d).Sub(c.Exit(d))
}
