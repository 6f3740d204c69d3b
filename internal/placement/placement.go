// Package placement turns a level graph and its template selection into
// world positions, routing corridor chains between neighbouring rooms.
package placement

import (
	"errors"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/geom"
)

var (
	// ErrNoCorridor is returned when the catalog lacks a corridor with a needed pattern.
	ErrNoCorridor = errors.New("placement: no corridor template for pattern")

	// ErrNoSpawnpoint is returned when the start room has no player spawnpoint.
	ErrNoSpawnpoint = errors.New("placement: start room has no spawnpoint")

	// ErrNoSelection is returned when a graph cell has no template assigned.
	ErrNoSelection = errors.New("placement: cell has no selected template")
)

// MaxCorridorSegments bounds each straight run of corridors.
const MaxCorridorSegments = 32

// RoomInstance is a live room created by a Sink.
type RoomInstance interface {
	Position() geom.Vec2

	// SetDoorsBlocked activates or deactivates every door blocker of the room.
	SetDoorsBlocked(blocked bool)

	// ActivateHazards switches on the room's abyss regions.
	ActivateHazards()
}

// Sink creates the live objects of a level.
type Sink interface {
	InstantiateRoom(cell geom.GridCell, t *catalog.RoomTemplate, pos geom.Vec2) RoomInstance
	InstantiateCorridor(t *catalog.CorridorTemplate, pos geom.Vec2)
	SetPlayerSpawn(pos geom.Vec2)
}

// PlacedRoom is a room fixed in world space. It is not modified after creation.
type PlacedRoom struct {
	Cell     geom.GridCell
	Template *catalog.RoomTemplate
	Position geom.Vec2

	// Desired is the logical grid slot the room was routed into.
	Desired geom.Rect

	Instance RoomInstance
}

// WorldBounds returns the template bounds moved to the room position.
func (p *PlacedRoom) WorldBounds() geom.Rect {
	return p.Template.Bounds.Translate(p.Position)
}

// RouteReport describes the corridor chain that placed one room.
type RouteReport struct {
	From geom.GridCell // already placed neighbour
	To   geom.GridCell // room being placed

	Segments int
	Turned   bool
	Capped   bool

	// Projected is the straight-placement rectangle tested against the slot.
	Projected geom.Rect
}

// Result is the outcome of placing a level.
type Result struct {
	// Rooms are in placement order, starting with the start room.
	Rooms  []*PlacedRoom
	Routes []RouteReport

	// Area is the size of one logical grid slot.
	Area        geom.Vec2
	PlayerSpawn geom.Vec2

	byCell map[geom.GridCell]*PlacedRoom
}

// Room returns the room placed at cell, or nil.
func (r *Result) Room(cell geom.GridCell) *PlacedRoom {
	return r.byCell[cell]
}

// CorridorCount returns the total number of corridor segments placed.
func (r *Result) CorridorCount() int {
	n := 0
	for _, route := range r.Routes {
		n += route.Segments
	}
	return n
}

// CappedRoutes returns the routes that hit the segment cap.
func (r *Result) CappedRoutes() []RouteReport {
	var capped []RouteReport
	for _, route := range r.Routes {
		if route.Capped {
			capped = append(capped, route)
		}
	}
	return capped
}
