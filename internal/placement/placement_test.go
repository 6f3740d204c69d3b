package placement

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/lawnchairsociety/roomforge/internal/layout"
	"github.com/lawnchairsociety/roomforge/internal/prefab"
)

type fakeRoom struct {
	pos      geom.Vec2
	blocked  bool
	unblocks int
	hazards  bool
}

func (f *fakeRoom) Position() geom.Vec2 { return f.pos }

func (f *fakeRoom) SetDoorsBlocked(blocked bool) {
	f.blocked = blocked
	if !blocked {
		f.unblocks++
	}
}

func (f *fakeRoom) ActivateHazards() { f.hazards = true }

type placedCorridor struct {
	id  string
	pos geom.Vec2
}

type recordingSink struct {
	rooms     map[geom.GridCell]*fakeRoom
	corridors []placedCorridor
	spawn     *geom.Vec2
}

func newRecordingSink() *recordingSink {
	return &recordingSink{rooms: make(map[geom.GridCell]*fakeRoom)}
}

func (s *recordingSink) InstantiateRoom(cell geom.GridCell, t *catalog.RoomTemplate, pos geom.Vec2) RoomInstance {
	room := &fakeRoom{pos: pos, blocked: true}
	s.rooms[cell] = room
	return room
}

func (s *recordingSink) InstantiateCorridor(t *catalog.CorridorTemplate, pos geom.Vec2) {
	s.corridors = append(s.corridors, placedCorridor{id: t.ID, pos: pos})
}

func (s *recordingSink) SetPlayerSpawn(pos geom.Vec2) {
	s.spawn = &pos
}

// template builds a template whose bounds run from (0,0) to size.
func template(t *testing.T, id string, role catalog.Role, size geom.GridCell, doors ...catalog.Door) *catalog.RoomTemplate {
	t.Helper()
	layers := []catalog.TileLayer{{Name: catalog.FloorLayer, Tiles: []geom.GridCell{{X: 0, Y: 0}, size}}}
	tmpl, err := catalog.NewRoomTemplate(id, role, doors, layers)
	if err != nil {
		t.Fatalf("NewRoomTemplate(%s): %v", id, err)
	}
	return tmpl
}

func door(d geom.DoorDirection, x, y float64) catalog.Door {
	return catalog.Door{Direction: d, Position: geom.Vec2{X: x, Y: y}, Blockers: []string{"gate_" + d.String()}}
}

// addCorridors adds the six 4x4 corridor templates with doors centred on each side.
func addCorridors(t *testing.T, c *catalog.Catalog) {
	t.Helper()
	size := geom.GridCell{X: 4, Y: 4}
	corridors := []*catalog.RoomTemplate{
		template(t, "c_horizontal", catalog.RoleCorridor, size, door(geom.Left, 0, 2), door(geom.Right, 4, 2)),
		template(t, "c_vertical", catalog.RoleCorridor, size, door(geom.Down, 2, 0), door(geom.Up, 2, 4)),
		template(t, "c_top_left", catalog.RoleCorridor, size, door(geom.Left, 0, 2), door(geom.Up, 2, 4)),
		template(t, "c_top_right", catalog.RoleCorridor, size, door(geom.Right, 4, 2), door(geom.Up, 2, 4)),
		template(t, "c_bottom_left", catalog.RoleCorridor, size, door(geom.Down, 2, 0), door(geom.Left, 0, 2)),
		template(t, "c_bottom_right", catalog.RoleCorridor, size, door(geom.Right, 4, 2), door(geom.Down, 2, 0)),
	}
	for _, corridor := range corridors {
		if err := c.Add(corridor); err != nil {
			t.Fatal(err)
		}
	}
}

func twoRoomGraph(other geom.GridCell) *layout.LevelGraph {
	graph := layout.NewLevelGraph(geom.GridCell{})
	graph.Connect(geom.GridCell{}, other)
	graph.End = other
	return graph
}

func TestMaxRoomArea(t *testing.T) {
	c := catalog.New()
	addCorridors(t, c)

	selection := prefab.Selection{
		{X: 0, Y: 0}: template(t, "a", catalog.RoleStart, geom.GridCell{X: 10, Y: 10}),
		{X: 1, Y: 0}: template(t, "b", catalog.RoleEnd, geom.GridCell{X: 6, Y: 14}),
	}

	if got := MaxRoomArea(selection, c); got != (geom.Vec2{X: 26, Y: 30}) {
		t.Errorf("MaxRoomArea = %v, want (26, 30)", got)
	}
	if got := DesiredRect(geom.GridCell{X: -1, Y: 2}, geom.Vec2{X: 26, Y: 30}); got != (geom.Rect{X: -26, Y: 60, W: 26, H: 30}) {
		t.Errorf("DesiredRect = %v", got)
	}
}

func TestPlaceTurningRoute(t *testing.T) {
	c := catalog.New()
	addCorridors(t, c)

	roomA := template(t, "a", catalog.RoleStart, geom.GridCell{X: 10, Y: 10}, door(geom.Right, 10, 5))
	roomA.Spawnpoint = &geom.Vec2{X: 5, Y: 5}
	roomB := template(t, "b", catalog.RoleEnd, geom.GridCell{X: 6, Y: 14}, door(geom.Left, 0, 7))

	graph := twoRoomGraph(geom.GridCell{X: 1, Y: 0})
	selection := prefab.Selection{{X: 0, Y: 0}: roomA, {X: 1, Y: 0}: roomB}

	sink := newRecordingSink()
	result, err := NewInstantiator(c, sink, rand.New(rand.NewSource(1))).Place(graph, selection)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	b := result.Room(geom.GridCell{X: 1, Y: 0})
	if b.Position != (geom.Vec2{X: 26, Y: 2}) {
		t.Errorf("room B position = %v, want (26, 2)", b.Position)
	}
	if !b.Desired.Contains(b.WorldBounds()) {
		t.Errorf("room B bounds %v escape slot %v", b.WorldBounds(), b.Desired)
	}

	if len(result.Routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(result.Routes))
	}
	route := result.Routes[0]
	if !route.Turned || route.Capped {
		t.Errorf("route turned=%v capped=%v, want turned and not capped", route.Turned, route.Capped)
	}
	if route.Projected != (geom.Rect{X: 26, Y: -2, W: 6, H: 14}) {
		t.Errorf("projected rect = %v", route.Projected)
	}

	want := []placedCorridor{
		{"c_top_left", geom.Vec2{X: 10, Y: 3}},
		{"c_bottom_right", geom.Vec2{X: 10, Y: 7}},
		{"c_horizontal", geom.Vec2{X: 14, Y: 7}},
		{"c_horizontal", geom.Vec2{X: 18, Y: 7}},
		{"c_horizontal", geom.Vec2{X: 22, Y: 7}},
	}
	if len(sink.corridors) != len(want) {
		t.Fatalf("placed %d corridors, want %d: %v", len(sink.corridors), len(want), sink.corridors)
	}
	for i, w := range want {
		if sink.corridors[i] != w {
			t.Errorf("corridor %d = %v, want %v", i, sink.corridors[i], w)
		}
	}
	if result.CorridorCount() != 5 {
		t.Errorf("CorridorCount = %d, want 5", result.CorridorCount())
	}
}

func TestPlaceStraightRoute(t *testing.T) {
	c := catalog.New()
	addCorridors(t, c)

	roomA := template(t, "a", catalog.RoleStart, geom.GridCell{X: 10, Y: 10}, door(geom.Right, 10, 5))
	roomA.Spawnpoint = &geom.Vec2{X: 5, Y: 5}
	roomB := template(t, "b", catalog.RoleEnd, geom.GridCell{X: 6, Y: 10}, door(geom.Left, 0, 5))

	graph := twoRoomGraph(geom.GridCell{X: 1, Y: 0})
	selection := prefab.Selection{{X: 0, Y: 0}: roomA, {X: 1, Y: 0}: roomB}

	sink := newRecordingSink()
	result, err := NewInstantiator(c, sink, rand.New(rand.NewSource(1))).Place(graph, selection)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	if got := result.Room(geom.GridCell{X: 1, Y: 0}).Position; got != (geom.Vec2{X: 26, Y: 0}) {
		t.Errorf("room B position = %v, want (26, 0)", got)
	}
	if result.Routes[0].Turned {
		t.Error("straight route reported a turn")
	}
	if len(sink.corridors) != 4 {
		t.Errorf("placed %d corridors, want 4", len(sink.corridors))
	}
	for _, placed := range sink.corridors {
		if placed.id != "c_horizontal" {
			t.Errorf("straight route used %s", placed.id)
		}
	}
}

func TestPlaceVerticalRoute(t *testing.T) {
	c := catalog.New()
	addCorridors(t, c)

	roomA := template(t, "a", catalog.RoleStart, geom.GridCell{X: 10, Y: 10}, door(geom.Up, 5, 10))
	roomA.Spawnpoint = &geom.Vec2{X: 5, Y: 5}
	roomC := template(t, "c", catalog.RoleEnd, geom.GridCell{X: 10, Y: 10}, door(geom.Down, 5, 0))

	graph := twoRoomGraph(geom.GridCell{X: 0, Y: 1})
	selection := prefab.Selection{{X: 0, Y: 0}: roomA, {X: 0, Y: 1}: roomC}

	sink := newRecordingSink()
	result, err := NewInstantiator(c, sink, rand.New(rand.NewSource(1))).Place(graph, selection)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	if got := result.Room(geom.GridCell{X: 0, Y: 1}).Position; got != (geom.Vec2{X: 0, Y: 26}) {
		t.Errorf("room C position = %v, want (0, 26)", got)
	}
	if len(sink.corridors) != 4 || sink.corridors[0] != (placedCorridor{"c_vertical", geom.Vec2{X: 3, Y: 10}}) {
		t.Errorf("unexpected corridors: %v", sink.corridors)
	}
}

func TestPlaceSegmentCap(t *testing.T) {
	c := catalog.New()
	// A corridor whose doors coincide never advances the chain.
	stuck := template(t, "c_stuck", catalog.RoleCorridor, geom.GridCell{X: 4, Y: 4}, door(geom.Left, 2, 2), door(geom.Right, 2, 2))
	if err := c.Add(stuck); err != nil {
		t.Fatal(err)
	}

	roomA := template(t, "a", catalog.RoleStart, geom.GridCell{X: 10, Y: 10}, door(geom.Right, 10, 5))
	roomA.Spawnpoint = &geom.Vec2{X: 5, Y: 5}
	roomB := template(t, "b", catalog.RoleEnd, geom.GridCell{X: 6, Y: 10}, door(geom.Left, 0, 5))

	graph := twoRoomGraph(geom.GridCell{X: 1, Y: 0})
	selection := prefab.Selection{{X: 0, Y: 0}: roomA, {X: 1, Y: 0}: roomB}

	sink := newRecordingSink()
	result, err := NewInstantiator(c, sink, rand.New(rand.NewSource(1))).Place(graph, selection)
	if err != nil {
		t.Fatalf("capped route should not fail, got %v", err)
	}

	if len(sink.corridors) != MaxCorridorSegments {
		t.Errorf("placed %d corridors, want %d", len(sink.corridors), MaxCorridorSegments)
	}
	if capped := result.CappedRoutes(); len(capped) != 1 {
		t.Errorf("CappedRoutes = %v, want one", capped)
	}
	if got := result.Room(geom.GridCell{X: 1, Y: 0}).Position; got != (geom.Vec2{X: 10, Y: 0}) {
		t.Errorf("capped room position = %v, want partial (10, 0)", got)
	}
}

func TestPlaceErrors(t *testing.T) {
	withCorridors := catalog.New()
	addCorridors(t, withCorridors)

	roomA := template(t, "a", catalog.RoleStart, geom.GridCell{X: 10, Y: 10}, door(geom.Right, 10, 5))
	roomA.Spawnpoint = &geom.Vec2{X: 5, Y: 5}
	noSpawn := template(t, "a2", catalog.RoleStart, geom.GridCell{X: 10, Y: 10})
	wrongDoor := template(t, "b", catalog.RoleEnd, geom.GridCell{X: 6, Y: 10}, door(geom.Up, 3, 10))
	roomB := template(t, "b2", catalog.RoleEnd, geom.GridCell{X: 6, Y: 10}, door(geom.Left, 0, 5))

	east := geom.GridCell{X: 1, Y: 0}

	tests := []struct {
		name      string
		catalog   *catalog.Catalog
		graph     *layout.LevelGraph
		selection prefab.Selection
		want      error
	}{
		{
			name:      "missing door",
			catalog:   withCorridors,
			graph:     twoRoomGraph(east),
			selection: prefab.Selection{{X: 0, Y: 0}: roomA, east: wrongDoor},
			want:      catalog.ErrDoorNotFound,
		},
		{
			name:      "missing corridor",
			catalog:   catalog.New(),
			graph:     twoRoomGraph(east),
			selection: prefab.Selection{{X: 0, Y: 0}: roomA, east: roomB},
			want:      ErrNoCorridor,
		},
		{
			name:      "missing spawnpoint",
			catalog:   withCorridors,
			graph:     layout.NewLevelGraph(geom.GridCell{}),
			selection: prefab.Selection{{X: 0, Y: 0}: noSpawn},
			want:      ErrNoSpawnpoint,
		},
		{
			name:      "missing selection",
			catalog:   withCorridors,
			graph:     twoRoomGraph(east),
			selection: prefab.Selection{{X: 0, Y: 0}: roomA},
			want:      ErrNoSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInstantiator(tt.catalog, newRecordingSink(), rand.New(rand.NewSource(1))).Place(tt.graph, tt.selection)
			if !errors.Is(err, tt.want) {
				t.Errorf("Place error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPostProcess(t *testing.T) {
	c := catalog.New()
	addCorridors(t, c)

	roomA := template(t, "a", catalog.RoleStart, geom.GridCell{X: 10, Y: 10}, door(geom.Right, 10, 5))
	roomA.Spawnpoint = &geom.Vec2{X: 4, Y: 6}
	roomB := template(t, "b", catalog.RoleEnd, geom.GridCell{X: 6, Y: 10}, door(geom.Left, 0, 5))
	roomB.HasAbyss = true

	graph := twoRoomGraph(geom.GridCell{X: 1, Y: 0})
	selection := prefab.Selection{{X: 0, Y: 0}: roomA, {X: 1, Y: 0}: roomB}

	sink := newRecordingSink()
	result, err := NewInstantiator(c, sink, rand.New(rand.NewSource(1))).Place(graph, selection)
	if err != nil {
		t.Fatal(err)
	}

	if sink.spawn == nil || *sink.spawn != (geom.Vec2{X: 4, Y: 6}) {
		t.Errorf("player spawn = %v, want (4, 6)", sink.spawn)
	}
	if result.PlayerSpawn != (geom.Vec2{X: 4, Y: 6}) {
		t.Errorf("result spawn = %v", result.PlayerSpawn)
	}

	for cell, room := range sink.rooms {
		if room.blocked || room.unblocks != 1 {
			t.Errorf("room %s doors blocked=%v unblocks=%d", cell, room.blocked, room.unblocks)
		}
	}
	if sink.rooms[geom.GridCell{}].hazards {
		t.Error("start room has no abyss but hazards were activated")
	}
	if !sink.rooms[geom.GridCell{X: 1, Y: 0}].hazards {
		t.Error("abyss room hazards not activated")
	}
}

// uniformCatalog has 10x10 rooms with doors centred on each side for every
// pattern, so rooms never need a turning correction.
func uniformCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	addCorridors(t, c)

	doorAt := map[geom.DoorDirection]catalog.Door{
		geom.Up:    door(geom.Up, 5, 10),
		geom.Right: door(geom.Right, 10, 5),
		geom.Down:  door(geom.Down, 5, 0),
		geom.Left:  door(geom.Left, 0, 5),
	}

	for p := geom.ConnectionPattern(1); p < 16; p++ {
		var doors []catalog.Door
		for _, d := range p.Directions() {
			doors = append(doors, doorAt[d])
		}
		size := geom.GridCell{X: 10, Y: 10}

		start := template(t, "start_"+p.String(), catalog.RoleStart, size, doors...)
		start.Spawnpoint = &geom.Vec2{X: 5, Y: 5}
		for _, tmpl := range []*catalog.RoomTemplate{
			start,
			template(t, "room_"+p.String(), catalog.RoleRegular, size, doors...),
		} {
			if err := c.Add(tmpl); err != nil {
				t.Fatal(err)
			}
		}
		if p.IsDeadEnd() {
			if err := c.Add(template(t, "end_"+p.String(), catalog.RoleEnd, size, doors...)); err != nil {
				t.Fatal(err)
			}
		}
	}
	return c
}

func TestPlaceGeneratedLevels(t *testing.T) {
	c := uniformCatalog(t)

	for seed := int64(1); seed <= 15; seed++ {
		rng := rand.New(rand.NewSource(seed))
		graph := layout.Generate(rng, 10, 3, c.AllowedPatterns()).Graph
		selection, err := prefab.Select(graph, c, rng)
		if err != nil {
			t.Fatalf("seed %d: Select: %v", seed, err)
		}

		sink := newRecordingSink()
		result, err := NewInstantiator(c, sink, rng).Place(graph, selection)
		if err != nil {
			t.Fatalf("seed %d: Place: %v", seed, err)
		}

		if len(result.Rooms) != graph.Size() {
			t.Errorf("seed %d: placed %d rooms, want %d", seed, len(result.Rooms), graph.Size())
		}
		if result.Rooms[0].Cell != graph.Start {
			t.Errorf("seed %d: first placed room is %s, want start", seed, result.Rooms[0].Cell)
		}
		if len(result.Routes) != graph.Size()-1 {
			t.Errorf("seed %d: %d routes, want %d", seed, len(result.Routes), graph.Size()-1)
		}
		if capped := result.CappedRoutes(); len(capped) != 0 {
			t.Errorf("seed %d: capped routes %v", seed, capped)
		}
		for _, room := range result.Rooms {
			if !room.Desired.Contains(room.WorldBounds()) {
				t.Errorf("seed %d: room %s bounds %v escape slot %v", seed, room.Cell, room.WorldBounds(), room.Desired)
			}
		}
		for _, route := range result.Routes {
			if route.Turned {
				t.Errorf("seed %d: uniform rooms needed a turn %s -> %s", seed, route.From, route.To)
			}
			if route.Segments == 0 {
				t.Errorf("seed %d: route %s -> %s placed no corridors", seed, route.From, route.To)
			}
		}
	}
}
