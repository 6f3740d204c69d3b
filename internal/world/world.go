// Package world is an in-memory scene for generated levels. It keeps the live
// rooms, corridors and enemies and relays player and combat signals to the
// encounter bus.
package world

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/encounter"
	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/lawnchairsociety/roomforge/internal/placement"
)

// Corridor is a placed corridor segment.
type Corridor struct {
	TemplateID string
	Pattern    geom.ConnectionPattern
	Position   geom.Vec2
	Bounds     geom.Rect
}

type World struct {
	Rooms     map[geom.GridCell]*Room
	Corridors []*Corridor
	Enemies   map[string]*Enemy

	enemyOrder  []string
	playerSpawn *geom.Vec2
	bus         *encounter.Bus
	seed        int64
	mu          sync.RWMutex
}

func NewWorld(seed int64) *World {
	return &World{
		Rooms:     make(map[geom.GridCell]*Room),
		Corridors: make([]*Corridor, 0),
		Enemies:   make(map[string]*Enemy),
		seed:      seed,
	}
}

// SetBus sets the bus that Enter and Kill publish on.
func (w *World) SetBus(bus *encounter.Bus) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bus = bus
}

// InstantiateRoom creates the live room for cell.
func (w *World) InstantiateRoom(cell geom.GridCell, t *catalog.RoomTemplate, pos geom.Vec2) placement.RoomInstance {
	room := NewRoom(cell, t, pos)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.Rooms[cell] = room
	return room
}

// InstantiateCorridor records a corridor segment.
func (w *World) InstantiateCorridor(t *catalog.CorridorTemplate, pos geom.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Corridors = append(w.Corridors, &Corridor{
		TemplateID: t.ID,
		Pattern:    t.Pattern(),
		Position:   pos,
		Bounds:     t.Bounds.Translate(pos),
	})
}

func (w *World) SetPlayerSpawn(pos geom.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.playerSpawn = &pos
}

// PlayerSpawn returns the player spawn and whether one was set.
func (w *World) PlayerSpawn() (geom.Vec2, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.playerSpawn == nil {
		return geom.Vec2{}, false
	}
	return *w.playerSpawn, true
}

// SpawnEnemy creates an inactive enemy inside room.
func (w *World) SpawnEnemy(room geom.GridCell, s encounter.Spawn) encounter.Enemy {
	w.mu.Lock()
	defer w.mu.Unlock()

	e := &Enemy{
		id:         fmt.Sprintf("%s#%d", s.EnemyID, len(w.enemyOrder)),
		TemplateID: s.EnemyID,
		Category:   s.Category,
		Room:       room,
		Position:   s.Position,
	}
	w.Enemies[e.id] = e
	w.enemyOrder = append(w.enemyOrder, e.id)
	return e
}

func (w *World) GetRoom(cell geom.GridCell) *Room {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.Rooms[cell]
}

// Doors returns the door set of the room at cell, or nil.
func (w *World) Doors(cell geom.GridCell) encounter.Doors {
	room := w.GetRoom(cell)
	if room == nil {
		return nil
	}
	return room
}

// GetAllRooms returns the rooms ordered by cell.
func (w *World) GetAllRooms() []*Room {
	w.mu.RLock()
	defer w.mu.RUnlock()

	rooms := make([]*Room, 0, len(w.Rooms))
	for _, room := range w.Rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Cell.Less(rooms[j].Cell)
	})
	return rooms
}

// GetRoomCount returns the number of rooms in the scene
func (w *World) GetRoomCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.Rooms)
}

// GetCorridors returns the corridors in placement order.
func (w *World) GetCorridors() []*Corridor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*Corridor(nil), w.Corridors...)
}

func (w *World) GetEnemy(id string) *Enemy {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.Enemies[id]
}

// EnemiesIn returns the enemies spawned in room, in spawn order.
func (w *World) EnemiesIn(room geom.GridCell) []*Enemy {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var enemies []*Enemy
	for _, id := range w.enemyOrder {
		if e := w.Enemies[id]; e.Room == room {
			enemies = append(enemies, e)
		}
	}
	return enemies
}

// ActiveEnemies returns the living, active enemies of room.
func (w *World) ActiveEnemies(room geom.GridCell) []*Enemy {
	var active []*Enemy
	for _, e := range w.EnemiesIn(room) {
		if e.IsActive() {
			active = append(active, e)
		}
	}
	return active
}

// Enter signals that the player walked into the room at cell.
func (w *World) Enter(cell geom.GridCell) bool {
	w.mu.RLock()
	bus := w.bus
	_, ok := w.Rooms[cell]
	w.mu.RUnlock()

	if !ok {
		logger.Warning("player entered unknown room", "cell", cell.String())
		return false
	}
	if bus != nil {
		bus.Publish(encounter.Event{
			Topic:  encounter.RoomTopic(cell),
			Signal: encounter.SignalPlayerEntered,
			Room:   cell,
		})
	}
	return true
}

// Kill kills an active enemy and publishes its death. It reports false for
// unknown, inactive or already dead enemies.
func (w *World) Kill(id string) bool {
	w.mu.RLock()
	bus := w.bus
	e := w.Enemies[id]
	w.mu.RUnlock()

	if e == nil || !e.die() {
		return false
	}
	if bus != nil {
		bus.Publish(encounter.Event{
			Topic:  id,
			Signal: encounter.SignalEnemyDied,
			Room:   e.Room,
		})
	}
	return true
}

// Advance moves every running door animation forward by dt.
func (w *World) Advance(dt time.Duration) {
	for _, room := range w.GetAllRooms() {
		room.advance(dt)
	}
}

// GetSeed returns the seed the level was generated with
func (w *World) GetSeed() int64 {
	return w.seed
}
