package world

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/geom"
)

// DoorAnimationDuration is how long door blockers take to swing open.
const DoorAnimationDuration = 500 * time.Millisecond

// Room is a live room instance.
type Room struct {
	ID       string
	Cell     geom.GridCell
	Template *catalog.RoomTemplate
	position geom.Vec2

	doorsBlocked bool
	hazards      bool
	opening      bool
	openElapsed  time.Duration
	mu           sync.RWMutex
}

// NewRoom creates a room with its door blockers up, as authored.
func NewRoom(cell geom.GridCell, t *catalog.RoomTemplate, pos geom.Vec2) *Room {
	return &Room{
		ID:           t.ID + "@" + cell.String(),
		Cell:         cell,
		Template:     t,
		position:     pos,
		doorsBlocked: true,
	}
}

// Position returns the world position of the room origin.
func (r *Room) Position() geom.Vec2 {
	return r.position
}

// Bounds returns the world-space footprint of the room.
func (r *Room) Bounds() geom.Rect {
	return r.Template.Bounds.Translate(r.position)
}

// SetDoorsBlocked raises or drops every door blocker. Raising resets any
// running open animation.
func (r *Room) SetDoorsBlocked(blocked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doorsBlocked = blocked
	if blocked {
		r.opening = false
		r.openElapsed = 0
	}
}

// DoorsBlocked reports whether the door blockers are up.
func (r *Room) DoorsBlocked() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doorsBlocked
}

// ActivateHazards switches on the abyss regions.
func (r *Room) ActivateHazards() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hazards = true
}

// HazardsActive reports whether ActivateHazards was called.
func (r *Room) HazardsActive() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hazards
}

// PlayOpenAnimation starts swinging the door blockers open.
func (r *Room) PlayOpenAnimation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opening = true
	r.openElapsed = 0
}

// OpenAnimationDone reports whether a started open animation has finished.
func (r *Room) OpenAnimationDone() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.opening && r.openElapsed >= DoorAnimationDuration
}

// advance moves a running door animation forward.
func (r *Room) advance(dt time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.opening && r.openElapsed < DoorAnimationDuration {
		r.openElapsed += dt
	}
}
