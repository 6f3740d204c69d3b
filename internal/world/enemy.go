package world

import (
	"sync"

	"github.com/lawnchairsociety/roomforge/internal/geom"
)

// Enemy is a spawned enemy instance.
type Enemy struct {
	id         string
	TemplateID string
	Category   string
	Room       geom.GridCell
	Position   geom.Vec2

	active bool
	dead   bool
	mu     sync.RWMutex
}

func (e *Enemy) ID() string {
	return e.id
}

// SetActive shows or hides the enemy. Dead enemies stay inactive.
func (e *Enemy) SetActive(active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dead {
		return
	}
	e.active = active
}

func (e *Enemy) IsActive() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

func (e *Enemy) IsDead() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dead
}

// die marks the enemy dead and reports whether it was alive and active.
func (e *Enemy) die() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dead || !e.active {
		return false
	}
	e.dead = true
	e.active = false
	return true
}
