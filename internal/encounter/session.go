package encounter

import (
	"sync/atomic"

	"github.com/lawnchairsociety/roomforge/internal/schedule"
)

// Session is the shared state of one play session: the event bus, the
// scheduler driving deferred steps and the player-in-battle flag.
type Session struct {
	Bus       *Bus
	Scheduler *schedule.Scheduler

	inBattle atomic.Bool
}

// NewSession creates a session with its own bus and scheduler.
func NewSession() *Session {
	return &Session{
		Bus:       NewBus(),
		Scheduler: schedule.New(),
	}
}

// InBattle reports whether a room's waves are running.
func (s *Session) InBattle() bool {
	return s.inBattle.Load()
}

// setInBattle is only called by room transitions.
func (s *Session) setInBattle(v bool) {
	s.inBattle.Store(v)
}
