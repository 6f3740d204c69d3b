package dungeon

import (
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/roomforge/internal/encounter"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

// ErrStuck is returned when a scripted playthrough stops making progress.
var ErrStuck = errors.New("dungeon: playthrough stuck")

// PlayReport summarizes a scripted playthrough.
type PlayReport struct {
	RoomsCleared  int
	EnemiesKilled int
	Ticks         int
}

// Playthrough walks into every encounter room in placement order, kills
// each active enemy and ticks the scene until the doors are open again.
// maxTicks bounds the wait for each room's doors.
func (l *Level) Playthrough(dt time.Duration, maxTicks int) (PlayReport, error) {
	var report PlayReport

	for _, enc := range l.Encounters {
		cell := enc.Cell()
		room := l.World.GetRoom(cell)
		if room == nil {
			return report, fmt.Errorf("%w: no room at %s", ErrStuck, cell)
		}

		l.World.Enter(cell)
		for enc.State() != encounter.StateCleared {
			active := l.World.ActiveEnemies(cell)
			if len(active) == 0 {
				return report, fmt.Errorf("%w: room %s in state %s with no active enemies", ErrStuck, cell, enc.State())
			}
			for _, e := range active {
				if l.World.Kill(e.ID()) {
					report.EnemiesKilled++
				}
			}
		}

		ticks := 0
		for room.DoorsBlocked() {
			if ticks == maxTicks {
				return report, fmt.Errorf("%w: doors of %s still closed after %d ticks", ErrStuck, cell, ticks)
			}
			l.World.Advance(dt)
			l.Session.Scheduler.Tick(dt)
			ticks++
		}

		report.Ticks += ticks
		report.RoomsCleared++
		logger.Debug("room played", "cell", cell.String(), "ticks", ticks)
	}

	if l.Session.InBattle() {
		return report, fmt.Errorf("%w: still in battle after every room", ErrStuck)
	}
	return report, nil
}
