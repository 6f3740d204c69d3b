package encounter

import (
	"github.com/lawnchairsociety/roomforge/internal/geom"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/lawnchairsociety/roomforge/internal/schedule"
	"github.com/zyedidia/generic/mapset"
)

// Enemy is a live enemy handle.
type Enemy interface {
	ID() string
	SetActive(active bool)
}

// Spawner creates enemies. Spawned enemies start inactive.
type Spawner interface {
	SpawnEnemy(room geom.GridCell, s Spawn) Enemy
}

// Doors is the door set of a live room.
type Doors interface {
	SetDoorsBlocked(blocked bool)

	// PlayOpenAnimation starts the opening animation of every door blocker.
	PlayOpenAnimation()
	OpenAnimationDone() bool
}

// State is the progress of a room encounter.
type State int

const (
	StateIdle State = iota
	StateWaveActive
	StateCleared
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWaveActive:
		return "wave_active"
	case StateCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Wave is a spawned wave. It ends when every enemy has died once.
type Wave struct {
	Spec    WaveSpec
	Enemies []Enemy

	alive mapset.Set[string]
}

// Remaining returns the number of enemies still alive.
func (w *Wave) Remaining() int {
	return w.alive.Size()
}

func (w *Wave) activate() {
	for _, e := range w.Enemies {
		e.SetActive(true)
	}
}

// kill reports whether id was alive.
func (w *Wave) kill(id string) bool {
	if !w.alive.Has(id) {
		return false
	}
	w.alive.Remove(id)
	return true
}

// RoomEncounter runs the waves of one room strictly in order:
// Idle, WaveActive(0), ..., WaveActive(n-1), Cleared.
type RoomEncounter struct {
	plan    RoomPlan
	session *Session
	doors   Doors

	waves   []*Wave
	owner   map[string]int
	current int
	state   State
}

// NewRoomEncounter spawns every wave of plan inactive and subscribes the room
// to its entry topic and to each enemy's death.
func NewRoomEncounter(session *Session, plan RoomPlan, doors Doors, spawner Spawner) *RoomEncounter {
	r := &RoomEncounter{
		plan:    plan,
		session: session,
		doors:   doors,
		owner:   make(map[string]int),
	}

	for i, spec := range plan.Waves {
		w := &Wave{Spec: spec, alive: mapset.New[string]()}
		for _, s := range spec.Spawns {
			e := spawner.SpawnEnemy(plan.Cell, s)
			e.SetActive(false)
			w.Enemies = append(w.Enemies, e)
			w.alive.Put(e.ID())
			r.owner[e.ID()] = i
			session.Bus.Subscribe(e.ID(), r.handleDeath)
		}
		r.waves = append(r.waves, w)
	}

	session.Bus.Subscribe(RoomTopic(plan.Cell), r.handleEnter)
	return r
}

// Attach creates a RoomEncounter for every plan. Plans whose room has no
// doors are skipped without spawning anything.
func Attach(session *Session, plans []RoomPlan, spawner Spawner, doorsOf func(geom.GridCell) Doors) []*RoomEncounter {
	encounters := make([]*RoomEncounter, 0, len(plans))
	for _, plan := range plans {
		doors := doorsOf(plan.Cell)
		if doors == nil {
			logger.Warning("no live room for encounter, skipping",
				"cell", plan.Cell.String(),
				"template", plan.Template)
			continue
		}
		encounters = append(encounters, NewRoomEncounter(session, plan, doors, spawner))
	}
	return encounters
}

// Cell returns the grid cell of the room.
func (r *RoomEncounter) Cell() geom.GridCell {
	return r.plan.Cell
}

// State returns the current state.
func (r *RoomEncounter) State() State {
	return r.state
}

// CurrentWave returns the index of the active wave. It equals the wave count
// once the room is cleared.
func (r *RoomEncounter) CurrentWave() int {
	return r.current
}

// Waves returns the spawned waves.
func (r *RoomEncounter) Waves() []*Wave {
	return r.waves
}

func (r *RoomEncounter) handleEnter(ev Event) {
	if ev.Signal != SignalPlayerEntered || r.state != StateIdle {
		return
	}

	r.state = StateWaveActive
	r.current = 0
	r.session.setInBattle(true)
	r.session.Bus.Publish(Event{Topic: SessionTopic, Signal: SignalRoomEntered, Room: r.plan.Cell})

	logger.Info("room encounter started",
		"cell", r.plan.Cell.String(),
		"waves", len(r.waves))

	r.doors.SetDoorsBlocked(true)
	r.advance()
}

func (r *RoomEncounter) handleDeath(ev Event) {
	if ev.Signal != SignalEnemyDied || r.state != StateWaveActive {
		return
	}

	idx, ok := r.owner[ev.Topic]
	if !ok || idx != r.current {
		return
	}

	w := r.waves[r.current]
	if !w.kill(ev.Topic) {
		return
	}
	if w.Remaining() > 0 {
		return
	}

	logger.Debug("wave ended", "cell", r.plan.Cell.String(), "wave", r.current)
	r.current++
	r.advance()
}

// advance activates the next non-empty wave or clears the room.
func (r *RoomEncounter) advance() {
	for r.current < len(r.waves) {
		w := r.waves[r.current]
		if w.Remaining() > 0 {
			w.activate()
			return
		}
		r.current++
	}
	r.clear()
}

func (r *RoomEncounter) clear() {
	r.state = StateCleared
	r.openDoors()
	r.session.setInBattle(false)
	r.session.Bus.Publish(Event{Topic: SessionTopic, Signal: SignalRoomCleared, Room: r.plan.Cell})

	logger.Info("room cleared", "cell", r.plan.Cell.String())
}

// openDoors plays the opening animation and drops the blockers on the tick
// after it finishes.
func (r *RoomEncounter) openDoors() {
	r.doors.PlayOpenAnimation()
	r.session.Scheduler.Run("open doors "+r.plan.Cell.String(),
		func() { r.doors.SetDoorsBlocked(false) },
		schedule.WaitUntil(r.doors.OpenAnimationDone),
		schedule.NextTick(),
	)
}
