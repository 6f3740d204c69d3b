package encounter

import (
	"sync"

	"github.com/lawnchairsociety/roomforge/internal/geom"
)

// Signal identifies what happened to an entity.
type Signal int

const (
	// SignalPlayerEntered is published on a room topic when the player crosses its door.
	SignalPlayerEntered Signal = iota
	// SignalEnemyDied is published on an enemy's own ID.
	SignalEnemyDied
	// SignalRoomEntered is published on SessionTopic when a room starts its waves.
	SignalRoomEntered
	// SignalRoomCleared is published on SessionTopic after a room's last wave.
	SignalRoomCleared
)

func (s Signal) String() string {
	switch s {
	case SignalPlayerEntered:
		return "player_entered"
	case SignalEnemyDied:
		return "enemy_died"
	case SignalRoomEntered:
		return "room_entered"
	case SignalRoomCleared:
		return "room_cleared"
	default:
		return "unknown"
	}
}

// SessionTopic carries room-level notifications for anyone interested.
const SessionTopic = "session"

// RoomTopic returns the topic a room listens on for the player entering.
func RoomTopic(cell geom.GridCell) string {
	return "room:" + cell.String()
}

// Event is one published signal.
type Event struct {
	Topic  string
	Signal Signal
	Room   geom.GridCell
}

// Handler receives events of a subscribed topic.
type Handler func(Event)

// Bus delivers events in publish order. An event published by a handler is
// queued behind the current one instead of being delivered re-entrantly.
type Bus struct {
	mu          sync.Mutex
	handlers    map[string][]Handler
	queue       []Event
	dispatching bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers h for every event on topic.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish queues ev and, unless a dispatch is already running, drains the
// queue. If a handler panics the bus stays usable: events still queued are
// delivered by the next Publish.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	b.queue = append(b.queue, ev)
	if b.dispatching {
		b.mu.Unlock()
		return
	}
	b.dispatching = true
	b.mu.Unlock()

	drained := false
	defer func() {
		if !drained {
			b.mu.Lock()
			b.dispatching = false
			b.mu.Unlock()
		}
	}()

	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.dispatching = false
			b.mu.Unlock()
			drained = true
			return
		}
		next := b.queue[0]
		b.queue = b.queue[1:]
		handlers := append([]Handler(nil), b.handlers[next.Topic]...)
		b.mu.Unlock()

		for _, h := range handlers {
			h(next)
		}
	}
}

// Subscribers returns the number of handlers on topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[topic])
}
