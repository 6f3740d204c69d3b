// Package schedule runs deferred actions behind cooperative suspension
// points. Nothing blocks: the host calls Tick once per frame and every task
// whose current step is satisfied moves forward.
package schedule

import (
	"sync"
	"time"
)

type stepKind int

const (
	stepWait stepKind = iota
	stepWaitUntil
	stepNextTick
)

// Step is one suspension point of a task.
type Step struct {
	kind     stepKind
	duration time.Duration
	until    func() bool
}

// Wait suspends for d of scheduler time.
func Wait(d time.Duration) Step {
	return Step{kind: stepWait, duration: d}
}

// WaitUntil suspends until pred reports true. pred is polled once per tick.
func WaitUntil(pred func() bool) Step {
	return Step{kind: stepWaitUntil, until: pred}
}

// NextTick suspends until the following tick.
func NextTick() Step {
	return Step{kind: stepNextTick}
}

func (s Step) String() string {
	switch s.kind {
	case stepWait:
		return "wait(" + s.duration.String() + ")"
	case stepWaitUntil:
		return "wait_until"
	case stepNextTick:
		return "next_tick"
	default:
		return "unknown"
	}
}

// task is a sequence of steps followed by an action.
type task struct {
	name   string
	steps  []Step
	action func()

	index     int
	armedAt   time.Duration
	armedTick uint64
}

// Scheduler owns the clock and the pending tasks.
type Scheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tick  uint64
	tasks []*task
}

// New creates a scheduler at time zero
func New() *Scheduler {
	return &Scheduler{
		tasks: make([]*task, 0),
	}
}

// Run schedules action to run after every step has been satisfied in order.
// With no steps the action runs on the next Tick.
func (s *Scheduler) Run(name string, action func(), steps ...Step) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, &task{
		name:      name,
		steps:     steps,
		action:    action,
		armedAt:   s.now,
		armedTick: s.tick,
	})
}

// Tick advances the clock by dt and resumes ready tasks. Tasks scheduled by
// an action during this tick first run on the next one.
func (s *Scheduler) Tick(dt time.Duration) {
	s.mu.Lock()
	s.now += dt
	s.tick++
	now, tick := s.now, s.tick
	current := s.tasks
	s.tasks = make([]*task, 0, len(current))
	s.mu.Unlock()

	remaining := make([]*task, 0, len(current))
	for _, t := range current {
		if t.advance(now, tick) {
			t.action()
		} else {
			remaining = append(remaining, t)
		}
	}

	s.mu.Lock()
	s.tasks = append(remaining, s.tasks...)
	s.mu.Unlock()
}

// advance moves through every satisfied step and reports whether the task is done.
func (t *task) advance(now time.Duration, tick uint64) bool {
	for t.index < len(t.steps) {
		step := t.steps[t.index]

		switch step.kind {
		case stepWait:
			if now-t.armedAt < step.duration {
				return false
			}
		case stepWaitUntil:
			if step.until != nil && !step.until() {
				return false
			}
		case stepNextTick:
			if tick <= t.armedTick {
				return false
			}
		}

		t.index++
		t.armedAt = now
		t.armedTick = tick
	}
	return true
}

// Pending returns the number of tasks that have not run yet.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Now returns the scheduler clock.
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Ticks returns the number of ticks processed.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}
