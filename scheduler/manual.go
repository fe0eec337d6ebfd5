package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by an explicit clock, for deterministic tests
// and tooling. Tasks run synchronously inside Advance.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
	owner   *Manual
}

func (t *manualTask) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{due: m.now + d, seq: m.seq, f: f, owner: m}
	m.tasks = append(m.tasks, task)
	return task
}

// Advance moves the clock forward by d and runs every task that came due,
// in due order.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	m.now += d
	due := m.takeDueLocked()
	m.mu.Unlock()

	for _, task := range due {
		task.f()
	}
	return len(due)
}

// Pending returns the number of tasks waiting to run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, task := range m.tasks {
		if !task.stopped && !task.fired {
			n++
		}
	}
	return n
}

func (m *Manual) takeDueLocked() []*manualTask {
	var due, rest []*manualTask
	for _, task := range m.tasks {
		switch {
		case task.stopped:
		case task.due <= m.now:
			task.fired = true
			due = append(due, task)
		default:
			rest = append(rest, task)
		}
	}
	m.tasks = rest
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	return due
}
