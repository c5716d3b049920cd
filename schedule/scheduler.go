// Package schedule runs timed callbacks on the caller's goroutine. Tasks are
// explicit values with cancel handles; nothing fires unless the owner calls Run.
package schedule

import (
	"sort"
	"time"

	"github.com/lixenwraith/flip-match/clock"
)

// maxCatchUp bounds how many missed periods a repeating task replays in one
// Run before its deadline is resynchronized to now
const maxCatchUp = 3

// Task is a scheduled callback
type Task struct {
	name      string
	fn        func()
	interval  time.Duration
	next      time.Time
	repeat    bool
	cancelled bool
	seq       uint64
}

// Cancel stops the task; safe to call repeatedly and from inside callbacks
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Active reports whether the task will still fire
func (t *Task) Active() bool {
	return t != nil && !t.cancelled
}

// Name returns the label given at scheduling time
func (t *Task) Name() string { return t.name }

// Scheduler owns a set of tasks and fires them against a clock
type Scheduler struct {
	clk   clock.Clock
	tasks []*Task
	seq   uint64
}

// New creates a scheduler reading deadlines from clk
func New(clk clock.Clock) *Scheduler {
	return &Scheduler{clk: clk}
}

// Clock returns the scheduler's time source
func (s *Scheduler) Clock() clock.Clock { return s.clk }

func (s *Scheduler) add(name string, d time.Duration, repeat bool, fn func()) *Task {
	s.seq++
	t := &Task{
		name:     name,
		fn:       fn,
		interval: d,
		next:     s.clk.Now().Add(d),
		repeat:   repeat,
		seq:      s.seq,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// After fires fn once, d from now
func (s *Scheduler) After(name string, d time.Duration, fn func()) *Task {
	return s.add(name, d, false, fn)
}

// Every fires fn each d until cancelled; non-positive periods are rejected
// by returning an already cancelled task
func (s *Scheduler) Every(name string, d time.Duration, fn func()) *Task {
	if d <= 0 {
		return &Task{name: name, cancelled: true}
	}
	return s.add(name, d, true, fn)
}

// Run fires every task due at now in deadline order and returns the number of
// callbacks executed. Tasks scheduled by callbacks wait for the next Run.
func (s *Scheduler) Run(now time.Time) int {
	due := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.cancelled && !t.next.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].next.Equal(due[j].next) {
			return due[i].seq < due[j].seq
		}
		return due[i].next.Before(due[j].next)
	})

	fired := 0
	for _, t := range due {
		for n := 0; !t.cancelled && !t.next.After(now); n++ {
			if n == maxCatchUp {
				t.next = now.Add(t.interval)
				break
			}
			if !t.repeat {
				t.cancelled = true
			} else {
				t.next = t.next.Add(t.interval)
			}
			t.fn()
			fired++
		}
	}

	s.compact()
	return fired
}

// compact drops cancelled tasks
func (s *Scheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}

// CancelAll cancels every task
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.cancelled = true
	}
	s.tasks = s.tasks[:0]
}

// Len is the number of live tasks
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// nextDeadline returns the earliest pending deadline
func (s *Scheduler) nextDeadline() (time.Time, bool) {
	var best time.Time
	found := false
	for _, t := range s.tasks {
		if t.cancelled {
			continue
		}
		if !found || t.next.Before(best) {
			best, found = t.next, true
		}
	}
	return best, found
}
