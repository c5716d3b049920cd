package schedule

import (
	"testing"
	"time"

	"github.com/lixenwraith/flip-match/clock"
)

func newTestScheduler() (*Scheduler, *clock.Mock) {
	clk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return New(clk), clk
}

func TestAfterFiresOnce(t *testing.T) {
	s, clk := newTestScheduler()
	count := 0
	task := s.After("once", 100*time.Millisecond, func() { count++ })

	if n := s.Run(clk.Advance(50 * time.Millisecond)); n != 0 {
		t.Errorf("Expected nothing due at 50ms, fired %d", n)
	}
	s.Run(clk.Advance(50 * time.Millisecond))
	s.Run(clk.Advance(time.Second))

	if count != 1 {
		t.Errorf("Expected 1 call, got %d", count)
	}
	if task.Active() {
		t.Error("Expected one-shot task to be inactive after firing")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty scheduler, got %d tasks", s.Len())
	}
}

func TestEveryRepeatsUntilCancelled(t *testing.T) {
	s, clk := newTestScheduler()
	count := 0
	task := s.Every("tick", time.Second, func() { count++ })

	for i := 0; i < 5; i++ {
		s.Run(clk.Advance(time.Second))
	}
	if count != 5 {
		t.Errorf("Expected 5 ticks, got %d", count)
	}

	task.Cancel()
	s.Run(clk.Advance(time.Second))
	if count != 5 {
		t.Errorf("Expected no ticks after cancel, got %d", count)
	}
}

func TestEveryCatchUpIsBounded(t *testing.T) {
	s, clk := newTestScheduler()
	count := 0
	s.Every("tick", time.Second, func() { count++ })

	s.Run(clk.Advance(10 * time.Second))
	if count != maxCatchUp {
		t.Errorf("Expected %d catch-up ticks, got %d", maxCatchUp, count)
	}

	// Deadline resynchronized to now + interval
	s.Run(clk.Advance(time.Second))
	if count != maxCatchUp+1 {
		t.Errorf("Expected one more tick after resync, got %d", count)
	}
}

func TestRunOrderAndCancelFromCallback(t *testing.T) {
	s, clk := newTestScheduler()
	var order []string
	var late *Task

	s.After("b", 20*time.Millisecond, func() { order = append(order, "b") })
	s.After("a", 10*time.Millisecond, func() {
		order = append(order, "a")
		late.Cancel()
	})
	late = s.After("c", 30*time.Millisecond, func() { order = append(order, "c") })

	s.Run(clk.Advance(time.Second))

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("Expected [a b], got %v", order)
	}
}

func TestTaskScheduledInCallbackWaits(t *testing.T) {
	s, clk := newTestScheduler()
	inner := 0
	s.After("outer", 0, func() {
		s.After("inner", 0, func() { inner++ })
	})

	s.Run(clk.Now())
	if inner != 0 {
		t.Error("Expected inner task to wait for the next Run")
	}
	s.Run(clk.Now())
	if inner != 1 {
		t.Errorf("Expected inner to fire once, got %d", inner)
	}
}

func TestEveryRejectsNonPositive(t *testing.T) {
	s, _ := newTestScheduler()
	task := s.Every("bad", 0, func() {})
	if task.Active() {
		t.Error("Expected zero-period task to be inactive")
	}
	if s.Len() != 0 {
		t.Errorf("Expected no tasks, got %d", s.Len())
	}
}

func TestCancelAllClearsDeadlines(t *testing.T) {
	s, clk := newTestScheduler()
	s.After("x", 2*time.Second, func() {})
	s.After("y", time.Second, func() {})

	next, ok := s.nextDeadline()
	if !ok || !next.Equal(clk.Now().Add(time.Second)) {
		t.Errorf("Expected next deadline in 1s, got %v (%v)", next, ok)
	}

	s.CancelAll()
	if _, ok := s.nextDeadline(); ok {
		t.Error("Expected no deadline after CancelAll")
	}

	var nilTask *Task
	nilTask.Cancel()
	if nilTask.Active() {
		t.Error("Expected nil task to be inactive")
	}
}
