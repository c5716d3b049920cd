package persist

import (
	"context"
	"time"

	"github.com/lixenwraith/flip-match/schedule"
)

// DefaultAutosaveInterval is the periodic snapshot interval
const DefaultAutosaveInterval = 30 * time.Second

// AutoSaver snapshots a running game periodically and on exit. Snapshot
// returns nil when there is nothing worth saving.
type AutoSaver struct {
	mgr      *Manager
	snapshot func() *CurrentGameState
	task     *schedule.Task
}

// StartAutoSave registers the periodic save on sched
func StartAutoSave(sched *schedule.Scheduler, mgr *Manager, interval time.Duration, snapshot func() *CurrentGameState) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	a := &AutoSaver{mgr: mgr, snapshot: snapshot}
	a.task = sched.Every("autosave", interval, func() {
		a.save(context.Background())
	})
	return a
}

// Worth reports whether st is a game in progress: not over, at least one
// move made and a seed assigned
func Worth(st *CurrentGameState) bool {
	return st != nil && !st.IsGameOver && st.Moves > 0 && st.Seed != nil
}

func (a *AutoSaver) save(ctx context.Context) bool {
	st := a.snapshot()
	if !Worth(st) {
		return false
	}
	a.mgr.SaveCurrent(ctx, st)
	return true
}

// SaveOnExit runs the exit hook; it reports whether a snapshot was written
func (a *AutoSaver) SaveOnExit(ctx context.Context) bool {
	return a.save(ctx)
}

// Stop cancels the periodic save
func (a *AutoSaver) Stop() {
	a.task.Cancel()
}

// Active reports whether the periodic save is still scheduled
func (a *AutoSaver) Active() bool {
	return a.task.Active()
}
