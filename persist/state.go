package persist

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lixenwraith/flip-match/clock"
	"github.com/lixenwraith/flip-match/log"
	"github.com/lixenwraith/flip-match/seed"
)

// DefaultMaxAge is how long a snapshot stays restorable
const DefaultMaxAge = 24 * time.Hour

// TileState is one tile of a snapshot
type TileState struct {
	Position  int  `json:"position"`
	SkinID    int  `json:"skinId"`
	IsFlipped bool `json:"isFlipped"`
	IsMatched bool `json:"isMatched"`
}

// GameHistoryEntry is one finished game
type GameHistoryEntry struct {
	Seed        seed.GameSeed `json:"seed"`
	Time        int           `json:"time"`
	Moves       int           `json:"moves"`
	CompletedAt time.Time     `json:"completedAt"`
}

// CurrentGameState is the in-progress game snapshot
type CurrentGameState struct {
	Seed         *seed.GameSeed `json:"seed"`
	Time         int            `json:"time"`
	Moves        int            `json:"moves"`
	CompletedAt  time.Time      `json:"completedAt"`
	PairsFound   int            `json:"pairsFound"`
	IsGameOver   bool           `json:"isGameOver"`
	TimerRunning bool           `json:"timerRunning"`
	SeedInput    string         `json:"seedInput"`
	TileStates   []TileState    `json:"tileStates"`
	FlippedTiles []int          `json:"flippedTiles"`
	SavedAt      time.Time      `json:"savedAt"`
}

// Options configures a Manager
type Options struct {
	Store Store
	Clock clock.Clock
	// MaxAge is the snapshot lifetime; zero means DefaultMaxAge
	MaxAge time.Duration
	// HistoryLimit caps stored history; zero keeps everything
	HistoryLimit int
}

// Manager reads and writes snapshots and history. Storage faults are logged
// and treated as absence; no method returns them.
type Manager struct {
	store    Store
	clk      clock.Clock
	maxAge   time.Duration
	limit    int
	hasSaved bool
}

// NewManager creates a manager over opts.Store
func NewManager(opts Options) *Manager {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.HistoryLimit < 0 {
		opts.HistoryLimit = 0
	}
	return &Manager{
		store:  opts.Store,
		clk:    opts.Clock,
		maxAge: opts.MaxAge,
		limit:  opts.HistoryLimit,
	}
}

// Refresh re-reads whether a snapshot is stored, without validating it
func (m *Manager) Refresh(ctx context.Context) bool {
	_, err := m.store.Get(ctx, KeyCurrent)
	if err != nil && !errors.Is(err, ErrNotFound) {
		log.WithError(err).Warn("snapshot lookup failed")
	}
	m.hasSaved = err == nil
	return m.hasSaved
}

// HasSavedGame reports the has-saved flag as of the last store operation
func (m *Manager) HasSavedGame() bool { return m.hasSaved }

// SaveCurrent writes st stamped with the current time. A finished game or a
// nil seed deletes the snapshot instead.
func (m *Manager) SaveCurrent(ctx context.Context, st *CurrentGameState) {
	if st == nil || st.IsGameOver || st.Seed == nil {
		m.ClearCurrent(ctx)
		return
	}

	now := m.clk.Now().UTC()
	snap := *st
	snap.CompletedAt = now
	snap.SavedAt = now

	data, err := json.Marshal(&snap)
	if err != nil {
		log.WithError(err).Warn("failed to encode game state")
		return
	}
	if err := m.store.Set(ctx, KeyCurrent, string(data)); err != nil {
		log.WithError(err).Warn("failed to save current game state")
		return
	}
	m.hasSaved = true
	log.Debugf("saved game %s: %d moves, %ds", snap.Seed.ID, snap.Moves, snap.Time)
}

// LoadCurrent returns the stored snapshot, or nil when absent, malformed or
// older than the max age. Malformed and expired snapshots are deleted.
func (m *Manager) LoadCurrent(ctx context.Context) *CurrentGameState {
	raw, err := m.store.Get(ctx, KeyCurrent)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Warn("failed to load current game state")
		}
		m.hasSaved = false
		return nil
	}

	st, err := decodeSnapshot(raw)
	if err != nil {
		log.WithError(err).Warn("discarding unreadable game state")
		m.ClearCurrent(ctx)
		return nil
	}

	if age := m.clk.Now().Sub(st.SavedAt); age > m.maxAge {
		log.Infof("discarding game state saved %s ago", age.Truncate(time.Minute))
		m.ClearCurrent(ctx)
		return nil
	}

	m.hasSaved = true
	return st
}

func decodeSnapshot(raw string) (*CurrentGameState, error) {
	var st CurrentGameState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return nil, err
	}
	if st.Seed == nil {
		return nil, errors.New("snapshot without seed")
	}
	if st.SavedAt.IsZero() {
		return nil, errors.New("snapshot without savedAt")
	}
	return &st, nil
}

// ClearCurrent deletes the snapshot
func (m *Manager) ClearCurrent(ctx context.Context) {
	if err := m.store.Delete(ctx, KeyCurrent); err != nil {
		log.WithError(err).Warn("failed to clear game state")
	}
	m.hasSaved = false
}

// LoadHistory returns finished games newest first; any fault yields an
// empty list
func (m *Manager) LoadHistory(ctx context.Context) []GameHistoryEntry {
	raw, err := m.store.Get(ctx, KeyHistory)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithError(err).Warn("failed to load history")
		}
		return []GameHistoryEntry{}
	}
	return decodeHistory(raw)
}

func decodeHistory(raw string) []GameHistoryEntry {
	var history []GameHistoryEntry
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		log.WithError(err).Warn("discarding unreadable history")
		return []GameHistoryEntry{}
	}
	if history == nil {
		history = []GameHistoryEntry{}
	}
	return history
}

// AppendHistory prepends entry and writes the list back, trimmed to the
// history limit. A failed read skips the write and returns nil, leaving the
// stored list intact; unreadable history is replaced.
func (m *Manager) AppendHistory(ctx context.Context, entry GameHistoryEntry) []GameHistoryEntry {
	var previous []GameHistoryEntry
	raw, err := m.store.Get(ctx, KeyHistory)
	switch {
	case err == nil:
		previous = decodeHistory(raw)
	case !errors.Is(err, ErrNotFound):
		log.WithError(err).Warn("history unreadable, finished game not recorded")
		return nil
	}

	history := append([]GameHistoryEntry{entry}, previous...)
	if m.limit > 0 && len(history) > m.limit {
		history = history[:m.limit]
	}

	data, err := json.Marshal(history)
	if err != nil {
		log.WithError(err).Warn("failed to encode history")
		return history
	}
	if err := m.store.Set(ctx, KeyHistory, string(data)); err != nil {
		log.WithError(err).Warn("failed to save history")
	}
	return history
}

// HistorySeeds returns the seeds of every finished game, newest first
func (m *Manager) HistorySeeds(ctx context.Context) []seed.GameSeed {
	history := m.LoadHistory(ctx)
	seeds := make([]seed.GameSeed, len(history))
	for i, h := range history {
		seeds[i] = h.Seed
	}
	return seeds
}
