// Package game runs one memory-matching session: flips, match detection, the
// game timer, move counting, snapshots and restore. Every method must be
// called from the front end's loop goroutine.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/flip-match/anim"
	"github.com/lixenwraith/flip-match/audio"
	"github.com/lixenwraith/flip-match/catalog"
	"github.com/lixenwraith/flip-match/clock"
	"github.com/lixenwraith/flip-match/log"
	"github.com/lixenwraith/flip-match/persist"
	"github.com/lixenwraith/flip-match/schedule"
	"github.com/lixenwraith/flip-match/seed"
	"github.com/lixenwraith/flip-match/status"
	"github.com/lixenwraith/flip-match/tile"
)

const (
	DefaultMismatchDelay = 800 * time.Millisecond
	pendingLimit         = 2
)

var (
	ErrNoSeed        = errors.New("no seed loaded")
	ErrSeedNotFound  = errors.New("seed not found")
	ErrSnapshotShape = errors.New("snapshot does not match its seed")
)

// Sound plays fire-and-forget effects
type Sound interface {
	Play(k audio.Kind)
}

// Clipboard receives shared seed ids
type Clipboard interface {
	Copy(text string) error
}

type nopSound struct{}

func (nopSound) Play(audio.Kind) {}

// Options wires a Session
type Options struct {
	Catalog    *catalog.Catalog
	Difficulty seed.Difficulty
	TileSize   float64
	Padding    float64

	Clock     clock.Clock
	Scheduler *schedule.Scheduler
	Rand      *rand.Rand

	// Draw invalidates the front end
	Draw      func()
	Sound     Sound
	Clipboard Clipboard
	Store     *persist.Manager

	FlipDuration     time.Duration
	FlipEase         anim.Ease
	MismatchDelay    time.Duration
	AutosaveInterval time.Duration
	Metrics          *status.Registry
}

// Session is one player's game
type Session struct {
	layout  *tile.Layout
	anim    *anim.Controller
	sched   *schedule.Scheduler
	clk     clock.Clock
	store   *persist.Manager
	saver   *persist.AutoSaver
	library *seed.Library

	draw  func()
	sound Sound
	clip  Clipboard

	flipDuration  time.Duration
	flipEase      anim.Ease
	mismatchDelay time.Duration

	currentSeed *seed.GameSeed
	seedInput   string
	pending     []*tile.Tile

	elapsed      int
	timerRunning bool
	timerTask    *schedule.Task
	resolveTask  *schedule.Task

	moves      int
	pairsFound int
	gameOver   bool
	result     *persist.GameHistoryEntry

	statGames *atomic.Int64
	statWins  *atomic.Int64
}

// NewSession creates an idle session; call NewGame, LoadSeed or RestoreSaved
// to put tiles on the board
func NewSession(opts Options) *Session {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.New(opts.Clock)
	}
	if opts.Draw == nil {
		opts.Draw = func() {}
	}
	if opts.Sound == nil {
		opts.Sound = nopSound{}
	}
	if opts.Store == nil {
		opts.Store = persist.NewManager(persist.Options{Clock: opts.Clock})
	}
	if opts.FlipDuration <= 0 {
		opts.FlipDuration = anim.DefaultFlipDuration
	}
	if opts.FlipEase == nil {
		opts.FlipEase = anim.ExpoInOut
	}
	if opts.MismatchDelay <= 0 {
		opts.MismatchDelay = DefaultMismatchDelay
	}
	if opts.Metrics == nil {
		opts.Metrics = status.Default
	}

	s := &Session{
		sched:         opts.Scheduler,
		clk:           opts.Clock,
		store:         opts.Store,
		draw:          opts.Draw,
		sound:         opts.Sound,
		clip:          opts.Clipboard,
		flipDuration:  opts.FlipDuration,
		flipEase:      opts.FlipEase,
		mismatchDelay: opts.MismatchDelay,
		statGames:     opts.Metrics.Counter("game.started"),
		statWins:      opts.Metrics.Counter("game.won"),
	}
	s.layout = tile.NewLayout(opts.Catalog, tile.Options{
		TileSize:   opts.TileSize,
		Padding:    opts.Padding,
		Difficulty: opts.Difficulty,
		Rand:       opts.Rand,
	})
	s.anim = anim.NewController(anim.Options{
		Clock: opts.Clock,
		Tiles: s.layout.Tiles,
		Canvas: func() (float64, float64) {
			if len(s.layout.Tiles()) == 0 {
				return 0, 0
			}
			return s.layout.CanvasSize()
		},
		Draw:    opts.Draw,
		Rand:    opts.Rand,
		Metrics: opts.Metrics,
	})
	s.library = seed.NewLibrary(func() []seed.GameSeed {
		return s.store.HistorySeeds(context.Background())
	})
	s.saver = persist.StartAutoSave(s.sched, s.store, opts.AutosaveInterval, s.Snapshot)
	s.store.Refresh(context.Background())
	return s
}

// Layout is the board
func (s *Session) Layout() *tile.Layout { return s.layout }

// Tiles is the live collection in draw order
func (s *Session) Tiles() []*tile.Tile { return s.layout.Tiles() }

// Anim is the animation controller
func (s *Session) Anim() *anim.Controller { return s.anim }

// Scheduler runs the session timers
func (s *Session) Scheduler() *schedule.Scheduler { return s.sched }

// Seed is the active seed, or nil
func (s *Session) Seed() *seed.GameSeed { return s.currentSeed }

func (s *Session) Moves() int            { return s.moves }
func (s *Session) Elapsed() int          { return s.elapsed }
func (s *Session) FormattedTime() string { return FormatTime(s.elapsed) }
func (s *Session) PairsFound() int       { return s.pairsFound }
func (s *Session) TotalPairs() int       { return len(s.layout.Tiles()) / 2 }
func (s *Session) GameOver() bool        { return s.gameOver }
func (s *Session) TimerRunning() bool    { return s.timerRunning }
func (s *Session) SeedInput() string     { return s.seedInput }

// SetSeedInput stores the text of the seed prompt so it survives restore
func (s *Session) SetSeedInput(v string) { s.seedInput = v }

// Result is the last finished game, or nil
func (s *Session) Result() *persist.GameHistoryEntry { return s.result }

// HasSavedGame reports whether a snapshot is stored
func (s *Session) HasSavedGame() bool { return s.store.HasSavedGame() }

// History lists finished games newest first
func (s *Session) History() []persist.GameHistoryEntry {
	return s.store.LoadHistory(context.Background())
}

// Step advances animations and timers to now; it reports whether another
// frame is needed soon
func (s *Session) Step(now time.Time) bool {
	fired := s.sched.Run(now)
	animating := s.anim.Step(now)
	return animating || fired > 0
}

// reset cancels everything in flight and zeroes the counters
func (s *Session) reset() {
	for _, t := range s.layout.Tiles() {
		s.anim.Cancel(t)
	}
	s.anim.CleanupConfetti()
	s.stopTimer()
	if s.resolveTask != nil {
		s.resolveTask.Cancel()
		s.resolveTask = nil
	}
	s.pending = nil
	s.elapsed = 0
	s.moves = 0
	s.pairsFound = 0
	s.gameOver = false
	s.result = nil
}

// NewGame deals a random board at difficulty d
func (s *Session) NewGame(d seed.Difficulty) {
	s.reset()
	s.layout.SetDifficulty(d)
	s.layout.CreateTiles(nil)
	gs := s.layout.GenerateSeed(s.clk.Now())
	s.currentSeed = &gs
	s.seedInput = ""
	s.store.ClearCurrent(context.Background())
	s.statGames.Add(1)
	log.WithField("seed", gs.ID).Infof("new %s game", gs.Difficulty)
	s.draw()
}

// StartSeed deals the board stored in gs. It returns how many slots were
// dropped because their skin id is unknown.
func (s *Session) StartSeed(gs seed.GameSeed) int {
	s.reset()
	dropped := s.layout.CreateTiles(&gs)
	s.currentSeed = &gs
	s.seedInput = gs.ID
	s.store.ClearCurrent(context.Background())
	s.statGames.Add(1)
	log.WithField("seed", gs.ID).Infof("loaded %s seed", gs.Difficulty)
	s.draw()
	return dropped
}

// LoadSeed looks id up among the sample and past seeds and deals it
func (s *Session) LoadSeed(id string) error {
	gs, ok := s.library.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSeedNotFound, id)
	}
	s.StartSeed(gs)
	return nil
}

// Click flips the tile under a canvas point
func (s *Session) Click(x, y float64) bool {
	i := s.layout.TileAt(x, y)
	if i < 0 {
		return false
	}
	return s.FlipTile(i)
}

// PointerMove forwards pointer motion to the parallax effect
func (s *Session) PointerMove(x, y float64) {
	s.anim.PointerMove(x, y)
}

// FlipTile turns tile i face up. It refuses matched, face-up and animating
// tiles, and any flip while two tiles are waiting to be compared.
func (s *Session) FlipTile(i int) bool {
	tiles := s.layout.Tiles()
	if s.gameOver || i < 0 || i >= len(tiles) || len(s.pending) >= pendingLimit {
		return false
	}
	t := tiles[i]
	if t.IsMatched || t.IsFlipped || t.Animating {
		return false
	}

	if !s.timerRunning {
		s.startTimer()
	}
	s.anim.AnimateFlip(t, true, s.flipDuration, s.flipEase, func() { s.sound.Play(audio.Flip) }, nil)
	s.pending = append(s.pending, t)

	if len(s.pending) == pendingLimit {
		s.moves++
		s.resolveTask = s.sched.After("resolve", s.flipDuration, s.resolve)
	}
	return true
}

// resolve compares the two pending tiles once they are face up
func (s *Session) resolve() {
	s.resolveTask = nil
	if len(s.pending) < pendingLimit {
		return
	}
	a, b := s.pending[0], s.pending[1]

	if a.Skin.ID == b.Skin.ID {
		a.IsFlipped, b.IsFlipped = true, true
		a.IsMatched, b.IsMatched = true, true
		s.pending = nil
		s.pairsFound++
		s.sound.Play(audio.Match)
		s.draw()
		if s.pairsFound >= s.TotalPairs() {
			s.win()
		}
		return
	}

	s.resolveTask = s.sched.After("mismatch", s.mismatchDelay, func() {
		s.resolveTask = nil
		for _, t := range s.pending {
			s.anim.AnimateFlip(t, false, s.flipDuration, s.flipEase, nil, nil)
		}
		s.pending = nil
	})
}

func (s *Session) win() {
	s.gameOver = true
	s.stopTimer()
	s.sound.Play(audio.Win)
	s.statWins.Add(1)

	w, h := s.layout.CanvasSize()
	s.anim.Celebrate(w, h)

	if s.currentSeed == nil {
		log.Warn("board cleared without a seed, nothing recorded")
		return
	}
	ctx := context.Background()
	entry := persist.GameHistoryEntry{
		Seed:        *s.currentSeed,
		Time:        s.elapsed,
		Moves:       s.moves,
		CompletedAt: s.clk.Now().UTC(),
	}
	s.result = &entry
	s.store.AppendHistory(ctx, entry)
	s.store.ClearCurrent(ctx)

	log.WithField("seed", entry.Seed.ID).Infof("won in %d moves, %s (%s)",
		entry.Moves, FormatTime(entry.Time), Rate(entry.Moves, entry.Time))
}

func (s *Session) startTimer() {
	if s.timerRunning {
		return
	}
	s.timerRunning = true
	s.timerTask = s.sched.Every("timer", time.Second, func() {
		s.elapsed++
		s.draw()
	})
}

func (s *Session) stopTimer() {
	s.timerRunning = false
	if s.timerTask != nil {
		s.timerTask.Cancel()
		s.timerTask = nil
	}
}

// ShareSeed copies the active seed id to the clipboard. The id is returned
// even when the copy fails; the failure is logged.
func (s *Session) ShareSeed() (string, error) {
	if s.currentSeed == nil {
		return "", ErrNoSeed
	}
	id := s.currentSeed.ID
	if s.clip == nil {
		log.Warnf("no clipboard to copy seed %s", id)
		return id, nil
	}
	if err := s.clip.Copy(id); err != nil {
		log.WithError(err).Errorf("failed to copy seed id %s", id)
	}
	return id, nil
}

// Snapshot captures the game for persistence; nil when no seed is loaded
func (s *Session) Snapshot() *persist.CurrentGameState {
	if s.currentSeed == nil {
		return nil
	}
	tiles := s.layout.Tiles()
	states := make([]persist.TileState, len(tiles))
	for i, t := range tiles {
		states[i] = persist.TileState{
			Position:  i,
			SkinID:    t.Skin.ID,
			IsFlipped: t.IsFlipped,
			IsMatched: t.IsMatched,
		}
	}
	flipped := make([]int, 0, len(s.pending))
	for _, t := range s.pending {
		flipped = append(flipped, s.layout.Index(t))
	}
	gs := *s.currentSeed
	return &persist.CurrentGameState{
		Seed:         &gs,
		Time:         s.elapsed,
		Moves:        s.moves,
		PairsFound:   s.pairsFound,
		IsGameOver:   s.gameOver,
		TimerRunning: s.timerRunning,
		SeedInput:    s.seedInput,
		TileStates:   states,
		FlippedTiles: flipped,
	}
}

// Save writes the snapshot now
func (s *Session) Save() {
	s.store.SaveCurrent(context.Background(), s.Snapshot())
}

// Restore rebuilds the board from st. Tiles in flight at save time come back
// face up; a stored pair waiting for comparison is compared again.
func (s *Session) Restore(st *persist.CurrentGameState) error {
	if st == nil || st.Seed == nil {
		return ErrNoSeed
	}

	gs := *st.Seed
	n := s.layout.SlotCount(gs)
	if len(st.TileStates) != n {
		return fmt.Errorf("%w: %d tile states for %d tiles", ErrSnapshotShape, len(st.TileStates), n)
	}
	for _, ts := range st.TileStates {
		if ts.Position < 0 || ts.Position >= n {
			return fmt.Errorf("%w: position %d", ErrSnapshotShape, ts.Position)
		}
	}

	s.reset()
	s.layout.CreateTiles(&gs)
	tiles := s.layout.Tiles()
	for _, ts := range st.TileStates {
		t := tiles[ts.Position]
		if t.Skin.ID != ts.SkinID {
			log.Warnf("restore: slot %d holds skin %d, snapshot says %d", ts.Position, t.Skin.ID, ts.SkinID)
		}
		t.IsMatched = ts.IsMatched
		t.IsFlipped = ts.IsFlipped || ts.IsMatched
	}
	for _, i := range st.FlippedTiles {
		if i < 0 || i >= len(tiles) || tiles[i].IsMatched || len(s.pending) >= pendingLimit {
			continue
		}
		tiles[i].IsFlipped = true
		s.pending = append(s.pending, tiles[i])
	}

	s.currentSeed = &gs
	s.seedInput = st.SeedInput
	s.elapsed = st.Time
	s.moves = st.Moves
	s.pairsFound = st.PairsFound
	if st.TimerRunning {
		s.startTimer()
	}
	if len(s.pending) == pendingLimit {
		s.resolveTask = s.sched.After("resolve", 0, s.resolve)
	}

	log.WithField("seed", gs.ID).Infof("restored game: %d moves, %s", s.moves, FormatTime(s.elapsed))
	s.draw()
	return nil
}

// RestoreSaved loads and applies the stored snapshot; false when there is
// none or it cannot be applied
func (s *Session) RestoreSaved() bool {
	st := s.store.LoadCurrent(context.Background())
	if st == nil {
		return false
	}
	if err := s.Restore(st); err != nil {
		log.WithError(err).Warn("discarding snapshot")
		s.store.ClearCurrent(context.Background())
		return false
	}
	return true
}

// Close runs the exit save and stops every timer and animation
func (s *Session) Close() {
	s.saver.SaveOnExit(context.Background())
	s.saver.Stop()
	s.stopTimer()
	s.resolveTask = nil
	s.sched.CancelAll()
	s.anim.Close()
}
