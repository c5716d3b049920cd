// Package ui is the terminal front end. It owns the tcell screen, runs the
// frame loop that steps the game session, maps mouse cells onto canvas
// pixels and draws the HUD around the board.
package ui

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/flip-match/anim"
	"github.com/lixenwraith/flip-match/catalog"
	"github.com/lixenwraith/flip-match/clock"
	"github.com/lixenwraith/flip-match/core"
	"github.com/lixenwraith/flip-match/game"
	"github.com/lixenwraith/flip-match/log"
	"github.com/lixenwraith/flip-match/render"
	"github.com/lixenwraith/flip-match/seed"
)

// DefaultFrameInterval is ~60 FPS
const DefaultFrameInterval = 16 * time.Millisecond

// Screen rows outside the board
const (
	hudRow    = 0
	boardTop  = 1
	footerGap = 1
)

// Options wires an App
type Options struct {
	Screen tcell.Screen
	// Game configures the session; Draw and Clipboard are supplied by the app
	Game game.Options
	// Images overrides image decoding; nil reads files under AssetsDir
	Images    render.Loader
	AssetsDir string

	FrameInterval time.Duration
}

type mode int

const (
	modePlay mode = iota
	modeOffer
	modePrompt
)

// App is one terminal game. All session calls happen on the Run goroutine.
type App struct {
	screen  tcell.Screen
	clk     clock.Clock
	session *game.Session
	raster  *render.Raster
	drawer  *render.Drawer
	images  *render.ImageCache

	interval   time.Duration
	difficulty seed.Difficulty

	mode    mode
	input   []rune
	message string
	pressed bool
	dirty   bool
	quit    bool

	cols, rows int
}

// ErrNoScreen is returned when Options has no screen
var ErrNoScreen = errors.New("no screen")

// NewApp builds the session, the raster surface and the image cache. The
// screen must already be initialized.
func NewApp(opts Options) (*App, error) {
	if opts.Screen == nil {
		return nil, ErrNoScreen
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.Game.Clock == nil {
		opts.Game.Clock = clock.NewReal()
	}
	if !opts.Game.Difficulty.Valid() {
		opts.Game.Difficulty = seed.Easy
	}

	a := &App{
		screen:     opts.Screen,
		clk:        opts.Game.Clock,
		interval:   opts.FrameInterval,
		difficulty: opts.Game.Difficulty,
	}

	load := opts.Images
	if load == nil {
		load = render.FileLoader(opts.AssetsDir)
	}
	a.images = render.NewImageCacheWithLoader(load, a.imagesLoaded)

	opts.Game.Draw = a.invalidate
	opts.Game.Clipboard = screenClipboard{screen: opts.Screen}
	a.session = game.NewSession(opts.Game)

	a.cols, a.rows = opts.Screen.Size()
	w, h := a.session.Layout().CanvasSize()
	dw, dh := a.boardDevice()
	raster, err := render.NewRaster(dw, dh, w, h)
	if err != nil {
		return nil, err
	}
	a.raster = raster
	a.drawer = render.NewDrawer(render.DrawerOptions{
		Surface: raster,
		Tiles:   a.session.Tiles,
		Images:  a.images,
		Confetti: func() []*anim.Particle {
			return a.session.Anim().Confetti().Particles()
		},
		Metrics: opts.Game.Metrics,
	})

	if a.session.HasSavedGame() {
		a.mode = modeOffer
		a.message = "Saved game found: r resume, n new game"
	} else {
		a.newGame(a.difficulty)
	}
	return a, nil
}

// Session is the game driven by the app
func (a *App) Session() *game.Session { return a.session }

// Message is the current footer text
func (a *App) Message() string { return a.message }

// boardDevice is the raster size for the rows between HUD and footer
func (a *App) boardDevice() (int, int) {
	rows := a.rows - boardTop - footerGap
	if rows < 1 {
		rows = 1
	}
	cols := a.cols
	if cols < 1 {
		cols = 1
	}
	return render.CellSize(cols, rows)
}

func (a *App) invalidate() { a.dirty = true }

// imagesLoaded runs on a decoder goroutine; the loop redraws on the interrupt
func (a *App) imagesLoaded() {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		log.WithError(err).Debug("redraw event dropped")
	}
}

// Run is the frame loop; it returns after quit and the exit save
func (a *App) Run() {
	core.SetCrashCleanup(a.screen.Fini)
	defer core.SetCrashCleanup(nil)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	})

	a.Frame()
	for !a.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				a.quit = true
				break
			}
			a.HandleEvent(ev)
		case <-ticker.C:
			a.Frame()
		}
	}
	a.Close()
}

// Close saves the game and stops timers; the screen is left to the caller
func (a *App) Close() {
	a.session.Close()
	a.images.Wait()
	a.raster.Close()
}

// Frame steps the session and repaints when anything changed
func (a *App) Frame() {
	if a.session.Step(a.clk.Now()) {
		a.dirty = true
	}
	a.fitCanvas()
	if !a.dirty {
		return
	}
	a.dirty = false

	a.screen.Clear()
	a.drawer.Draw()
	render.Present(a.screen, a.raster, 0, boardTop)
	a.drawHUD()
	a.drawFooter()
	a.screen.Show()
}

// fitCanvas follows difficulty changes of the board
func (a *App) fitCanvas() {
	w, h := a.session.Layout().CanvasSize()
	lw, lh := a.raster.Size()
	if w == lw && h == lh {
		return
	}
	dw, dh := a.boardDevice()
	a.raster.Resize(dw, dh, w, h)
	a.dirty = true
}

// HandleEvent dispatches one screen event
func (a *App) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		a.HandleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		a.handleResize()
	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(quitRequest); ok {
			a.quit = true
			return
		}
		a.dirty = true
	}
}

func (a *App) handleResize() {
	a.screen.Sync()
	a.cols, a.rows = a.screen.Size()
	w, h := a.session.Layout().CanvasSize()
	dw, dh := a.boardDevice()
	a.raster.Resize(dw, dh, w, h)
	a.dirty = true
}

// HandleMouse maps a cell to canvas pixels. Motion drives parallax; a press
// edge of the primary button clicks.
func (a *App) HandleMouse(col, row int, buttons tcell.ButtonMask) {
	down := buttons&tcell.Button1 != 0
	edge := down && !a.pressed
	a.pressed = down

	if row < boardTop || row >= a.rows-footerGap {
		return
	}
	dx, dy := render.CellToDevice(col, row-boardTop)
	x, y := a.raster.ToLogical(dx, dy)

	a.session.PointerMove(x, y)
	if edge && a.mode == modePlay {
		a.session.Click(x, y)
	}
}

// HandleKey applies one key press
func (a *App) HandleKey(key tcell.Key, r rune) {
	a.dirty = true
	if key == tcell.KeyCtrlC {
		a.quit = true
		return
	}
	if a.mode == modePrompt {
		a.promptKey(key, r)
		return
	}

	if key == tcell.KeyEscape {
		a.quit = true
		return
	}
	if key != tcell.KeyRune {
		return
	}

	switch r {
	case 'q':
		a.quit = true
	case 'n':
		a.newGame(a.difficulty)
	case '1':
		a.newGame(seed.Easy)
	case '2':
		a.newGame(seed.Medium)
	case '3':
		a.newGame(seed.Hard)
	case 'r':
		a.restore()
	case 's':
		a.share()
	case 'l':
		a.mode = modePrompt
		a.input = []rune(a.session.SeedInput())
		a.message = ""
	}
}

func (a *App) promptKey(key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape:
		a.mode = modePlay
		a.message = ""
	case tcell.KeyEnter:
		a.LoadSeed(string(a.input))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	case tcell.KeyRune:
		a.input = append(a.input, r)
	}
	a.session.SetSeedInput(string(a.input))
}

func (a *App) newGame(d seed.Difficulty) {
	a.difficulty = d
	a.mode = modePlay
	a.message = ""
	a.session.NewGame(d)
	a.images.Preload(a.items())
}

func (a *App) restore() {
	if a.mode != modeOffer && !a.session.HasSavedGame() {
		a.message = "No saved game"
		return
	}
	a.mode = modePlay
	if !a.session.RestoreSaved() {
		a.message = "Saved game could not be restored"
		a.newGame(a.difficulty)
		return
	}
	a.difficulty = a.session.Layout().Difficulty()
	a.message = "Game restored"
	a.images.Preload(a.items())
}

// LoadSeed deals the board of a sample or past seed; an unknown id leaves
// the board as is and says so in the footer
func (a *App) LoadSeed(id string) {
	if id == "" {
		return
	}
	if err := a.session.LoadSeed(id); err != nil {
		log.WithError(err).Warn("seed lookup failed")
		a.message = "Unknown seed: " + id
		return
	}
	a.mode = modePlay
	a.difficulty = a.session.Layout().Difficulty()
	a.message = "Loaded seed " + id
	a.images.Preload(a.items())
}

func (a *App) share() {
	id, err := a.session.ShareSeed()
	if err != nil {
		a.message = "Nothing to share"
		return
	}
	a.message = "Seed copied: " + id
}

func (a *App) items() []catalog.Item {
	tiles := a.session.Tiles()
	items := make([]catalog.Item, len(tiles))
	for i, t := range tiles {
		items[i] = t.Skin
	}
	return items
}

type quitRequest struct{}

// RequestQuit asks the loop to stop; safe from any goroutine
func (a *App) RequestQuit() {
	if err := a.screen.PostEvent(tcell.NewEventInterrupt(quitRequest{})); err != nil {
		log.WithError(err).Warn("quit request dropped")
	}
}

// Quit reports whether the loop has been asked to stop
func (a *App) Quit() bool { return a.quit }

// screenClipboard copies through the terminal (OSC 52)
type screenClipboard struct {
	screen tcell.Screen
}

func (c screenClipboard) Copy(text string) error {
	c.screen.SetClipboard([]byte(text))
	return nil
}
