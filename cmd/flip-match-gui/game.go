package main

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lixenwraith/flip-match/anim"
	"github.com/lixenwraith/flip-match/catalog"
	"github.com/lixenwraith/flip-match/clock"
	"github.com/lixenwraith/flip-match/game"
	"github.com/lixenwraith/flip-match/render"
	"github.com/lixenwraith/flip-match/render/gui"
	"github.com/lixenwraith/flip-match/seed"
)

// Window chrome around the canvas
const (
	margin    = 20.0
	hudHeight = 48.0
	hudSize   = 16.0
)

var hudStyle = render.TextStyle{
	Color:       color.NRGBA{0xff, 0xff, 0xff, 0xff},
	Stroke:      color.NRGBA{0, 0, 0, 0xb3},
	StrokeWidth: 2,
	Size:        hudSize,
	Bold:        true,
}

// windowGame adapts a session to ebiten.Game. Frames are only repainted
// when dirty; decoder goroutines set the flag when an image lands.
type windowGame struct {
	session *game.Session
	surface *gui.Surface
	drawer  *render.Drawer
	images  *render.ImageCache
	clk     clock.Clock

	dirty   atomic.Bool
	message string
	prompt  seedPrompt

	difficulty    seed.Difficulty
	width, height int
	canvasW       float64
	canvasH       float64
}

func newWindowGame(opts game.Options, assetsDir string) (*windowGame, error) {
	if opts.Clock == nil {
		opts.Clock = clock.NewReal()
	}
	g := &windowGame{clk: opts.Clock, difficulty: opts.Difficulty}
	g.images = render.NewImageCache(assetsDir, func() { g.dirty.Store(true) })

	opts.Draw = func() { g.dirty.Store(true) }
	g.session = game.NewSession(opts)

	surface, err := gui.NewSurface(0, 0)
	if err != nil {
		return nil, err
	}
	g.surface = surface
	g.drawer = render.NewDrawer(render.DrawerOptions{
		Surface: surface,
		Tiles:   g.session.Tiles,
		Images:  g.images,
		Confetti: func() []*anim.Particle {
			return g.session.Anim().Confetti().Particles()
		},
		Metrics: opts.Metrics,
	})

	if g.session.HasSavedGame() {
		g.restore()
	} else {
		g.newGame(g.difficulty)
	}
	g.fit()
	return g, nil
}

// fit sizes the window to the board
func (g *windowGame) fit() {
	w, h := g.session.Layout().CanvasSize()
	if w == g.canvasW && h == g.canvasH {
		return
	}
	g.canvasW, g.canvasH = w, h
	g.width = int(w + 2*margin)
	g.height = int(h + hudHeight + margin)
	g.surface.SetCanvas(w, h, margin, hudHeight)
	ebiten.SetWindowSize(g.width, g.height)
	g.dirty.Store(true)
}

func (g *windowGame) newGame(d seed.Difficulty) {
	g.difficulty = d
	g.message = ""
	g.session.NewGame(d)
	g.images.Preload(g.items())
}

func (g *windowGame) restore() {
	if !g.session.RestoreSaved() {
		g.newGame(g.difficulty)
		return
	}
	g.difficulty = g.session.Layout().Difficulty()
	g.message = "Game restored"
	g.images.Preload(g.items())
}

func (g *windowGame) loadSeed(id string) {
	if err := g.session.LoadSeed(id); err != nil {
		g.message = "Unknown seed: " + id
		return
	}
	g.difficulty = g.session.Layout().Difficulty()
	g.message = ""
	g.images.Preload(g.items())
}

func (g *windowGame) items() []catalog.Item {
	tiles := g.session.Tiles()
	items := make([]catalog.Item, len(tiles))
	for i, t := range tiles {
		items[i] = t.Skin
	}
	return items
}

// quit saves and ends the run loop
func (g *windowGame) quit() error {
	g.session.Close()
	g.images.Wait()
	return ebiten.Termination
}

func (g *windowGame) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return g.quit()
	}

	if g.prompt.active {
		g.updatePrompt()
		g.step()
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return g.quit()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.newGame(g.difficulty)
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		g.newGame(seed.Easy)
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit2):
		g.newGame(seed.Medium)
	case inpututil.IsKeyJustPressed(ebiten.KeyDigit3):
		g.newGame(seed.Hard)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if g.session.HasSavedGame() {
			g.restore()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		if id, err := g.session.ShareSeed(); err == nil {
			g.message = "Seed: " + id
			g.dirty.Store(true)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.prompt.open(g.session.SeedInput())
		g.message = ""
		g.dirty.Store(true)
		return nil
	}

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)-margin, float64(cy)-hudHeight
	g.session.PointerMove(x, y)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.session.Click(x, y)
	}

	g.step()
	return nil
}

func (g *windowGame) step() {
	if g.session.Step(g.clk.Now()) {
		g.dirty.Store(true)
	}
	g.fit()
}

// updatePrompt edits the seed line; Enter loads it, Escape cancels
func (g *windowGame) updatePrompt() {
	g.dirty.Store(true)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.prompt.close()
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter):
		g.prompt.close()
		if id := g.prompt.text(); id != "" {
			g.loadSeed(id)
		}
		return
	case repeating(ebiten.KeyBackspace):
		g.prompt.backspace()
	}
	g.prompt.insert(ebiten.AppendInputChars(nil))
	g.session.SetSeedInput(g.prompt.text())
}

// repeating fires on press and then at a steady rate while held
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 30 && d%4 == 0)
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	if !g.dirty.Swap(false) {
		return
	}
	g.surface.SetTarget(screen)
	g.drawer.Draw()

	s := g.surface
	s.Save()
	s.Translate(-margin, -hudHeight)
	s.DrawText(g.hudText(), float64(g.width)/2, hudHeight/2+hudSize/3, hudStyle)
	s.Restore()
}

func (g *windowGame) hudText() string {
	s := g.session
	if res := s.Result(); res != nil && s.GameOver() {
		return fmt.Sprintf("You won! %d moves in %s - %s",
			res.Moves, game.FormatTime(res.Time), game.Rate(res.Moves, res.Time))
	}
	if g.prompt.active {
		return "Seed: " + g.prompt.text() + "_"
	}
	if g.message != "" {
		return g.message
	}
	return fmt.Sprintf("Moves: %d   Time: %s   Pairs: %d/%d",
		s.Moves(), s.FormattedTime(), s.PairsFound(), s.TotalPairs())
}

func (g *windowGame) Layout(int, int) (int, int) {
	return g.width, g.height
}
