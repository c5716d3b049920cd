package ui

import (
	"image"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/flip-match/clock"
	"github.com/lixenwraith/flip-match/game"
	"github.com/lixenwraith/flip-match/persist"
	"github.com/lixenwraith/flip-match/seed"
	"github.com/lixenwraith/flip-match/status"
)

var t0 = time.Date(2025, 5, 4, 18, 0, 0, 0, time.UTC)

type harness struct {
	app    *App
	screen tcell.SimulationScreen
	clk    *clock.Mock
	store  *persist.MemoryStore
}

func newHarness(t *testing.T, store *persist.MemoryStore) *harness {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	clk := clock.NewMock(t0)
	app, err := NewApp(Options{
		Screen: screen,
		Game: game.Options{
			Clock:   clk,
			Rand:    rand.New(rand.NewPCG(7, 11)),
			Store:   persist.NewManager(persist.Options{Store: store, Clock: clk}),
			Metrics: status.NewRegistry(),
		},
		Images: func(string) (image.Image, error) {
			return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
		},
	})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return &harness{app: app, screen: screen, clk: clk, store: store}
}

func (h *harness) frames(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += 10 * time.Millisecond {
		h.clk.Advance(10 * time.Millisecond)
		h.app.Frame()
	}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.app.HandleKey(tcell.KeyRune, r)
	}
}

// cellOf is the screen cell over the center of tile i
func (h *harness) cellOf(i int) (int, int) {
	cx, cy := h.app.session.Tiles()[i].Center()
	dx, dy := h.app.raster.ToDevice(cx, cy)
	return int(dx), int(dy)/2 + boardTop
}

func (h *harness) click(i int) {
	col, row := h.cellOf(i)
	h.app.HandleMouse(col, row, tcell.Button1)
	h.app.HandleMouse(col, row, tcell.ButtonNone)
}

func (h *harness) row(y int) string {
	w, _ := h.screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := h.screen.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestStartsNewGame(t *testing.T) {
	h := newHarness(t, persist.NewMemoryStore())
	defer h.app.Close()

	if h.app.Session().Seed() == nil {
		t.Fatal("Expected a game dealt at startup")
	}
	if n := len(h.app.Session().Tiles()); n != seed.Easy.Tiles() {
		t.Errorf("Expected %d tiles, got %d", seed.Easy.Tiles(), n)
	}

	h.app.Frame()
	if hud := h.row(hudRow); !strings.Contains(hud, "Moves: 0") || !strings.Contains(hud, "Pairs: 0/3") {
		t.Errorf("Unexpected HUD %q", hud)
	}
	if footer := h.row(23); !strings.Contains(footer, "n new") {
		t.Errorf("Expected key help in footer, got %q", footer)
	}
}

func TestSeedPromptAndClicks(t *testing.T) {
	h := newHarness(t, persist.NewMemoryStore())
	defer h.app.Close()

	h.typeText("l")
	h.typeText("seed1")
	h.app.Frame()
	if footer := h.row(23); !strings.Contains(footer, "Seed: seed1_") {
		t.Errorf("Expected prompt echo, got %q", footer)
	}
	h.app.HandleKey(tcell.KeyEnter, 0)

	s := h.app.Session()
	if s.Seed() == nil || s.Seed().ID != "seed1" {
		t.Fatalf("Expected seed1 loaded, got %+v", s.Seed())
	}

	h.click(0)
	h.frames(100 * time.Millisecond)
	h.click(1)
	h.frames(500 * time.Millisecond)

	if s.Moves() != 1 {
		t.Errorf("Expected 1 move, got %d", s.Moves())
	}
	if !s.Tiles()[0].IsMatched || !s.Tiles()[1].IsMatched {
		t.Error("Expected clicked pair matched")
	}
	if hud := h.row(hudRow); !strings.Contains(hud, "Moves: 1") || !strings.Contains(hud, "seed1") {
		t.Errorf("Unexpected HUD %q", hud)
	}
}

func TestHeldButtonClicksOnce(t *testing.T) {
	h := newHarness(t, persist.NewMemoryStore())
	defer h.app.Close()

	col, row := h.cellOf(0)
	h.app.HandleMouse(col, row, tcell.Button1)
	h.frames(300 * time.Millisecond)
	h.app.HandleMouse(col+1, row, tcell.Button1)
	h.frames(300 * time.Millisecond)

	if !h.app.Session().Tiles()[0].IsFlipped {
		t.Error("Expected tile flipped by the press")
	}
	if h.app.Session().Moves() != 0 {
		t.Errorf("Expected drag not to flip again, got %d moves", h.app.Session().Moves())
	}
}

func TestUnknownSeedMessage(t *testing.T) {
	h := newHarness(t, persist.NewMemoryStore())
	defer h.app.Close()
	before := h.app.Session().Seed().ID

	h.typeText("lnope")
	h.app.HandleKey(tcell.KeyBackspace2, 0)
	h.app.HandleKey(tcell.KeyEnter, 0)

	if !strings.Contains(h.app.Message(), "Unknown seed: nop") {
		t.Errorf("Unexpected message %q", h.app.Message())
	}
	if h.app.Session().Seed().ID != before {
		t.Error("Expected board unchanged after unknown seed")
	}
	h.app.HandleKey(tcell.KeyEscape, 0)
	if h.app.Quit() {
		t.Error("Expected escape to leave the prompt, not quit")
	}
}

func TestDifficultyKeysResizeCanvas(t *testing.T) {
	h := newHarness(t, persist.NewMemoryStore())
	defer h.app.Close()

	h.typeText("3")
	h.app.Frame()
	if n := len(h.app.Session().Tiles()); n != seed.Hard.Tiles() {
		t.Errorf("Expected %d tiles, got %d", seed.Hard.Tiles(), n)
	}
	w, hh := h.app.Session().Layout().CanvasSize()
	lw, lh := h.app.raster.Size()
	if w != lw || hh != lh {
		t.Errorf("Expected raster canvas %vx%v, got %vx%v", w, hh, lw, lh)
	}
}

func TestOfferRestore(t *testing.T) {
	store := persist.NewMemoryStore()
	first := newHarness(t, store)
	first.typeText("l")
	first.typeText("seed1")
	first.app.HandleKey(tcell.KeyEnter, 0)
	first.click(0)
	first.frames(100 * time.Millisecond)
	first.click(1)
	first.frames(500 * time.Millisecond)
	first.app.Close()

	second := newHarness(t, store)
	defer second.app.Close()
	if second.app.mode != modeOffer {
		t.Fatal("Expected restore offer at startup")
	}
	if !strings.Contains(second.app.Message(), "Saved game found") {
		t.Errorf("Unexpected message %q", second.app.Message())
	}

	// Clicks are ignored until the player chooses
	second.app.HandleMouse(10, 5, tcell.Button1)
	second.app.HandleMouse(10, 5, tcell.ButtonNone)

	second.typeText("r")
	s := second.app.Session()
	if s.Seed() == nil || s.Seed().ID != "seed1" || s.Moves() != 1 {
		t.Fatalf("Expected seed1 restored with 1 move, got %+v moves=%d", s.Seed(), s.Moves())
	}
	if !s.Tiles()[0].IsMatched {
		t.Error("Expected matched tile restored")
	}
}

func TestShareAndQuit(t *testing.T) {
	h := newHarness(t, persist.NewMemoryStore())
	defer h.app.Close()

	h.typeText("s")
	if want := "Seed copied: " + h.app.Session().Seed().ID; h.app.Message() != want {
		t.Errorf("Expected %q, got %q", want, h.app.Message())
	}

	h.typeText("q")
	if !h.app.Quit() {
		t.Error("Expected q to quit")
	}
}

func TestResize(t *testing.T) {
	h := newHarness(t, persist.NewMemoryStore())
	defer h.app.Close()

	h.screen.SetSize(100, 30)
	h.app.HandleEvent(tcell.NewEventResize(100, 30))
	b := h.app.raster.Image().Bounds()
	if b.Dx() != 100 || b.Dy() != 2*(30-boardTop-footerGap) {
		t.Errorf("Expected 100x56 raster, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestWinHUD(t *testing.T) {
	h := newHarness(t, persist.NewMemoryStore())
	defer h.app.Close()
	s := h.app.Session()
	s.StartSeed(seed.Samples()[0])

	byID := map[int][]int{}
	for i, tl := range s.Tiles() {
		byID[tl.Skin.ID] = append(byID[tl.Skin.ID], i)
	}
	for _, idx := range byID {
		s.FlipTile(idx[0])
		s.FlipTile(idx[1])
		h.frames(400 * time.Millisecond)
	}

	if !s.GameOver() {
		t.Fatal("Expected game over")
	}
	if hud := h.row(hudRow); !strings.Contains(hud, "You won!") || !strings.Contains(hud, "Excellent") {
		t.Errorf("Unexpected win HUD %q", hud)
	}
}

func TestRequestQuit(t *testing.T) {
	h := newHarness(t, persist.NewMemoryStore())
	defer h.app.Close()

	h.app.HandleEvent(tcell.NewEventInterrupt(nil))
	if h.app.Quit() {
		t.Error("Expected redraw interrupt not to quit")
	}
	h.app.HandleEvent(tcell.NewEventInterrupt(quitRequest{}))
	if !h.app.Quit() {
		t.Error("Expected quit request to stop the loop")
	}
}
