package tile

import (
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/flip-match/catalog"
	"github.com/lixenwraith/flip-match/log"
	"github.com/lixenwraith/flip-match/seed"
)

const (
	DefaultSize    = 150.0
	DefaultPadding = 10.0
)

// Options configures a Layout
type Options struct {
	TileSize   float64
	Padding    float64
	Difficulty seed.Difficulty
	// Rand drives random boards; nil uses a time-seeded source
	Rand *rand.Rand
}

// Layout owns the live tile collection
type Layout struct {
	cat        *catalog.Catalog
	size       float64
	padding    float64
	difficulty seed.Difficulty
	rng        *rand.Rand
	tiles      []*Tile
}

// NewLayout creates an empty layout over cat
func NewLayout(cat *catalog.Catalog, opts Options) *Layout {
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultSize
	}
	if opts.Padding < 0 {
		opts.Padding = DefaultPadding
	}
	if !opts.Difficulty.Valid() {
		opts.Difficulty = seed.Easy
	}
	rng := opts.Rand
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>17|1))
	}
	return &Layout{
		cat:        cat,
		size:       opts.TileSize,
		padding:    opts.Padding,
		difficulty: opts.Difficulty,
		rng:        rng,
	}
}

// Tiles returns the live collection in z-order; callers mutate tiles in place
func (l *Layout) Tiles() []*Tile { return l.tiles }

// Difficulty is the difficulty of the current board
func (l *Layout) Difficulty() seed.Difficulty { return l.difficulty }

// SetDifficulty selects the shape used by the next random board
func (l *Layout) SetDifficulty(d seed.Difficulty) {
	if d.Valid() {
		l.difficulty = d
	}
}

// CanvasSize is the pixel size of the grid without outer margin
func (l *Layout) CanvasSize() (w, h float64) {
	cols, rows := float64(l.difficulty.Cols()), float64(l.difficulty.Rows())
	w = cols*l.size + (cols-1)*l.padding
	h = rows*l.size + (rows-1)*l.padding
	return w, h
}

// CreateTiles replaces the board. A nil seed picks Pairs() distinct items at
// random, duplicates and shuffles them. A seed places its items in stored
// order; slots whose skin id the catalog cannot resolve are dropped and
// counted in the return value.
func (l *Layout) CreateTiles(s *seed.GameSeed) (dropped int) {
	var items []catalog.Item

	if s != nil {
		if s.Difficulty.Valid() {
			l.difficulty = s.Difficulty
		}
		items, dropped = l.resolve(s)
		if dropped > 0 {
			log.Warnf("seed %s: dropped %d slots with unknown skin ids", s.ID, dropped)
		}
	} else {
		picked := l.pick(l.difficulty.Pairs())
		items = make([]catalog.Item, 0, 2*len(picked))
		items = append(items, picked...)
		items = append(items, picked...)
		l.shuffle(items)
	}

	cols := l.difficulty.Cols()
	tiles := make([]*Tile, len(items))
	for i, it := range items {
		col, row := i%cols, i/cols
		tiles[i] = &Tile{
			X:      float64(col) * (l.size + l.padding),
			Y:      float64(row) * (l.size + l.padding),
			Width:  l.size,
			Height: l.size,
			Skin:   it,
			Scale:  1,
		}
	}
	l.tiles = tiles
	return dropped
}

// SlotCount is the number of tiles CreateTiles would deal for s
func (l *Layout) SlotCount(s seed.GameSeed) int {
	items, _ := l.resolve(&s)
	return len(items)
}

// resolve looks up the stored skins of s in order
func (l *Layout) resolve(s *seed.GameSeed) (items []catalog.Item, dropped int) {
	ids := s.SkinIDs()
	items = make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		it, ok := l.cat.Lookup(id)
		if !ok {
			dropped++
			continue
		}
		items = append(items, it)
	}
	return items, dropped
}

// pick selects n distinct catalog items uniformly; a short catalog yields fewer
func (l *Layout) pick(n int) []catalog.Item {
	all := l.cat.Items()
	if n > len(all) {
		n = len(all)
	}
	// Partial Fisher-Yates: the first n slots are a uniform sample
	for i := 0; i < n; i++ {
		j := i + l.rng.IntN(len(all)-i)
		all[i], all[j] = all[j], all[i]
	}
	return all[:n]
}

func (l *Layout) shuffle(items []catalog.Item) {
	for i := len(items) - 1; i > 0; i-- {
		j := l.rng.IntN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// GenerateSeed captures the live tile order as a new seed
func (l *Layout) GenerateSeed(now time.Time) seed.GameSeed {
	positions := make([]seed.SkinPosition, len(l.tiles))
	for i, t := range l.tiles {
		positions[i] = seed.SkinPosition{SkinID: t.Skin.ID, Position: i}
	}
	return seed.GameSeed{
		ID:            seed.NewID(now),
		Difficulty:    l.difficulty,
		SkinPositions: positions,
	}
}

// TileAt returns the topmost tile under a canvas point, or -1
func (l *Layout) TileAt(x, y float64) int {
	for i := len(l.tiles) - 1; i >= 0; i-- {
		if l.tiles[i].Contains(x, y) {
			return i
		}
	}
	return -1
}

// Index returns the collection position of t, or -1
func (l *Layout) Index(t *Tile) int {
	for i, c := range l.tiles {
		if c == t {
			return i
		}
	}
	return -1
}
