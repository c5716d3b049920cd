// Package seed defines the deterministic layout descriptor shared between
// players and the lookup of known seeds.
package seed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty selects pair count and grid shape
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

type gridShape struct {
	pairs, cols, rows int
}

var shapes = map[Difficulty]gridShape{
	Easy:   {pairs: 3, cols: 3, rows: 2},
	Medium: {pairs: 8, cols: 4, rows: 4},
	Hard:   {pairs: 10, cols: 5, rows: 4},
}

// Sentinel errors
var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrInvalidSeed       = errors.New("invalid seed")
)

// ParseDifficulty accepts easy, medium or hard in any case
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := shapes[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

// Valid reports whether d is a known difficulty
func (d Difficulty) Valid() bool {
	_, ok := shapes[d]
	return ok
}

// Pairs is the number of distinct items on the board
func (d Difficulty) Pairs() int { return shapes[d].pairs }

// Cols is the grid column count
func (d Difficulty) Cols() int { return shapes[d].cols }

// Rows is the grid row count
func (d Difficulty) Rows() int { return shapes[d].rows }

// Tiles is the tile count of a full board
func (d Difficulty) Tiles() int { return 2 * shapes[d].pairs }

// SkinPosition places one item at one slot
type SkinPosition struct {
	SkinID   int `json:"skinId"`
	Position int `json:"position"`
}

// GameSeed deterministically reproduces a tile layout
type GameSeed struct {
	ID            string         `json:"id"`
	Difficulty    Difficulty     `json:"difficulty"`
	SkinPositions []SkinPosition `json:"skinPositions"`
}

// Validate checks the seed invariants: known difficulty, even slot count, every
// skin exactly twice, positions a permutation of 0..N-1
func (s *GameSeed) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSeed)
	}
	if !s.Difficulty.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidSeed, ErrUnknownDifficulty, s.Difficulty)
	}

	n := len(s.SkinPositions)
	if n == 0 || n%2 != 0 {
		return fmt.Errorf("%w: %d slots, want a positive even count", ErrInvalidSeed, n)
	}

	counts := make(map[int]int, n/2)
	seen := make([]bool, n)
	for _, sp := range s.SkinPositions {
		counts[sp.SkinID]++
		if sp.Position < 0 || sp.Position >= n || seen[sp.Position] {
			return fmt.Errorf("%w: position %d is out of range or repeated", ErrInvalidSeed, sp.Position)
		}
		seen[sp.Position] = true
	}
	for id, c := range counts {
		if c != 2 {
			return fmt.Errorf("%w: skin %d appears %d times", ErrInvalidSeed, id, c)
		}
	}
	return nil
}

// SkinIDs returns the skin ids in stored order
func (s *GameSeed) SkinIDs() []int {
	ids := make([]int, len(s.SkinPositions))
	for i, sp := range s.SkinPositions {
		ids[i] = sp.SkinID
	}
	return ids
}

// NewID builds a shareable id: a random part and a millisecond timestamp
func NewID(now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("seed-%s-%d", random, now.UnixMilli())
}
