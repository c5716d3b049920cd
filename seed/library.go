package seed

import (
	"strings"

	"github.com/lixenwraith/flip-match/log"
)

func positions(ids ...int) []SkinPosition {
	out := make([]SkinPosition, len(ids))
	for i, id := range ids {
		out[i] = SkinPosition{SkinID: id, Position: i}
	}
	return out
}

// Samples returns the built-in seeds, one per difficulty
func Samples() []GameSeed {
	return []GameSeed{
		{ID: "seed1", Difficulty: Easy, SkinPositions: positions(1, 1, 2, 2, 3, 3)},
		{ID: "seed2", Difficulty: Medium, SkinPositions: positions(
			4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11)},
		{ID: "seed3", Difficulty: Hard, SkinPositions: positions(
			12, 12, 13, 13, 14, 14, 15, 15, 16, 16, 17, 17, 18, 18, 19, 19, 20, 20, 1, 1)},
	}
}

// Library resolves seed ids against the samples first, then past games
type Library struct {
	samples []GameSeed
	history func() []GameSeed
}

// NewLibrary creates a library; history may be nil
func NewLibrary(history func() []GameSeed) *Library {
	return &Library{samples: Samples(), history: history}
}

// Find looks up id; unknown ids are logged and reported as absent
func (l *Library) Find(id string) (GameSeed, bool) {
	id = strings.TrimSpace(id)
	for _, s := range l.samples {
		if s.ID == id {
			return s, true
		}
	}
	if l.history != nil {
		for _, s := range l.history() {
			if s.ID == id {
				return s, true
			}
		}
	}
	log.Warnf("seed not found: %s", id)
	return GameSeed{}, false
}
