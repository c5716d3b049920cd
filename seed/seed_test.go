package seed

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"
)

func TestDifficultyShapes(t *testing.T) {
	tests := []struct {
		d                 Difficulty
		pairs, cols, rows int
	}{
		{Easy, 3, 3, 2},
		{Medium, 8, 4, 4},
		{Hard, 10, 5, 4},
	}
	for _, tt := range tests {
		if tt.d.Pairs() != tt.pairs || tt.d.Cols() != tt.cols || tt.d.Rows() != tt.rows {
			t.Errorf("%s: expected %d pairs %dx%d, got %d pairs %dx%d",
				tt.d, tt.pairs, tt.cols, tt.rows, tt.d.Pairs(), tt.d.Cols(), tt.d.Rows())
		}
		if tt.d.Tiles() > tt.d.Cols()*tt.d.Rows() {
			t.Errorf("%s: %d tiles do not fit the grid", tt.d, tt.d.Tiles())
		}
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" Medium ")
	if err != nil || d != Medium {
		t.Errorf("Expected medium, got %q (%v)", d, err)
	}
	if _, err := ParseDifficulty("nightmare"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Errorf("Expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestSamplesAreValid(t *testing.T) {
	for _, s := range Samples() {
		if err := s.Validate(); err != nil {
			t.Errorf("sample %s invalid: %v", s.ID, err)
		}
		if len(s.SkinPositions) != s.Difficulty.Tiles() {
			t.Errorf("sample %s: expected %d slots, got %d", s.ID, s.Difficulty.Tiles(), len(s.SkinPositions))
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		seed GameSeed
	}{
		{"empty id", GameSeed{Difficulty: Easy, SkinPositions: positions(1, 1)}},
		{"bad difficulty", GameSeed{ID: "x", Difficulty: "nope", SkinPositions: positions(1, 1)}},
		{"odd length", GameSeed{ID: "x", Difficulty: Easy, SkinPositions: positions(1, 1, 2)}},
		{"triple", GameSeed{ID: "x", Difficulty: Easy, SkinPositions: positions(1, 1, 1, 1, 2, 2)[0:4]}},
		{"single", GameSeed{ID: "x", Difficulty: Easy, SkinPositions: positions(1, 2)}},
		{"repeated position", GameSeed{ID: "x", Difficulty: Easy, SkinPositions: []SkinPosition{
			{SkinID: 1, Position: 0}, {SkinID: 1, Position: 0}}}},
		{"position out of range", GameSeed{ID: "x", Difficulty: Easy, SkinPositions: []SkinPosition{
			{SkinID: 1, Position: 0}, {SkinID: 1, Position: 5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.seed.Validate(); !errors.Is(err, ErrInvalidSeed) {
				t.Errorf("Expected ErrInvalidSeed, got %v", err)
			}
		})
	}
}

func TestJSONShape(t *testing.T) {
	s := GameSeed{ID: "s1", Difficulty: Easy, SkinPositions: []SkinPosition{{SkinID: 1, Position: 0}}}
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":"s1","difficulty":"easy","skinPositions":[{"skinId":1,"position":0}]}`
	if string(raw) != want {
		t.Errorf("Expected %s, got %s", want, raw)
	}
}

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewID(now)

	re := regexp.MustCompile(`^seed-[0-9a-f]{8}-1700000000123$`)
	if !re.MatchString(id) {
		t.Errorf("Unexpected id format: %s", id)
	}
	if NewID(now) == id {
		t.Error("Expected ids generated at the same instant to differ")
	}
}

func TestLibraryFind(t *testing.T) {
	hist := []GameSeed{{ID: "seed-abc", Difficulty: Easy, SkinPositions: positions(4, 4, 5, 5, 6, 6)}}
	lib := NewLibrary(func() []GameSeed { return hist })

	if s, ok := lib.Find("seed2"); !ok || s.Difficulty != Medium {
		t.Errorf("Expected sample seed2, got %+v (%v)", s, ok)
	}
	if s, ok := lib.Find(" seed-abc "); !ok || s.SkinPositions[0].SkinID != 4 {
		t.Errorf("Expected history seed, got %+v (%v)", s, ok)
	}
	if _, ok := lib.Find("missing"); ok {
		t.Error("Expected missing seed to be absent")
	}

	if _, ok := NewLibrary(nil).Find("seed-abc"); ok {
		t.Error("Expected nil history to only search samples")
	}
}
