package audio

import (
	"errors"
	"fmt"
)

// Kind is a game sound
type Kind int

const (
	Flip  Kind = iota // tile turned over
	Match             // pair found
	Win               // board cleared
	kindCount
)

var kindNames = [kindCount]string{"flip", "match", "win"}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every sound
func Kinds() []Kind {
	return []Kind{Flip, Match, Win}
}

// ParseKind resolves a sound name
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Sentinel errors
var (
	ErrUnknownKind = errors.New("unknown sound")
	ErrDisabled    = errors.New("audio disabled")
)
