// Package persist keeps the in-progress game snapshot and the completed game
// history in a local key-value store.
package persist

import (
	"context"
	"errors"
)

// Storage keys
const (
	KeyCurrent = "memoryGameCurrentState"
	KeyHistory = "memoryGameHistory"
)

var (
	// ErrNotFound is returned by Store.Get for an absent key
	ErrNotFound = errors.New("key not found")
	// ErrClosed is returned after Close
	ErrClosed = errors.New("store closed")
)

// Store is a string key-value store
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
