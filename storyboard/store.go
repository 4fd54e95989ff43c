package storyboard

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrEmpty is returned by FrameAt when no storyboard is loaded.
	ErrEmpty = errors.New("storyboard: no frame")
	// ErrOutOfRange is returned by FrameAt for an index outside the storyboard.
	ErrOutOfRange = errors.New("storyboard: index out of range")
)

// Store holds the current storyboard. A storyboard is replaced as a unit,
// so readers never observe a partial sequence.
type Store struct {
	mu     sync.RWMutex
	frames Storyboard
}

// NewStore creates an empty Store.
func NewStore() *Store {
	s := new(Store)
	return s
}

// Replace discards the held storyboard and takes a copy of frames.
func (s *Store) Replace(frames Storyboard) {
	cp := make(Storyboard, len(frames))
	copy(cp, frames)

	s.mu.Lock()
	s.frames = cp
	s.mu.Unlock()
}

// FrameAt returns the frame at index.
func (s *Store) FrameAt(index int) (Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.frames) == 0 {
		return Frame{}, ErrEmpty
	}
	if index < 0 || index >= len(s.frames) {
		return Frame{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(s.frames))
	}
	return s.frames[index], nil
}

// Len is the current storyboard size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.frames)
}

// Frames returns a copy of the held storyboard.
func (s *Store) Frames() Storyboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make(Storyboard, len(s.frames))
	copy(cp, s.frames)
	return cp
}
