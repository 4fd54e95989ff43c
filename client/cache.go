package client

import (
	"context"
	"crypto/sha256"
	"sync"

	"github.com/matt-g-everett/algoviz/storyboard"
)

// Cache remembers successful storyboards per (code, input) for the life of
// the process. Failures are not cached.
type Cache struct {
	next    Fetcher
	mu      sync.Mutex
	entries map[[sha256.Size]byte]storyboard.Storyboard
}

// NewCache wraps next.
func NewCache(next Fetcher) *Cache {
	c := new(Cache)
	c.next = next
	c.entries = make(map[[sha256.Size]byte]storyboard.Storyboard)
	return c
}

func key(req Request) [sha256.Size]byte {
	h := sha256.New()
	h.Write([]byte(req.Code))
	h.Write([]byte{0})
	h.Write([]byte(req.InputData))
	var k [sha256.Size]byte
	copy(k[:], h.Sum(nil))
	return k
}

// Visualize returns a remembered storyboard or fetches and remembers one.
func (c *Cache) Visualize(ctx context.Context, req Request) (storyboard.Storyboard, error) {
	k := key(req)

	c.mu.Lock()
	frames, ok := c.entries[k]
	c.mu.Unlock()
	if ok {
		return frames, nil
	}

	frames, err := c.next.Visualize(ctx, req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[k] = frames
	c.mu.Unlock()
	return frames, nil
}

// Len is the number of remembered storyboards.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
