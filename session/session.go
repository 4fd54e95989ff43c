// Package session ties the trace service, the player and the renderer
// together: it owns the request lifecycle and composes what adapters show.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matt-g-everett/algoviz/client"
	"github.com/matt-g-everett/algoviz/listing"
	"github.com/matt-g-everett/algoviz/playback"
	"github.com/matt-g-everett/algoviz/scene"
	"github.com/matt-g-everett/algoviz/storyboard"
)

// ErrSuperseded is returned by Visualize when a newer request started
// before this one finished. Its response has been discarded.
var ErrSuperseded = errors.New("session: superseded by a newer request")

// View is everything an adapter needs to draw the current step.
type View struct {
	Status  playback.Status
	Scene   scene.Scene
	Listing listing.Listing
	Loading bool
	// Error is the user-facing message of the last failed request.
	Error string
	// Counter reads "Step i / n" where n is the last index.
	Counter string
}

// Session serialises visualize requests against one Player.
type Session struct {
	fetcher client.Fetcher
	player  *playback.Player
	tracker *scene.Tracker
	logger  *slog.Logger

	// apply orders a request's clear and its load against other requests.
	apply sync.Mutex

	mu        sync.Mutex
	gen       uint64
	cancel    context.CancelFunc
	loading   bool
	err       error
	source    string
	observers []func(View)
}

// New creates a Session. Every player change is forwarded to subscribers
// as a View.
func New(fetcher client.Fetcher, player *playback.Player, tracker *scene.Tracker, logger *slog.Logger) *Session {
	s := new(Session)
	s.fetcher = fetcher
	s.player = player
	s.tracker = tracker
	s.logger = logger
	player.Subscribe(func(st playback.Status) {
		s.publish(s.viewFor(st))
	})
	return s
}

// Player gives adapters access to playback controls.
func (s *Session) Player() *playback.Player {
	return s.player
}

// Subscribe registers fn to receive a View after every change.
func (s *Session) Subscribe(fn func(View)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// View returns the current view.
func (s *Session) View() View {
	return s.viewFor(s.player.Status())
}

// Visualize fetches a storyboard for code and input and loads it. The
// previous storyboard is cleared before the request starts. If another
// request begins before this one returns, this one's result is dropped and
// ErrSuperseded is returned.
func (s *Session) Visualize(ctx context.Context, code, input string) error {
	ctx, cancel, gen := s.begin(ctx, code)
	defer cancel()
	s.logger.Info("visualize request started", "generation", gen)

	frames, err := s.fetcher.Visualize(ctx, client.Request{Code: code, InputData: input})

	s.apply.Lock()
	defer s.apply.Unlock()

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Info("visualize response discarded", "generation", gen)
		return ErrSuperseded
	}
	s.loading = false
	s.cancel = nil
	s.err = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("visualize request failed", "generation", gen, "error", err)
		s.publish(s.View())
		return fmt.Errorf("visualize: %w", err)
	}

	s.load(frames)
	return nil
}

// Open loads a storyboard that did not come from the trace service, such
// as a file. It supersedes any request in flight.
func (s *Session) Open(code string, frames storyboard.Storyboard) {
	_, cancel, _ := s.begin(context.Background(), code)
	defer cancel()

	s.apply.Lock()
	defer s.apply.Unlock()

	s.mu.Lock()
	s.loading = false
	s.cancel = nil
	s.mu.Unlock()

	s.load(frames)
}

// begin starts a new generation, cancelling and clearing the previous one.
func (s *Session) begin(ctx context.Context, code string) (context.Context, context.CancelFunc, uint64) {
	s.apply.Lock()
	defer s.apply.Unlock()

	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.loading = true
	s.err = nil
	s.source = code
	s.mu.Unlock()

	s.player.Clear()
	return ctx, cancel, gen
}

func (s *Session) load(frames storyboard.Storyboard) {
	for _, v := range storyboard.Check(frames) {
		s.logger.Warn("storyboard contract violation", "step", v.Step, "kind", v.Kind, "detail", v.Detail)
	}
	s.logger.Info("storyboard loaded", "frames", len(frames))
	s.player.Load(frames)
}

func (s *Session) viewFor(st playback.Status) View {
	s.mu.Lock()
	loading, err, source := s.loading, s.err, s.source
	s.mu.Unlock()

	v := View{
		Status:  st,
		Scene:   s.tracker.Update(st),
		Loading: loading,
	}
	if err != nil {
		v.Error = client.Message(err)
	}
	if st.Frame != nil {
		v.Listing = listing.Highlight(source, st.Frame.Line())
		v.Counter = fmt.Sprintf("Step %d / %d", st.Cursor, st.Length-1)
	}
	return v
}

func (s *Session) publish(v View) {
	s.mu.Lock()
	observers := make([]func(View), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, o := range observers {
		o(v)
	}
}
