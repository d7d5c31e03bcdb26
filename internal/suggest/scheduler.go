package suggest

import (
	"sync"
	"time"

	"github.com/aditya6114/aac-board/internal/models"
	"go.uber.org/zap"
)

// DefaultWindow is how long a suggestion set stays visible without
// further interaction.
const DefaultWindow = 10 * time.Second

// Scheduler holds the currently visible suggestion set and its
// auto-dismiss timer. Each activation bumps an epoch counter and the
// deferred dismissal checks that counter before clearing, so a stale
// timer from an earlier activation can never dismiss a newer set.
type Scheduler struct {
	mu     sync.Mutex
	window time.Duration
	epoch  uint64
	active []models.Tile
	logger *zap.Logger
}

// NewScheduler creates a scheduler. A non-positive window falls back
// to DefaultWindow.
func NewScheduler(window time.Duration, logger *zap.Logger) *Scheduler {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{window: window, logger: logger}
}

// Activate installs the suggestion set for the given tile text and
// returns it. A mapped text arms a fresh dismissal timer; unmapped
// text clears any visible set. Either way the previous cycle's timer
// is invalidated.
func (s *Scheduler) Activate(text string) []models.Tile {
	suggestions := For(text)

	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	if len(suggestions) == 0 {
		s.active = nil
		s.mu.Unlock()
		return suggestions
	}
	s.active = models.CloneTiles(suggestions)
	window := s.window
	s.mu.Unlock()

	time.AfterFunc(window, func() {
		s.expire(epoch)
	})

	s.logger.Debug("suggestions_shown",
		zap.String("trigger_text", text),
		zap.Int("count", len(suggestions)),
	)
	return suggestions
}

// Active returns the currently visible suggestion set, or an empty
// slice when nothing is visible.
func (s *Scheduler) Active() []models.Tile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.active) == 0 {
		return []models.Tile{}
	}
	return models.CloneTiles(s.active)
}

// Dismiss hides the current suggestion set immediately.
func (s *Scheduler) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.active = nil
}

// expire clears the active set only when no newer activation or
// dismissal happened since the timer was armed.
func (s *Scheduler) expire(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return
	}
	s.active = nil
}
