// Package store holds the whole board state behind a fixed command
// set. All mutation flows through Dispatch; nothing else in the
// process may change the state.
package store

import (
	"sync"

	"github.com/aditya6114/aac-board/internal/models"
	"go.uber.org/zap"
)

// Listener observes each new state snapshot after a command is
// applied. Listeners run synchronously on the dispatching goroutine,
// in apply order, and receive a private copy. A listener must not
// dispatch commands itself.
type Listener func(models.AppState)

// Store is the single writer for the application state. It is
// constructed once at startup and injected into its consumers.
// Commands execute atomically: the lock spans the whole apply, so no
// command can observe a partially applied prior command.
type Store struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	state     models.AppState
	listeners []Listener
	logger    *zap.Logger
}

// New creates a store from the given initial state.
func New(initial models.AppState, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:  initial.Clone(),
		logger: logger,
	}
}

// Dispatch applies a command and returns the resulting snapshot.
// The new state shares no memory with the previous one.
func (s *Store) Dispatch(cmd Command) models.AppState {
	s.mu.Lock()
	next := cmd.apply(s.state.Clone())
	s.state = next
	snapshot := next.Clone()
	listeners := s.listeners
	// Take the notification lock before releasing the state lock so
	// listeners observe snapshots in apply order even under
	// concurrent dispatch.
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.logger.Debug("command_applied", zap.String("command", cmd.name()))

	for _, fn := range listeners {
		fn(snapshot.Clone())
	}
	s.notifyMu.Unlock()
	return snapshot
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers a listener for future snapshots. Registration is
// not removable; subscribers live as long as the store.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Replace swaps in a restored state wholesale. Used once at startup
// when the persistence adapter re-hydrates a saved snapshot; it does
// not notify listeners.
func (s *Store) Replace(state models.AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
}
