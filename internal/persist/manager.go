package persist

import (
	"context"
	"time"

	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/store"
	"go.uber.org/zap"
)

// writeTimeout bounds a single slot write so a stuck disk cannot stall
// command dispatch indefinitely.
const writeTimeout = 5 * time.Second

// Manager wires a Slot to the store: it restores the saved snapshot at
// startup and writes through on every state change.
type Manager struct {
	slot   Slot
	logger *zap.Logger
}

// NewManager creates a manager around the given slot.
func NewManager(slot Slot, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{slot: slot, logger: logger}
}

// Restore loads the persisted snapshot into the store. An absent or
// malformed slot leaves the store on its default state; startup never
// fails because of persistence.
func (m *Manager) Restore(ctx context.Context, st *store.Store) {
	data, ok, err := m.slot.Load(ctx)
	if err != nil {
		m.logger.Warn("state_load_failed", zap.Error(err))
		return
	}
	if !ok {
		m.logger.Info("state_slot_empty")
		return
	}
	state, err := Decode(data)
	if err != nil {
		m.logger.Warn("state_decode_failed_using_defaults", zap.Error(err))
		return
	}
	st.Replace(state)
	m.logger.Info("state_restored",
		zap.Int("profiles", len(state.Profiles)),
		zap.Int("chat_messages", len(state.ChatHistory)),
		zap.Int("total_taps", state.UsageStats.TotalTaps),
	)
}

// Attach subscribes the write-through listener. Every snapshot the
// store produces is serialized and saved; failures are logged and the
// board keeps running on its in-memory state.
func (m *Manager) Attach(st *store.Store) {
	st.Subscribe(func(state models.AppState) {
		m.persist(state)
	})
}

// Flush writes the given snapshot immediately. Called once more at
// teardown.
func (m *Manager) Flush(state models.AppState) {
	m.persist(state)
}

func (m *Manager) persist(state models.AppState) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("state_persist_panic", zap.Any("panic", r))
		}
	}()

	data, err := Encode(state)
	if err != nil {
		m.logger.Warn("state_encode_failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := m.slot.Save(ctx, data); err != nil {
		m.logger.Warn("state_save_failed", zap.Error(err))
	}
}
