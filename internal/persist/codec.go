package persist

import (
	"encoding/json"
	"fmt"

	"github.com/aditya6114/aac-board/internal/models"
)

// snapshot is the wire shape of the persisted slot:
// { profiles, currentProfile, chatHistory, usageStats }. Field order
// is fixed so re-serializing a decoded snapshot is byte-identical.
type snapshot struct {
	Profiles       []models.Profile     `json:"profiles"`
	CurrentProfile *models.Profile      `json:"currentProfile"`
	ChatHistory    []models.ChatMessage `json:"chatHistory"`
	UsageStats     models.UsageStats    `json:"usageStats"`
}

// Encode serializes a state snapshot. All timestamps become RFC3339
// strings via models.Timestamp.
func Encode(state models.AppState) ([]byte, error) {
	data, err := json.Marshal(snapshot{
		Profiles:       state.Profiles,
		CurrentProfile: state.CurrentProfile,
		ChatHistory:    state.ChatHistory,
		UsageStats:     state.UsageStats,
	})
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode re-hydrates a persisted snapshot, parsing timestamp strings
// back into time values.
func Decode(data []byte) (models.AppState, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.AppState{}, fmt.Errorf("decode state: %w", err)
	}
	state := models.AppState{
		CurrentProfile: snap.CurrentProfile,
		Profiles:       snap.Profiles,
		ChatHistory:    snap.ChatHistory,
		UsageStats:     snap.UsageStats,
	}
	if state.Profiles == nil {
		state.Profiles = []models.Profile{}
	}
	if state.ChatHistory == nil {
		state.ChatHistory = []models.ChatMessage{}
	}
	return state, nil
}
