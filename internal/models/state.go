package models

// AppState is the full board state: all profiles, the active profile,
// the chat transcript, and aggregate usage counters.
//
// Invariant: when CurrentProfile is set, a profile with the same ID
// exists in Profiles and both carry identical data. Every mutation
// that touches the current profile's tiles must rewrite the matching
// entry in Profiles and the CurrentProfile copy atomically.
type AppState struct {
	CurrentProfile *Profile      `json:"currentProfile"`
	Profiles       []Profile     `json:"profiles"`
	ChatHistory    []ChatMessage `json:"chatHistory"`
	UsageStats     UsageStats    `json:"usageStats"`
}

// NewAppState returns the initial state: one default profile, active,
// with zeroed stats and an empty transcript.
func NewAppState() AppState {
	def := Profile{
		ID:        "default",
		Name:      "Default User",
		Tiles:     DefaultTiles(),
		CreatedAt: Now(),
	}
	current := def.Clone()
	return AppState{
		CurrentProfile: &current,
		Profiles:       []Profile{def},
		ChatHistory:    []ChatMessage{},
		UsageStats:     UsageStats{},
	}
}

// Clone returns a deep copy sharing no memory with the receiver.
func (s AppState) Clone() AppState {
	cp := s
	if s.CurrentProfile != nil {
		p := s.CurrentProfile.Clone()
		cp.CurrentProfile = &p
	}
	cp.Profiles = CloneProfiles(s.Profiles)
	if s.ChatHistory != nil {
		cp.ChatHistory = make([]ChatMessage, len(s.ChatHistory))
		copy(cp.ChatHistory, s.ChatHistory)
	}
	return cp
}

// ProfileByID returns a pointer into Profiles for the given id, or nil.
func (s *AppState) ProfileByID(id string) *Profile {
	for i := range s.Profiles {
		if s.Profiles[i].ID == id {
			return &s.Profiles[i]
		}
	}
	return nil
}
