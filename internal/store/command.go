package store

import (
	"strings"

	"github.com/aditya6114/aac-board/internal/models"
)

// Command is one of the closed set of store mutations. The interface
// is sealed by the unexported apply method: a new command kind cannot
// be added without providing its handler, which keeps the dispatch
// exhaustive by construction.
//
// Every command is total. Malformed payloads (empty text, unknown ids,
// no current profile) leave the state untouched instead of failing.
// apply receives a private deep copy of the state and may mutate it
// freely; the returned value becomes the next snapshot.
type Command interface {
	apply(s models.AppState) models.AppState
	name() string
}

// SetCurrentProfile replaces the active profile wholesale. It does not
// check that the profile exists in the profile list.
type SetCurrentProfile struct {
	Profile models.Profile
}

func (c SetCurrentProfile) name() string { return "set_current_profile" }

func (c SetCurrentProfile) apply(s models.AppState) models.AppState {
	p := c.Profile.Clone()
	s.CurrentProfile = &p
	return s
}

// AddProfile appends a profile. It does not make it current. A profile
// without an id or name is ignored.
type AddProfile struct {
	Profile models.Profile
}

func (c AddProfile) name() string { return "add_profile" }

func (c AddProfile) apply(s models.AppState) models.AppState {
	if !wellFormedProfile(c.Profile) {
		return s
	}
	s.Profiles = append(s.Profiles, c.Profile.Clone())
	return s
}

// UpdateProfile replaces the profile with a matching id, and the
// current profile too when it is the one being updated.
type UpdateProfile struct {
	Profile models.Profile
}

func (c UpdateProfile) name() string { return "update_profile" }

func (c UpdateProfile) apply(s models.AppState) models.AppState {
	if !wellFormedProfile(c.Profile) {
		return s
	}
	for i := range s.Profiles {
		if s.Profiles[i].ID == c.Profile.ID {
			s.Profiles[i] = c.Profile.Clone()
		}
	}
	if s.CurrentProfile != nil && s.CurrentProfile.ID == c.Profile.ID {
		p := c.Profile.Clone()
		s.CurrentProfile = &p
	}
	return s
}

// DeleteProfile removes a profile. When the deleted profile was
// current, the first remaining profile becomes current, or none when
// the list is empty afterwards.
type DeleteProfile struct {
	ID string
}

func (c DeleteProfile) name() string { return "delete_profile" }

func (c DeleteProfile) apply(s models.AppState) models.AppState {
	remaining := make([]models.Profile, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		if p.ID != c.ID {
			remaining = append(remaining, p)
		}
	}
	s.Profiles = remaining
	if s.CurrentProfile != nil && s.CurrentProfile.ID == c.ID {
		if len(remaining) > 0 {
			p := remaining[0].Clone()
			s.CurrentProfile = &p
		} else {
			s.CurrentProfile = nil
		}
	}
	return s
}

// UseTile records one activation of a tile in the current profile:
// usageCount +1, lastUsed now, totalTaps +1. A missing current profile
// or unknown tile id is a no-op, and totalTaps stays unchanged then.
type UseTile struct {
	TileID string

	// now overrides the activation instant in tests.
	now func() models.Timestamp
}

func (c UseTile) name() string { return "use_tile" }

func (c UseTile) apply(s models.AppState) models.AppState {
	nowFn := c.now
	if nowFn == nil {
		nowFn = models.Now
	}
	hit := false
	s = mutateCurrentTiles(s, func(tiles []models.Tile) []models.Tile {
		for i := range tiles {
			if tiles[i].ID == c.TileID {
				tiles[i].UsageCount++
				ts := nowFn()
				tiles[i].LastUsed = &ts
				hit = true
			}
		}
		return tiles
	})
	if hit {
		s.UsageStats.TotalTaps++
	}
	return s
}

// AddChatMessage appends to the transcript. Assistant-authored
// messages increment chatInteractions; user messages do not.
type AddChatMessage struct {
	Message models.ChatMessage
}

func (c AddChatMessage) name() string { return "add_chat_message" }

func (c AddChatMessage) apply(s models.AppState) models.AppState {
	if strings.TrimSpace(c.Message.Text) == "" {
		return s
	}
	s.ChatHistory = append(s.ChatHistory, c.Message)
	if !c.Message.IsUser {
		s.UsageStats.ChatInteractions++
	}
	return s
}

// AddTile appends a tile to the current profile.
type AddTile struct {
	Tile models.Tile
}

func (c AddTile) name() string { return "add_tile" }

func (c AddTile) apply(s models.AppState) models.AppState {
	if c.Tile.ID == "" || strings.TrimSpace(c.Tile.Text) == "" {
		return s
	}
	return mutateCurrentTiles(s, func(tiles []models.Tile) []models.Tile {
		for _, t := range tiles {
			if t.ID == c.Tile.ID {
				return tiles // ids are unique within a profile
			}
		}
		return append(tiles, c.Tile.Clone())
	})
}

// UpdateTile replaces the tile with a matching id in the current
// profile. Identity fields (id) and usage history travel with the
// payload; callers that edit text/icon/category copy them from the
// existing tile first.
type UpdateTile struct {
	Tile models.Tile
}

func (c UpdateTile) name() string { return "update_tile" }

func (c UpdateTile) apply(s models.AppState) models.AppState {
	if c.Tile.ID == "" || strings.TrimSpace(c.Tile.Text) == "" {
		return s
	}
	return mutateCurrentTiles(s, func(tiles []models.Tile) []models.Tile {
		for i := range tiles {
			if tiles[i].ID == c.Tile.ID {
				tiles[i] = c.Tile.Clone()
			}
		}
		return tiles
	})
}

// DeleteTile removes a tile from the current profile.
type DeleteTile struct {
	TileID string
}

func (c DeleteTile) name() string { return "delete_tile" }

func (c DeleteTile) apply(s models.AppState) models.AppState {
	return mutateCurrentTiles(s, func(tiles []models.Tile) []models.Tile {
		out := tiles[:0]
		for _, t := range tiles {
			if t.ID != c.TileID {
				out = append(out, t)
			}
		}
		return out
	})
}

// mutateCurrentTiles rewrites the current profile's tiles and performs
// the dual write: the matching entry in Profiles and the
// CurrentProfile copy are replaced together, so the two views can
// never diverge after a tile mutation. No current profile is a no-op.
func mutateCurrentTiles(s models.AppState, fn func([]models.Tile) []models.Tile) models.AppState {
	if s.CurrentProfile == nil {
		return s
	}
	updated := s.CurrentProfile.Clone()
	updated.Tiles = fn(updated.Tiles)
	for i := range s.Profiles {
		if s.Profiles[i].ID == updated.ID {
			s.Profiles[i] = updated.Clone()
		}
	}
	s.CurrentProfile = &updated
	return s
}

func wellFormedProfile(p models.Profile) bool {
	return p.ID != "" && strings.TrimSpace(p.Name) != ""
}
