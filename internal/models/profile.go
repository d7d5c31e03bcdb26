package models

import "github.com/google/uuid"

// Profile is a named, independent set of tiles and usage history
// belonging to one board user. Tile IDs are unique within a profile.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Tiles     []Tile    `json:"tiles"`
	CreatedAt Timestamp `json:"createdAt"`
}

// NewProfile creates a profile seeded with a fresh copy of the default
// tile set.
func NewProfile(name string) Profile {
	return Profile{
		ID:        uuid.NewString(),
		Name:      name,
		Tiles:     DefaultTiles(),
		CreatedAt: Now(),
	}
}

// Clone returns an independent copy of the profile.
func (p Profile) Clone() Profile {
	cp := p
	cp.Tiles = CloneTiles(p.Tiles)
	return cp
}

// TileByID returns the tile with the given id, or false when absent.
func (p Profile) TileByID(id string) (Tile, bool) {
	for _, t := range p.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}

// CloneProfiles deep-copies a profile slice.
func CloneProfiles(profiles []Profile) []Profile {
	if profiles == nil {
		return nil
	}
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = p.Clone()
	}
	return out
}
