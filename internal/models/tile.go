package models

// TileCategory groups tiles on the board. Categories are advisory
// labels; caregiver-created tiles may introduce new ones.
type TileCategory string

const (
	CategoryGreetings  TileCategory = "greetings"
	CategoryPoliteness TileCategory = "politeness"
	CategoryResponses  TileCategory = "responses"
	CategoryNeeds      TileCategory = "needs"
	CategoryEmotions   TileCategory = "emotions"
	CategoryActivities TileCategory = "activities"
)

// Tile is a single speakable unit on the communication board.
//
// A tile's identity is permanent: editing text, icon, or category
// preserves ID, UsageCount, and LastUsed. Position is the creation
// order and only advisory; display order is computed by the ranking
// engine from usage and recency.
//
// JSON field names are camelCase to stay compatible with the persisted
// snapshot shape existing clients already hold.
type Tile struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Icon       string       `json:"icon"`
	Category   TileCategory `json:"category"`
	UsageCount int          `json:"usageCount"`
	LastUsed   *Timestamp   `json:"lastUsed"`
	Position   int          `json:"position"`
}

// Clone returns an independent copy of the tile.
func (t Tile) Clone() Tile {
	cp := t
	if t.LastUsed != nil {
		lu := *t.LastUsed
		cp.LastUsed = &lu
	}
	return cp
}

// CloneTiles deep-copies a tile slice.
func CloneTiles(tiles []Tile) []Tile {
	if tiles == nil {
		return nil
	}
	out := make([]Tile, len(tiles))
	for i, t := range tiles {
		out[i] = t.Clone()
	}
	return out
}
