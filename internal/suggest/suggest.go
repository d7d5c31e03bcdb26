// Package suggest derives short-lived contextual suggestions from a
// just-activated tile.
package suggest

import "github.com/aditya6114/aac-board/internal/models"

// Suggestion tiles are synthetic: they carry fixed ids and icons, are
// not part of any profile, and never accrue usage history. The table
// is keyed by the activated tile's display text.
var contextTable = map[string][]models.Tile{
	"Eat": {
		{ID: "ctx-1", Text: "Hungry", Icon: "🍽️", Category: "food", Position: 0},
		{ID: "ctx-2", Text: "Apple", Icon: "🍎", Category: "food", Position: 1},
		{ID: "ctx-3", Text: "Snack", Icon: "🍪", Category: "food", Position: 2},
		{ID: "ctx-4", Text: "Breakfast", Icon: "🥞", Category: "food", Position: 3},
	},
	"Drink": {
		{ID: "ctx-5", Text: "Water", Icon: "💧", Category: "drinks", Position: 0},
		{ID: "ctx-6", Text: "Juice", Icon: "🧃", Category: "drinks", Position: 1},
		{ID: "ctx-7", Text: "Milk", Icon: "🥛", Category: "drinks", Position: 2},
		{ID: "ctx-8", Text: "Thirsty", Icon: "🥤", Category: "drinks", Position: 3},
	},
	"Play": {
		{ID: "ctx-9", Text: "Games", Icon: "🎲", Category: "activities", Position: 0},
		{ID: "ctx-10", Text: "Toys", Icon: "🧸", Category: "activities", Position: 1},
		{ID: "ctx-11", Text: "Outside", Icon: "🌳", Category: "activities", Position: 2},
		{ID: "ctx-12", Text: "Friends", Icon: "👫", Category: "activities", Position: 3},
	},
}

// For returns the suggestion tiles for the given display text, in
// fixed order, or an empty slice for unmapped text. The function is
// pure: callers receive fresh copies and the same input always yields
// the same sequence.
func For(text string) []models.Tile {
	mapped, ok := contextTable[text]
	if !ok {
		return []models.Tile{}
	}
	return models.CloneTiles(mapped)
}

// Lookup returns a suggestion tile by its synthetic id.
func Lookup(id string) (models.Tile, bool) {
	for _, tiles := range contextTable {
		for _, t := range tiles {
			if t.ID == id {
				return t.Clone(), true
			}
		}
	}
	return models.Tile{}, false
}
