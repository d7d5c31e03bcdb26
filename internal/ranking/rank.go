// Package ranking computes the adaptive display order of board tiles.
package ranking

import (
	"sort"
	"time"

	"github.com/aditya6114/aac-board/internal/models"
)

// RecencyWindow is the span within which two recently-used tiles are
// considered equally recent and fall back to usage count.
const RecencyWindow = 5 * time.Minute

// Rank returns the tiles in display order. The sort is stable, pure,
// and deterministic: identical input always yields identical output,
// and tiles with equal rank keys keep their input (creation) order.
//
// Order policy, applied pairwise:
//   - both tiles used: most recent first, unless the two activations
//     are within RecencyWindow of each other, then higher usage first;
//   - one tile used: the used one first;
//   - neither used: higher usage first.
func Rank(tiles []models.Tile) []models.Tile {
	out := models.CloneTiles(tiles)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func less(a, b models.Tile) bool {
	aUsed := a.LastUsed != nil && !a.LastUsed.IsZero()
	bUsed := b.LastUsed != nil && !b.LastUsed.IsZero()

	switch {
	case aUsed && bUsed:
		diff := a.LastUsed.Sub(b.LastUsed.Time)
		if diff < 0 {
			diff = -diff
		}
		if diff < RecencyWindow {
			return a.UsageCount > b.UsageCount
		}
		return a.LastUsed.After(b.LastUsed.Time)
	case aUsed:
		return true
	case bUsed:
		return false
	default:
		return a.UsageCount > b.UsageCount
	}
}
