package models

import "sort"

// UsageStats are aggregate counters kept alongside tile and chat
// activity. TotalTaps counts every successful tile activation across
// all profiles; ChatInteractions counts assistant-authored messages
// only, never user messages.
type UsageStats struct {
	TotalTaps        int `json:"totalTaps"`
	ChatInteractions int `json:"chatInteractions"`
}

// TileUsage pairs a tile with its activation count for dashboard views.
type TileUsage struct {
	Tile  Tile `json:"tile"`
	Count int  `json:"count"`
}

// DailyActivity is the number of activations recorded on one day.
type DailyActivity struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// TopTiles returns the n most-used tiles of a profile, most used
// first. Tiles with zero usage are excluded.
func TopTiles(p *Profile, n int) []TileUsage {
	if p == nil || n <= 0 {
		return nil
	}
	used := make([]TileUsage, 0, len(p.Tiles))
	for _, t := range p.Tiles {
		if t.UsageCount > 0 {
			used = append(used, TileUsage{Tile: t.Clone(), Count: t.UsageCount})
		}
	}
	sort.SliceStable(used, func(i, j int) bool {
		return used[i].Count > used[j].Count
	})
	if len(used) > n {
		used = used[:n]
	}
	return used
}

// ActivityByDay buckets a profile's lastUsed stamps per calendar day.
// Only the most recent activation of each tile is known, so this is an
// approximation for the dashboard, not an exact event log.
func ActivityByDay(p *Profile) []DailyActivity {
	if p == nil {
		return nil
	}
	counts := make(map[string]int)
	for _, t := range p.Tiles {
		if t.LastUsed == nil || t.LastUsed.IsZero() {
			continue
		}
		counts[t.LastUsed.UTC().Format("2006-01-02")]++
	}
	days := make([]DailyActivity, 0, len(counts))
	for date, count := range counts {
		days = append(days, DailyActivity{Date: date, Count: count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
