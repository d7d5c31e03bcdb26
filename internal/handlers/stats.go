package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/store"
)

// topTileCount limits the leaderboard in the stats view.
const topTileCount = 5

// StatsHandler serves aggregate usage reporting.
type StatsHandler struct {
	store *store.Store
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(st *store.Store) *StatsHandler {
	return &StatsHandler{store: st}
}

// RegisterRoutes registers stats routes
func (h *StatsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/stats", h.GetStats).Methods("GET")
}

// GetStats reports lifetime counters plus per-profile leaderboards for
// the active profile.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	state := h.store.Snapshot()

	topTiles := models.TopTiles(state.CurrentProfile, topTileCount)
	daily := models.ActivityByDay(state.CurrentProfile)
	if topTiles == nil {
		topTiles = []models.TileUsage{}
	}
	if daily == nil {
		daily = []models.DailyActivity{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"usageStats":    state.UsageStats,
		"topTiles":      topTiles,
		"dailyActivity": daily,
	})
}
