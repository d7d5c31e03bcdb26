package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/ranking"
	"github.com/aditya6114/aac-board/internal/speech"
	"github.com/aditya6114/aac-board/internal/store"
	"github.com/aditya6114/aac-board/internal/suggest"
)

// BoardHandler serves the adaptive tile board.
type BoardHandler struct {
	store   *store.Store
	sched   *suggest.Scheduler
	speaker speech.Speaker
	logger  *zap.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(st *store.Store, sched *suggest.Scheduler, speaker speech.Speaker, logger *zap.Logger) *BoardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardHandler{store: st, sched: sched, speaker: speaker, logger: logger}
}

// RegisterRoutes registers board routes
func (h *BoardHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/board", h.GetBoard).Methods("GET")
	r.HandleFunc("/board/tiles/{id}/activate", h.ActivateTile).Methods("POST")
	r.HandleFunc("/board/suggestions", h.GetSuggestions).Methods("GET")
	r.HandleFunc("/board/suggestions", h.DismissSuggestions).Methods("DELETE")
	r.HandleFunc("/board/suggestions/{id}/activate", h.ActivateSuggestion).Methods("POST")
}

// BoardResponse is the rendered board: tiles in display order plus any
// visible contextual suggestions.
type BoardResponse struct {
	ProfileID   string        `json:"profileId,omitempty"`
	ProfileName string        `json:"profileName,omitempty"`
	Tiles       []models.Tile `json:"tiles"`
	Suggestions []models.Tile `json:"suggestions"`
}

// GetBoard returns the current profile's tiles, most relevant first.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	state := h.store.Snapshot()

	resp := BoardResponse{
		Tiles:       []models.Tile{},
		Suggestions: h.sched.Active(),
	}
	if state.CurrentProfile != nil {
		resp.ProfileID = state.CurrentProfile.ID
		resp.ProfileName = state.CurrentProfile.Name
		resp.Tiles = ranking.Rank(state.CurrentProfile.Tiles)
	}
	respondJSON(w, http.StatusOK, resp)
}

// ActivateTile records a tap on a board tile: usage is counted, the
// text is spoken, and a fresh contextual suggestion set is installed.
func (h *BoardHandler) ActivateTile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// Dispatch first and validate against the returned snapshot: a tap
	// on a missing tile or profile is a no-op in the store, and the
	// snapshot is immune to concurrent profile changes.
	updated := h.store.Dispatch(store.UseTile{TileID: id})
	if updated.CurrentProfile == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No profile is selected")
		return
	}
	tile, ok := updated.CurrentProfile.TileByID(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Tile not found")
		return
	}

	h.speaker.Speak(r.Context(), tile.Text)
	suggestions := h.sched.Activate(tile.Text)

	respondJSON(w, http.StatusOK, map[string]any{
		"tile":        tile,
		"suggestions": suggestions,
	})
}

// GetSuggestions returns the currently visible suggestion set.
func (h *BoardHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"suggestions": h.sched.Active(),
	})
}

// DismissSuggestions clears the visible suggestion set immediately.
func (h *BoardHandler) DismissSuggestions(w http.ResponseWriter, r *http.Request) {
	h.sched.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

// ActivateSuggestion speaks a suggestion tile and dismisses the set.
// Suggestions are synthetic and never accrue usage history.
func (h *BoardHandler) ActivateSuggestion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	tile, ok := suggest.Lookup(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Suggestion not found")
		return
	}

	h.speaker.Speak(r.Context(), tile.Text)
	h.sched.Dismiss()

	respondJSON(w, http.StatusOK, map[string]any{"tile": tile})
}
