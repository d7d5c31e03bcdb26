package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/store"
	"github.com/aditya6114/aac-board/internal/validation"
)

// TilesHandler manages caregiver edits to the current profile's tiles.
type TilesHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewTilesHandler creates a new tiles handler
func NewTilesHandler(st *store.Store, logger *zap.Logger) *TilesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TilesHandler{store: st, logger: logger}
}

// RegisterRoutes registers tile routes
func (h *TilesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/tiles", h.CreateTile).Methods("POST")
	r.HandleFunc("/tiles/{id}", h.UpdateTile).Methods("PATCH")
	r.HandleFunc("/tiles/{id}", h.DeleteTile).Methods("DELETE")
}

// CreateTileRequest is the payload for adding a tile.
type CreateTileRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=200"`
	Icon     string `json:"icon" validate:"max=16"`
	Category string `json:"category" validate:"max=50"`
}

// UpdateTileRequest carries a partial tile edit. Absent fields keep
// their current values.
type UpdateTileRequest struct {
	Text     *string `json:"text" validate:"omitempty,min=1,max=200"`
	Icon     *string `json:"icon" validate:"omitempty,max=16"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	Position *int    `json:"position" validate:"omitempty,min=0"`
}

// CreateTile appends a tile to the current profile.
func (h *TilesHandler) CreateTile(w http.ResponseWriter, r *http.Request) {
	var req CreateTileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON format")
		return
	}
	req.Text = validation.SanitizeText(req.Text)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", "Tile text is required and must be at most 200 characters")
		return
	}

	state := h.store.Snapshot()
	if state.CurrentProfile == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No profile is selected")
		return
	}

	tile := models.Tile{
		ID:       uuid.NewString(),
		Text:     req.Text,
		Icon:     req.Icon,
		Category: models.TileCategory(req.Category),
		Position: len(state.CurrentProfile.Tiles),
	}
	h.store.Dispatch(store.AddTile{Tile: tile})

	h.logger.Info("tile_created", zap.String("tile_id", tile.ID))
	respondJSON(w, http.StatusCreated, tile)
}

// UpdateTile edits a tile in place. Identity and usage history survive
// every edit.
func (h *TilesHandler) UpdateTile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateTileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON format")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", "Invalid tile fields")
		return
	}

	state := h.store.Snapshot()
	if state.CurrentProfile == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No profile is selected")
		return
	}
	existing, ok := state.CurrentProfile.TileByID(id)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Tile not found")
		return
	}

	updated := existing.Clone()
	if req.Text != nil {
		updated.Text = validation.SanitizeText(*req.Text)
	}
	if req.Icon != nil {
		updated.Icon = *req.Icon
	}
	if req.Category != nil {
		updated.Category = models.TileCategory(*req.Category)
	}
	if req.Position != nil {
		updated.Position = *req.Position
	}
	if updated.Text == "" {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", "Tile text cannot be empty")
		return
	}

	next := h.store.Dispatch(store.UpdateTile{Tile: updated})
	tile, _ := next.CurrentProfile.TileByID(id)
	respondJSON(w, http.StatusOK, tile)
}

// DeleteTile removes a tile from the current profile.
func (h *TilesHandler) DeleteTile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	state := h.store.Snapshot()
	if state.CurrentProfile == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No profile is selected")
		return
	}
	if _, ok := state.CurrentProfile.TileByID(id); !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Tile not found")
		return
	}

	h.store.Dispatch(store.DeleteTile{TileID: id})
	h.logger.Info("tile_deleted", zap.String("tile_id", id))
	w.WriteHeader(http.StatusNoContent)
}
