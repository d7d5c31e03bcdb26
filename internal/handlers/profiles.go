package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/store"
	"github.com/aditya6114/aac-board/internal/validation"
)

// ProfilesHandler manages board profiles.
type ProfilesHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewProfilesHandler creates a new profiles handler
func NewProfilesHandler(st *store.Store, logger *zap.Logger) *ProfilesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfilesHandler{store: st, logger: logger}
}

// RegisterRoutes registers profile routes
func (h *ProfilesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/profiles", h.ListProfiles).Methods("GET")
	r.HandleFunc("/profiles", h.CreateProfile).Methods("POST")
	r.HandleFunc("/profiles/{id}", h.UpdateProfile).Methods("PATCH")
	r.HandleFunc("/profiles/{id}", h.DeleteProfile).Methods("DELETE")
	r.HandleFunc("/profiles/{id}/select", h.SelectProfile).Methods("POST")
}

// CreateProfileRequest is the payload for creating or renaming a profile.
type CreateProfileRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// ListProfiles returns every profile and the active profile's id.
func (h *ProfilesHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	state := h.store.Snapshot()

	currentID := ""
	if state.CurrentProfile != nil {
		currentID = state.CurrentProfile.ID
	}
	profiles := state.Profiles
	if profiles == nil {
		profiles = []models.Profile{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"profiles":         profiles,
		"currentProfileId": currentID,
	})
}

// CreateProfile adds a profile seeded with the default tile set. The
// new profile is not selected automatically.
func (h *ProfilesHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON format")
		return
	}
	req.Name = validation.SanitizeText(req.Name)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", "Profile name is required and must be at most 100 characters")
		return
	}

	profile := models.NewProfile(req.Name)
	h.store.Dispatch(store.AddProfile{Profile: profile})

	h.logger.Info("profile_created", zap.String("profile_id", profile.ID))
	respondJSON(w, http.StatusCreated, profile)
}

// UpdateProfile renames an existing profile. Tiles and usage history
// are untouched.
func (h *ProfilesHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON format")
		return
	}
	req.Name = validation.SanitizeText(req.Name)
	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", "Profile name is required and must be at most 100 characters")
		return
	}

	state := h.store.Snapshot()
	existing := state.ProfileByID(id)
	if existing == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Profile not found")
		return
	}

	updated := existing.Clone()
	updated.Name = req.Name
	next := h.store.Dispatch(store.UpdateProfile{Profile: updated})

	respondJSON(w, http.StatusOK, next.ProfileByID(id))
}

// DeleteProfile removes a profile. Deleting the active profile falls
// back to the first remaining one, or to no selection at all.
func (h *ProfilesHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	state := h.store.Snapshot()
	if state.ProfileByID(id) == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Profile not found")
		return
	}

	h.store.Dispatch(store.DeleteProfile{ID: id})
	h.logger.Info("profile_deleted", zap.String("profile_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// SelectProfile makes the given profile active.
func (h *ProfilesHandler) SelectProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	state := h.store.Snapshot()
	profile := state.ProfileByID(id)
	if profile == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Profile not found")
		return
	}

	next := h.store.Dispatch(store.SetCurrentProfile{Profile: *profile})
	respondJSON(w, http.StatusOK, next.CurrentProfile)
}
