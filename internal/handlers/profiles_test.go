package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/store"
)

func newProfilesRouter(t *testing.T) (*store.Store, *mux.Router) {
	t.Helper()
	st := store.New(models.NewAppState(), zap.NewNop())
	r := mux.NewRouter()
	NewProfilesHandler(st, zap.NewNop()).RegisterRoutes(r)
	return st, r
}

func TestListProfiles(t *testing.T) {
	t.Parallel()
	_, router := newProfilesRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/profiles", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Profiles         []models.Profile `json:"profiles"`
		CurrentProfileID string           `json:"currentProfileId"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
		t.Fatalf("decode profiles: %v", err)
	}
	if len(body.Profiles) != 1 || body.Profiles[0].ID != "default" {
		t.Errorf("profiles = %+v, want the default profile", body.Profiles)
	}
	if body.CurrentProfileID != "default" {
		t.Errorf("currentProfileId = %q, want default", body.CurrentProfileID)
	}
}

func TestCreateProfile(t *testing.T) {
	t.Parallel()
	st, router := newProfilesRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/profiles", strings.NewReader(`{"name":"  Maya  "}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created models.Profile
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &created); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if created.Name != "Maya" {
		t.Errorf("name = %q, want trimmed %q", created.Name, "Maya")
	}
	if len(created.Tiles) != len(models.DefaultTiles()) {
		t.Errorf("new profile tiles = %d, want default set of %d", len(created.Tiles), len(models.DefaultTiles()))
	}

	state := st.Snapshot()
	if len(state.Profiles) != 2 {
		t.Errorf("profiles = %d, want 2", len(state.Profiles))
	}
	// Creation does not change the selection.
	if state.CurrentProfile == nil || state.CurrentProfile.ID != "default" {
		t.Error("current profile must stay on default after create")
	}
}

func TestCreateProfileValidation(t *testing.T) {
	t.Parallel()
	_, router := newProfilesRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty name", `{"name":""}`},
		{"whitespace only", `{"name":"   "}`},
		{"too long", `{"name":"` + strings.Repeat("x", 101) + `"}`},
		{"bad json", `{"name":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("POST", "/profiles", strings.NewReader(tc.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()
	st, router := newProfilesRouter(t)

	st.Dispatch(store.UseTile{TileID: "1"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/profiles/default", strings.NewReader(`{"name":"Renamed"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	state := st.Snapshot()
	if state.CurrentProfile.Name != "Renamed" {
		t.Errorf("current name = %q, want Renamed", state.CurrentProfile.Name)
	}
	// Rename keeps tiles and usage history.
	if tile, _ := state.CurrentProfile.TileByID("1"); tile.UsageCount != 1 {
		t.Errorf("usageCount = %d, want 1 after rename", tile.UsageCount)
	}
}

func TestUpdateProfileUnknown(t *testing.T) {
	t.Parallel()
	_, router := newProfilesRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/profiles/missing", strings.NewReader(`{"name":"x"}`)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteProfileFallsBackToRemaining(t *testing.T) {
	t.Parallel()
	st, router := newProfilesRouter(t)

	other := models.NewProfile("Second")
	st.Dispatch(store.AddProfile{Profile: other})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/profiles/default", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	state := st.Snapshot()
	if len(state.Profiles) != 1 || state.Profiles[0].ID != other.ID {
		t.Fatalf("profiles = %+v, want only %s", state.Profiles, other.ID)
	}
	if state.CurrentProfile == nil || state.CurrentProfile.ID != other.ID {
		t.Error("selection must fall back to the remaining profile")
	}
}

func TestDeleteLastProfileClearsSelection(t *testing.T) {
	t.Parallel()
	st, router := newProfilesRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/profiles/default", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	state := st.Snapshot()
	if len(state.Profiles) != 0 {
		t.Errorf("profiles = %d, want 0", len(state.Profiles))
	}
	if state.CurrentProfile != nil {
		t.Error("selection must clear when the last profile is deleted")
	}
}

func TestDeleteProfileUnknown(t *testing.T) {
	t.Parallel()
	_, router := newProfilesRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/profiles/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSelectProfile(t *testing.T) {
	t.Parallel()
	st, router := newProfilesRouter(t)

	other := models.NewProfile("Second")
	st.Dispatch(store.AddProfile{Profile: other})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/profiles/"+other.ID+"/select", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	state := st.Snapshot()
	if state.CurrentProfile == nil || state.CurrentProfile.ID != other.ID {
		t.Errorf("current = %+v, want %s selected", state.CurrentProfile, other.ID)
	}
}

func TestSelectProfileUnknown(t *testing.T) {
	t.Parallel()
	st, router := newProfilesRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/profiles/missing/select", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if state := st.Snapshot(); state.CurrentProfile == nil || state.CurrentProfile.ID != "default" {
		t.Error("failed select must leave the current profile untouched")
	}
}
