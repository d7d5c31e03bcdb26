package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/store"
	"github.com/aditya6114/aac-board/internal/suggest"
)

// spySpeaker records spoken text instead of reaching a TTS service.
type spySpeaker struct {
	mu     sync.Mutex
	spoken []string
}

func (s *spySpeaker) Speak(_ context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
}

func (s *spySpeaker) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

type boardFixture struct {
	store   *store.Store
	sched   *suggest.Scheduler
	speaker *spySpeaker
	router  *mux.Router
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()
	f := &boardFixture{
		store:   store.New(models.NewAppState(), zap.NewNop()),
		sched:   suggest.NewScheduler(time.Minute, zap.NewNop()),
		speaker: &spySpeaker{},
	}
	f.router = mux.NewRouter()
	NewBoardHandler(f.store, f.sched, f.speaker, zap.NewNop()).RegisterRoutes(f.router)
	return f
}

// envelope mirrors the standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func TestGetBoard(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("GET", "/board", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("success = false: %s", env.Message)
	}

	var body BoardResponse
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if body.ProfileID != "default" {
		t.Errorf("profileId = %q, want %q", body.ProfileID, "default")
	}
	if len(body.Tiles) != len(models.DefaultTiles()) {
		t.Errorf("tiles = %d, want %d", len(body.Tiles), len(models.DefaultTiles()))
	}
	if len(body.Suggestions) != 0 {
		t.Errorf("suggestions = %d, want 0", len(body.Suggestions))
	}
}

func TestGetBoardOrdersByUsage(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	// Tile 12 ("Play") used most recently; it must lead the board.
	f.store.Dispatch(store.UseTile{TileID: "12"})

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("GET", "/board", nil))

	var body BoardResponse
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	if len(body.Tiles) == 0 || body.Tiles[0].ID != "12" {
		t.Fatalf("first tile = %+v, want id 12 first", body.Tiles[0])
	}
}

func TestActivateTile(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/board/tiles/7/activate", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Tile        models.Tile   `json:"tile"`
		Suggestions []models.Tile `json:"suggestions"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
		t.Fatalf("decode activation: %v", err)
	}

	if body.Tile.UsageCount != 1 {
		t.Errorf("usageCount = %d, want 1", body.Tile.UsageCount)
	}
	if body.Tile.LastUsed == nil {
		t.Error("lastUsed not set")
	}
	if len(body.Suggestions) != 4 || body.Suggestions[0].Text != "Hungry" {
		t.Errorf("suggestions = %+v, want Hungry/Apple/Snack/Breakfast", body.Suggestions)
	}

	if got := f.speaker.texts(); len(got) != 1 || got[0] != "Eat" {
		t.Errorf("spoken = %v, want [Eat]", got)
	}
	if len(f.sched.Active()) != 4 {
		t.Errorf("active suggestions = %d, want 4", len(f.sched.Active()))
	}

	state := f.store.Snapshot()
	if state.UsageStats.TotalTaps != 1 {
		t.Errorf("totalTaps = %d, want 1", state.UsageStats.TotalTaps)
	}
}

func TestActivateTileUnknown(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/board/tiles/no-such/activate", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if len(f.speaker.texts()) != 0 {
		t.Error("unknown tile must not be spoken")
	}
	if state := f.store.Snapshot(); state.UsageStats.TotalTaps != 0 {
		t.Errorf("totalTaps = %d, want 0", state.UsageStats.TotalTaps)
	}
}

func TestActivateTileNoProfile(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	f.store.Dispatch(store.DeleteProfile{ID: "default"})

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/board/tiles/7/activate", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
	if len(f.speaker.texts()) != 0 {
		t.Error("nothing should be spoken without a profile")
	}
}

func TestActivateTileUnmappedClearsSuggestions(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	f.router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/board/tiles/7/activate", nil))
	if len(f.sched.Active()) == 0 {
		t.Fatal("expected suggestions after Eat")
	}

	// "Hello" has no mapped suggestions; activating it clears the set.
	f.router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/board/tiles/1/activate", nil))
	if got := f.sched.Active(); len(got) != 0 {
		t.Errorf("active suggestions = %d, want 0", len(got))
	}
}

func TestGetSuggestions(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	f.sched.Activate("Drink")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("GET", "/board/suggestions", nil))

	var body struct {
		Suggestions []models.Tile `json:"suggestions"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
		t.Fatalf("decode suggestions: %v", err)
	}
	if len(body.Suggestions) != 4 || body.Suggestions[0].Text != "Water" {
		t.Errorf("suggestions = %+v, want drink set", body.Suggestions)
	}
}

func TestDismissSuggestions(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	f.sched.Activate("Play")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/board/suggestions", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := f.sched.Active(); len(got) != 0 {
		t.Errorf("active suggestions = %d, want 0", len(got))
	}
}

func TestActivateSuggestion(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	f.sched.Activate("Eat")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/board/suggestions/ctx-1/activate", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Tile models.Tile `json:"tile"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
		t.Fatalf("decode suggestion: %v", err)
	}
	if body.Tile.Text != "Hungry" {
		t.Errorf("tile = %q, want Hungry", body.Tile.Text)
	}

	if got := f.speaker.texts(); len(got) != 1 || got[0] != "Hungry" {
		t.Errorf("spoken = %v, want [Hungry]", got)
	}
	if len(f.sched.Active()) != 0 {
		t.Error("suggestions must dismiss after activation")
	}

	// Synthetic tiles never count toward usage.
	if state := f.store.Snapshot(); state.UsageStats.TotalTaps != 0 {
		t.Errorf("totalTaps = %d, want 0", state.UsageStats.TotalTaps)
	}
}

func TestActivateSuggestionUnknown(t *testing.T) {
	t.Parallel()
	f := newBoardFixture(t)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest("POST", "/board/suggestions/ctx-999/activate", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
