package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/store"
)

type statsBody struct {
	UsageStats    models.UsageStats      `json:"usageStats"`
	TopTiles      []models.TileUsage     `json:"topTiles"`
	DailyActivity []models.DailyActivity `json:"dailyActivity"`
}

func getStats(t *testing.T, router *mux.Router) statsBody {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body statsBody
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	return body
}

func TestGetStatsEmpty(t *testing.T) {
	t.Parallel()
	st := store.New(models.NewAppState(), zap.NewNop())
	router := mux.NewRouter()
	NewStatsHandler(st).RegisterRoutes(router)

	body := getStats(t, router)
	if body.UsageStats.TotalTaps != 0 || body.UsageStats.ChatInteractions != 0 {
		t.Errorf("stats = %+v, want zeroes", body.UsageStats)
	}
	if len(body.TopTiles) != 0 {
		t.Errorf("topTiles = %d, want 0", len(body.TopTiles))
	}
	if len(body.DailyActivity) != 0 {
		t.Errorf("dailyActivity = %d, want 0", len(body.DailyActivity))
	}
}

func TestGetStatsAfterActivity(t *testing.T) {
	t.Parallel()
	st := store.New(models.NewAppState(), zap.NewNop())
	router := mux.NewRouter()
	NewStatsHandler(st).RegisterRoutes(router)

	for i := 0; i < 3; i++ {
		st.Dispatch(store.UseTile{TileID: "7"})
	}
	st.Dispatch(store.UseTile{TileID: "1"})
	st.Dispatch(store.AddChatMessage{Message: models.NewChatMessage("hi there", false)})

	body := getStats(t, router)
	if body.UsageStats.TotalTaps != 4 {
		t.Errorf("totalTaps = %d, want 4", body.UsageStats.TotalTaps)
	}
	if body.UsageStats.ChatInteractions != 1 {
		t.Errorf("chatInteractions = %d, want 1", body.UsageStats.ChatInteractions)
	}

	if len(body.TopTiles) != 2 {
		t.Fatalf("topTiles = %d, want 2", len(body.TopTiles))
	}
	if body.TopTiles[0].Tile.ID != "7" || body.TopTiles[0].Count != 3 {
		t.Errorf("top tile = %+v, want tile 7 with 3 taps", body.TopTiles[0])
	}

	if len(body.DailyActivity) != 1 {
		t.Errorf("dailyActivity = %d buckets, want 1 (all taps today)", len(body.DailyActivity))
	}
}
