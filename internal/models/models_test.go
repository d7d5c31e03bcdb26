package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_UnmarshalForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", `"2025-06-01T10:00:00Z"`, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), false},
		{"rfc3339 nano", `"2025-06-01T10:00:00.123456789Z"`, time.Date(2025, 6, 1, 10, 0, 0, 123456789, time.UTC), false},
		{"rfc3339 offset", `"2025-06-01T12:00:00+02:00"`, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), false},
		{"epoch millis", `1748772000000`, time.UnixMilli(1748772000000).UTC(), false},
		{"null", `null`, time.Time{}, false},
		{"garbage", `"yesterday"`, time.Time{}, true},
		{"bool", `true`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !ts.Time.Equal(tt.want) {
				t.Errorf("parsed %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestTimestamp_MarshalDeterministic(t *testing.T) {
	t.Parallel()

	ts := At(time.Date(2025, 6, 1, 10, 0, 0, 500000000, time.FixedZone("X", 3600)))
	a, err := json.Marshal(ts)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(ts)
	if string(a) != string(b) {
		t.Errorf("non-deterministic marshal: %s vs %s", a, b)
	}
	if string(a) != `"2025-06-01T09:00:00.5Z"` {
		t.Errorf("marshal = %s, want UTC RFC3339Nano", a)
	}
}

func TestDefaultTiles_FreshInstances(t *testing.T) {
	t.Parallel()

	first := DefaultTiles()
	if len(first) != 12 {
		t.Fatalf("catalog has %d tiles, want 12", len(first))
	}
	first[0].UsageCount = 42
	first[0].Text = "tampered"

	second := DefaultTiles()
	if second[0].UsageCount != 0 || second[0].Text != "Hello" {
		t.Errorf("catalog copies share state: %+v", second[0])
	}
	for _, tile := range second {
		if tile.UsageCount != 0 || tile.LastUsed != nil {
			t.Errorf("starter tile %q has usage history", tile.ID)
		}
	}
}

func TestNewProfile_SeededIndependently(t *testing.T) {
	t.Parallel()

	a := NewProfile("A")
	b := NewProfile("B")
	if a.ID == b.ID {
		t.Error("profiles share an id")
	}
	a.Tiles[0].UsageCount = 9
	if b.Tiles[0].UsageCount != 0 {
		t.Error("profiles share tile instances")
	}
}

func TestTopTiles(t *testing.T) {
	t.Parallel()

	p := NewProfile("Kim")
	p.Tiles[0].UsageCount = 3
	p.Tiles[4].UsageCount = 7
	p.Tiles[6].UsageCount = 5

	top := TopTiles(&p, 2)
	if len(top) != 2 {
		t.Fatalf("TopTiles returned %d entries, want 2", len(top))
	}
	if top[0].Count != 7 || top[1].Count != 5 {
		t.Errorf("TopTiles order wrong: %d, %d", top[0].Count, top[1].Count)
	}
	if TopTiles(nil, 2) != nil {
		t.Error("TopTiles(nil) != nil")
	}
}

func TestAppState_CloneIsDeep(t *testing.T) {
	t.Parallel()

	state := NewAppState()
	cp := state.Clone()
	cp.CurrentProfile.Tiles[0].Text = "tampered"
	cp.Profiles[0].Name = "tampered"

	if state.CurrentProfile.Tiles[0].Text == "tampered" {
		t.Error("clone shares current profile tiles")
	}
	if state.Profiles[0].Name == "tampered" {
		t.Error("clone shares profile list")
	}
}
