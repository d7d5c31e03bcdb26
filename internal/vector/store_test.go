package vector

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "vectors.db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_UpsertAndSearch(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	chunks := []struct {
		chunk Chunk
		emb   []float32
	}{
		{Chunk{Namespace: "blood_panel", Seq: 0, Text: "hemoglobin 14.2 g/dL"}, []float32{1, 0, 0}},
		{Chunk{Namespace: "blood_panel", Seq: 1, Text: "glucose 92 mg/dL"}, []float32{0, 1, 0}},
		{Chunk{Namespace: "xray_report", Seq: 0, Text: "no acute findings"}, []float32{0, 0, 1}},
	}
	for _, c := range chunks {
		if err := s.Upsert(ctx, c.chunk, c.emb); err != nil {
			t.Fatalf("Upsert %v: %v", c.chunk, err)
		}
	}

	matches, err := s.Search(ctx, "blood_panel", []float32{0.9, 0.1, 0}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2 (namespace filter)", len(matches))
	}
	if matches[0].Text != "hemoglobin 14.2 g/dL" {
		t.Errorf("closest = %q", matches[0].Text)
	}
	if matches[0].Score < matches[1].Score {
		t.Errorf("results not ordered by score: %v then %v", matches[0].Score, matches[1].Score)
	}
}

func TestStore_UpsertOverwritesBySeq(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, Chunk{Namespace: "doc", Seq: 0, Text: "old"}, []float32{1, 0}); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, Chunk{Namespace: "doc", Seq: 0, Text: "new"}, []float32{0, 1}); err != nil {
		t.Fatal(err)
	}

	matches, err := s.Search(ctx, "doc", []float32{0, 1}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matches))
	}
	if matches[0].Text != "new" {
		t.Errorf("text = %q, want %q", matches[0].Text, "new")
	}
}

func TestStore_DimensionMismatch(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, Chunk{Namespace: "a", Seq: 0, Text: "x"}, []float32{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	err := s.Upsert(ctx, Chunk{Namespace: "a", Seq: 1, Text: "y"}, []float32{1, 2})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestStore_DimensionSurvivesReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "vectors.db")
	ctx := context.Background()

	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(ctx, Chunk{Namespace: "a", Seq: 0, Text: "x"}, []float32{1, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	if err := s2.Upsert(ctx, Chunk{Namespace: "a", Seq: 1, Text: "y"}, []float32{0, 1}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("err = %v, want ErrDimensionMismatch after reopen", err)
	}
	matches, err := s2.Search(ctx, "a", []float32{1, 0, 0, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0].Text != "x" {
		t.Fatalf("matches = %+v", matches)
	}
}

func TestStore_DeleteNamespace(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.Upsert(ctx, Chunk{Namespace: "gone", Seq: i, Text: "t"}, []float32{float32(i), 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Upsert(ctx, Chunk{Namespace: "kept", Seq: 0, Text: "keep"}, []float32{1, 1}); err != nil {
		t.Fatal(err)
	}

	n, err := s.DeleteNamespace(ctx, "gone")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}

	ok, err := s.HasNamespace(ctx, "gone")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("namespace still present after delete")
	}
	ok, err = s.HasNamespace(ctx, "kept")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("unrelated namespace was removed")
	}
}

func TestStore_SearchEmptyDatabase(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	matches, err := s.Search(context.Background(), "anything", []float32{1, 2}, 3)
	if err != nil {
		t.Fatalf("Search on empty store: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches = %d, want 0", len(matches))
	}
}
