package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewHTTPSpeaker_EmptyEndpointDegradesToNoop(t *testing.T) {
	t.Parallel()

	s := NewHTTPSpeaker("", Options{}, nil)
	if _, ok := s.(Noop); !ok {
		t.Fatalf("expected Noop speaker, got %T", s)
	}
	// Must not panic or block.
	s.Speak(context.Background(), "Hello")
}

func TestHTTPSpeaker_PostsUtterance(t *testing.T) {
	t.Parallel()

	got := make(chan speakRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req speakRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad body: %v", err)
		}
		got <- req
	}))
	defer srv.Close()

	s := NewHTTPSpeaker(srv.URL, Options{}, nil)
	s.Speak(context.Background(), "Thank you")

	select {
	case req := <-got:
		if req.Text != "Thank you" {
			t.Errorf("text = %q", req.Text)
		}
		if req.Rate != 0.8 || req.Pitch != 1 || req.Volume != 1 {
			t.Errorf("default options not applied: %+v", req)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("utterance never posted")
	}
}

func TestHTTPSpeaker_FailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewHTTPSpeaker(srv.URL, DefaultOptions(), nil)
	s.Speak(context.Background(), "Hello")
	s.Speak(context.Background(), "") // empty text is dropped client-side

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("request never sent")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}
