// Package speech sends board text to a text-to-speech backend.
// Speaking is strictly fire-and-forget: a missing or failing backend
// degrades to a no-op and never surfaces an error to the board.
package speech

import "context"

// Speaker voices a piece of text.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// Noop discards all speech requests. Used when no TTS endpoint is
// configured.
type Noop struct{}

// Speak does nothing.
func (Noop) Speak(context.Context, string) {}
