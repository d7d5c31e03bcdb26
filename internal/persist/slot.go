// Package persist serializes the board state to a durable local slot
// and restores it at startup. Persistence is best-effort: a failed
// write is logged and the next successful write recovers durability.
package persist

import "context"

// SlotName is the single named slot the whole application state lives
// under. Kept equal to the key earlier clients used.
const SlotName = "aac-data"

// Slot is one named durable value. Load reports ok=false when the
// slot has never been written.
type Slot interface {
	Load(ctx context.Context) (data []byte, ok bool, err error)
	Save(ctx context.Context, data []byte) error
	Close() error
}
