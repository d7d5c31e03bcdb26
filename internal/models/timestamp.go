package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is a time value that survives serialization round-trips.
// It marshals to RFC3339Nano in UTC and unmarshals from RFC3339,
// RFC3339Nano, or integer epoch milliseconds. Persisted snapshots and
// payloads from older clients carry timestamps in any of those forms,
// so every consumer of lastUsed/createdAt/timestamp goes through this
// type rather than time.Time directly.
type Timestamp struct {
	time.Time
}

// Now returns the current time as a Timestamp in UTC.
func Now() Timestamp {
	return Timestamp{time.Now().UTC()}
}

// At wraps an existing time.Time as a Timestamp in UTC.
func At(t time.Time) Timestamp {
	return Timestamp{t.UTC()}
}

// MarshalJSON encodes the timestamp as an RFC3339Nano string in UTC.
// The encoding is deterministic so repeated serialization of the same
// state is byte-for-byte identical.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON decodes an RFC3339/RFC3339Nano string or an integer
// epoch-milliseconds value.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := parseTimeString(s)
		if perr != nil {
			return perr
		}
		t.Time = parsed
		return nil
	}

	// Fall back to epoch milliseconds (Date.now() style values).
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q", string(data))
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999Z0700"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// Equal reports whether two timestamps refer to the same instant.
func (t Timestamp) Equal(other Timestamp) bool {
	return t.Time.Equal(other.Time)
}
