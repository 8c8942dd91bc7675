package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// localDateTime is how the backend serializes timestamps without a zone.
const localDateTime = "2006-01-02T15:04:05.999999999"

// Timestamp accepts both RFC 3339 and zone-less local date-times, the latter
// interpreted as UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if raw == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(localDateTime, raw, time.UTC)
	if err != nil {
		return fmt.Errorf("unsupported timestamp %q: %w", raw, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
