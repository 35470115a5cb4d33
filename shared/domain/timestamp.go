package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes RFC3339, "2006-01-02 15:04:05" style strings and epoch
// numbers (seconds or milliseconds). Values it cannot read decode to the
// zero time instead of failing the surrounding object.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	epoch, err := n.Int64()
	if err != nil {
		return nil
	}
	// 1e11 seconds is year 5138; anything larger is milliseconds.
	if epoch > 1e11 || epoch < -1e11 {
		t.Time = time.UnixMilli(epoch).UTC()
	} else {
		t.Time = time.Unix(epoch, 0).UTC()
	}
	return nil
}
