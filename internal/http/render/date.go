package render

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/MrJamesThe3rd/vsla/internal/apperr"
)

var ErrInvalidDate = apperr.Validation("dates must be YYYY-MM-DD or RFC 3339")

// Date is a request date that accepts either a calendar day or a full
// timestamp. Calendar days are read as midnight UTC.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ErrInvalidDate
	}

	if raw == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}

	return ErrInvalidDate
}

// Ptr returns the date as a pointer, nil when d is absent or empty.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}

	return new(d.Time)
}
