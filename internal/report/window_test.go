package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/vsla/internal/report"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		raw         string
		wantBounded bool
	}{
		{raw: "2024", wantBounded: true},
		{raw: " 2000 ", wantBounded: true},
		{raw: "3000", wantBounded: true},
		{raw: "1999"},
		{raw: "3001"},
		{raw: "2024.5"},
		{raw: "last"},
		{raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.wantBounded, report.ParseYear(tt.raw).Bounded())
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	w := report.ParseYear("2024")

	assert.True(t, w.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Date(2024, 12, 31, 23, 59, 59, 999_000_000, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)))

	assert.True(t, w.NotAfterEnd(time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.NotAfterEnd(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	assert.True(t, report.Window{}.Contains(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)))
}
