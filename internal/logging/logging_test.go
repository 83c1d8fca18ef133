package logging_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/vsla/internal/logging"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for raw, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(raw), raw)
	}
}
