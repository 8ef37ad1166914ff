package common

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "info", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, err := ParseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestParseLogLevel_Invalid(t *testing.T) {
	_, err := ParseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSetupLogger_InvalidFormat(t *testing.T) {
	err := SetupLogger(slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
