package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	testCases := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			New(Config{Level: tc.level})
			assert.Equal(t, tc.want, zerolog.GlobalLevel())
		})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Out: &buf})
	l.Info().Str("ticker", "AAPL").Msg("holding added")

	assert.Contains(t, buf.String(), `"ticker":"AAPL"`)
	assert.Contains(t, buf.String(), `"message":"holding added"`)
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Pretty: true, Out: &buf})
	l.Info().Msg("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.NotContains(t, buf.String(), `"message"`)
}
