package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	logger.Info().Str("package_id", "com.example.tweak").Msg("merged change")

	out := buf.String()
	assert.Contains(t, out, `"package_id":"com.example.tweak"`)
	assert.Contains(t, out, `"message":"merged change"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestTestLoggerCaptures(t *testing.T) {
	tl := NewTestLogger(t)
	tl.Debug().Int("issue", 42).Msg("skipping ineligible body")

	assert.True(t, tl.Contains(`"issue":42`))
	assert.True(t, tl.Contains("skipping ineligible body"))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(nil))
}
