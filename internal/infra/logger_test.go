package infra

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		appEnv string
		level  string
		want   zerolog.Level
	}{
		{appEnv: "development", want: zerolog.DebugLevel},
		{appEnv: "production", want: zerolog.InfoLevel},
		{appEnv: "production", level: "WARN", want: zerolog.WarnLevel},
		{appEnv: "development", level: "bogus", want: zerolog.DebugLevel},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		l := newLogger(&buf, tc.appEnv, tc.level)
		if got := l.GetLevel(); got != tc.want {
			t.Fatalf("env=%s level=%q: got %s want %s", tc.appEnv, tc.level, got, tc.want)
		}
	}
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "production", "")
	l.Info().Str("endpoint", "generate-image").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"endpoint":"generate-image"`) || !strings.Contains(out, `"message":"hello"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}
