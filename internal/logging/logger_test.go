package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, `"level":"info"`) {
		t.Errorf("expected level in output, got: %s", out)
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("dropped")
	Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("expected warn message, got: %s", out)
	}
}

func TestDebugErrorAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Debug().Msg("quiet")
	Error().Msg("loud")
	l := WithComponent("tmdb")
	l.Warn().Msg("tagged")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("debug should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, `"level":"error"`) || !strings.Contains(out, "loud") {
		t.Errorf("expected error line, got: %s", out)
	}
	if !strings.Contains(out, `"component":"tmdb"`) {
		t.Errorf("expected component field, got: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"INFO":     zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"bogus":    zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCtxAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	ctx := ContextWithSessionID(context.Background(), "01SESSION")
	ctx = ContextWithCorrelationID(ctx, "abcd1234")
	Ctx(ctx).Info().Msg("with ids")

	out := buf.String()
	if !strings.Contains(out, `"session_id":"01SESSION"`) {
		t.Errorf("expected session id, got: %s", out)
	}
	if !strings.Contains(out, `"correlation_id":"abcd1234"`) {
		t.Errorf("expected correlation id, got: %s", out)
	}
}

func TestNewCorrelationID(t *testing.T) {
	a, b := NewCorrelationID(), NewCorrelationID()
	if len(a) != 8 {
		t.Errorf("expected 8 chars, got %q", a)
	}
	if a == b {
		t.Error("expected distinct ids")
	}
	ctx := ContextWithNewCorrelationID(context.Background())
	if CorrelationIDFromContext(ctx) == "" {
		t.Error("expected correlation id on context")
	}
	if SessionIDFromContext(context.Background()) != "" {
		t.Error("expected empty session id")
	}
}
