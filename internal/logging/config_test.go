package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"trace":   zerolog.TraceLevel,
		"warning": zerolog.WarnLevel,
	}
	for raw, want := range cases {
		got, ok := parseLevel(raw)
		if !ok || got != want {
			t.Fatalf("parseLevel(%q) got=%v ok=%v want=%v", raw, got, ok, want)
		}
	}
	if _, ok := parseLevel("loud"); ok {
		t.Fatalf("expected unknown level rejected")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogNoColor, "true")
	t.Setenv(EnvLogTimestamp, "not-a-bool")
	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	if cfg.Level != zerolog.ErrorLevel {
		t.Fatalf("unexpected level: %v", cfg.Level)
	}
	if !cfg.NoColor {
		t.Fatalf("expected no color")
	}
	if !cfg.Timestamp {
		t.Fatalf("invalid bool should keep runtime timestamp default")
	}
}

func TestBypassDiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(Config{Level: zerolog.DebugLevel, Bypass: true, Out: &buf})
	logger.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	logger = newLogger(Config{Level: zerolog.DebugLevel, NoColor: true, Out: &buf})
	logger.Info().Str("family", "Init").Msg("kept")
	if !bytes.Contains(buf.Bytes(), []byte("kept")) {
		t.Fatalf("expected output, got %q", buf.String())
	}
}
