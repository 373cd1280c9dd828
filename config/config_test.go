package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TIGEREVAL_TEST_KEY", "from-env")
	path := write(t, `
credentials: /keys
services: [gemini, aws]
gemini:
  api_key: ${TIGEREVAL_TEST_KEY}
reference: refs.json
server:
  addr: ":9000"
logging:
  level: debug
  format: text
`)
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Credentials != "/keys" || len(cfg.Services) != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Errorf("api key = %q, want expanded env", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("model default = %q", cfg.Gemini.Model)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.MaxLiveSessions != 64 || cfg.Server.MaxCompareChars != 20000 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Reference != "refs.json" {
		t.Errorf("reference = %q", cfg.Reference)
	}
}

func TestLoadMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	cfg, err := Load(missing, false)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Logging.Format != "json" || cfg.Services[0] != "gemini" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if _, err := Load(missing, true); err == nil {
		t.Error("explicit missing config should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown service", "services: [tesseract]"},
		{"bad level", "logging: {level: loud}"},
		{"bad format", "logging: {format: xml}"},
		{"negative sessions", "server: {max_live_sessions: -1}"},
		{"negative compare chars", "server: {max_compare_chars: -1}"},
		{"bad yaml", "services: [gemini"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(write(t, tt.body), true); err == nil {
				t.Errorf("Load(%q) should fail", tt.body)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	l := LoggingConfig{Level: "warn", Format: "text"}.Logger(os.Stderr)
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
}
