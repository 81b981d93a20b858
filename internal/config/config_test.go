package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interview.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{PathEnv, "GEMINI_API_KEY", "GOOGLE_API_KEY", "DEEPGRAM_API_KEY"} {
		t.Setenv(key, "")
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
organization: Acme
role:
  title: Backend Engineer
  requirements: Go and Postgres
deepgram:
  enabled: true
audio:
  backend: portaudio
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Organization != "Acme" || cfg.Role.Title != "Backend Engineer" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Voice != "Kore" || cfg.Audio.FramesPerBuffer != 4096 {
		t.Fatalf("expected defaults to survive, got %+v", cfg)
	}
	if !cfg.Deepgram.Enabled || cfg.Audio.Backend != BackendPortaudio {
		t.Fatalf("expected file values, got %+v", cfg)
	}
}

func TestLoadUsesPathFromEnvironmentAndKeysFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(PathEnv, writeConfig(t, "gemini:\n  api_key: from-file\n"))
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("DEEPGRAM_API_KEY", "deepgram-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "google-key" {
		t.Fatalf("expected environment key to win, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Deepgram.APIKey != "deepgram-key" {
		t.Fatalf("expected deepgram key from environment, got %q", cfg.Deepgram.APIKey)
	}

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.APIKey != "gemini-key" {
		t.Fatalf("expected GEMINI_API_KEY to take precedence, got %q", cfg.Gemini.APIKey)
	}
}

func TestLoadWithoutFileAndEmptyFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Audio.Backend != BackendMiniaudio {
		t.Fatalf("expected default backend, got %q", cfg.Audio.Backend)
	}

	if _, err := Load(writeConfig(t, "")); err != nil {
		t.Fatalf("expected empty file to load, got %v", err)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	clearEnv(t)

	if _, err := Load(writeConfig(t, "audio:\n  backend: pulse\n")); err == nil {
		t.Fatalf("expected unknown backend to fail")
	}
	if _, err := Load(writeConfig(t, "role: [")); err == nil {
		t.Fatalf("expected malformed yaml to fail")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file to fail")
	}
}
