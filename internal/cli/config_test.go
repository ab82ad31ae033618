package cli

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigSetAPIPersistsAndResolves(t *testing.T) {
	dir := isolate(t)

	env := mustRunJSON(t, "config", "set-api", "http://plates.test:4000/")
	if got := env["data"].(map[string]any)["apiUrl"]; got != "http://plates.test:4000" {
		t.Fatalf("expected trimmed api url, got %v", got)
	}
	b, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(b), `"apiUrl": "http://plates.test:4000"`) {
		t.Fatalf("unexpected config file:\n%s", b)
	}

	env = mustRunJSON(t, "config", "show")
	if got := env["data"].(map[string]any)["resolvedApiUrl"]; got != "http://plates.test:4000" {
		t.Fatalf("expected config api to resolve, got %v", got)
	}

	env = mustRunJSON(t, "--api", "http://override:1", "config", "show")
	if got := env["data"].(map[string]any)["resolvedApiUrl"]; got != "http://override:1" {
		t.Fatalf("expected --api to win, got %v", got)
	}
}

func TestConfigSetAPIRejectsBadScheme(t *testing.T) {
	dir := isolate(t)

	if _, _, err := runCLI(t, []string{"config", "set-api", "ftp://nope"}); err == nil {
		t.Fatalf("expected scheme error")
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); !os.IsNotExist(err) {
		t.Fatalf("config should not be written on error (stat err=%v)", err)
	}
}

func TestDoctorReportsUnreachableAPI(t *testing.T) {
	isolate(t)

	// Port 1 on localhost refuses connections.
	stdout, _, err := runCLI(t, []string{"--api", "http://127.0.0.1:1", "doctor", "--fail"})
	if err == nil {
		t.Fatalf("expected doctor --fail to error on unreachable api")
	}
	if !strings.Contains(string(stdout), `"hasErrors":true`) {
		t.Fatalf("expected hasErrors in output, got %s", stdout)
	}
}

func TestOpenSessionCarriesLoadedConfig(t *testing.T) {
	dir := isolate(t)
	cfg := `{
  // dashboard prefs
  "apiUrl": "http://plates.test:4000",
  "tui": {"glyphs": "ascii"},
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	sess, err := openSession(context.Background(), &App{}, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	defer sess.Close()
	if sess.cfg == nil || sess.cfg.TUI == nil || sess.cfg.TUI.Glyphs != "ascii" {
		t.Fatalf("expected session to carry the loaded config, got %#v", sess.cfg)
	}
	if sess.apiURL != "http://plates.test:4000" {
		t.Fatalf("unexpected api url %q", sess.apiURL)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"apiUrl": `), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := openSession(context.Background(), &App{}, log.New(io.Discard, "", 0)); err == nil {
		t.Fatalf("expected invalid config to fail the session")
	}
}
