package commands

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diogo/codexside/internal/config"
	"github.com/diogo/codexside/internal/tui"
)

func TestConfigCommand(t *testing.T) {
	cmd := newConfigCmd(newTestEnv(t).deps)

	if cmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", cmd.Use)
	}
	if cmd.Short != "Open configuration menu" {
		t.Errorf("expected Short 'Open configuration menu', got '%s'", cmd.Short)
	}

	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, want := range []string{"show", "set", "path"} {
		if !subs[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
}

func TestConfigCommand_OpensEditor(t *testing.T) {
	env := newTestEnv(t)
	var got tui.SettingsStore
	env.deps.RunConfig = func(store tui.SettingsStore) error {
		got = store
		return nil
	}

	if err := env.execute(context.Background(), "config"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got == nil {
		t.Fatal("RunConfig was not called")
	}
	if got.Path() != filepath.Join(env.dir, "config.json") {
		t.Errorf("store path = %q", got.Path())
	}
}

func TestConfigCommand_Path(t *testing.T) {
	env := newTestEnv(t)
	if err := env.execute(context.Background(), "config", "path"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.TrimSpace(env.stdout.String()); got != filepath.Join(env.dir, "config.json") {
		t.Errorf("path = %q", got)
	}
}

func TestConfigCommand_Show(t *testing.T) {
	env := newTestEnv(t)
	env.saveSettings(t, func(s *config.Settings) { s.CodexExecutablePath = "/opt/codex" })

	if err := env.execute(context.Background(), "config", "show"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var s config.Settings
	if err := json.Unmarshal(env.stdout.Bytes(), &s); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, env.stdout.String())
	}
	if s.CodexExecutablePath != "/opt/codex" {
		t.Errorf("codex_executable_path = %q, want /opt/codex", s.CodexExecutablePath)
	}
}

func TestConfigCommand_Set(t *testing.T) {
	env := newTestEnv(t)

	if err := env.execute(context.Background(), "config", "set", "mock_run", "false"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	s, err := config.LoadSettingsFrom(filepath.Join(env.dir, "config.json"))
	if err != nil {
		t.Fatalf("LoadSettingsFrom() error = %v", err)
	}
	if s.MockRun {
		t.Error("mock_run still true after set")
	}
	if !strings.Contains(env.stdout.String(), "mock_run = false") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestConfigCommand_SetInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "model", "x"}},
		{"bad bool", []string{"config", "set", "mock_run", "maybe"}},
		{"bad int", []string{"config", "set", "context_max_tokens", "lots"}},
		{"missing value", []string{"config", "set", "mock_run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if err := env.execute(context.Background(), tt.args...); err == nil {
				t.Error("expected an error")
			}
			if _, err := config.LoadSettingsFrom(filepath.Join(env.dir, "config.json")); err != nil {
				t.Errorf("settings file damaged: %v", err)
			}
		})
	}
}
