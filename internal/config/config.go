// Package config handles settings for codexside.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	apierrors "github.com/diogo/codexside/internal/errors"
	"github.com/diogo/codexside/internal/tokens"
)

const (
	// DefaultExecutable is used when no executable path is configured.
	DefaultExecutable = "codex"

	// HomeEnv overrides the configuration directory.
	HomeEnv = "CODEXSIDE_HOME"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Settings represents the user configuration
type Settings struct {
	CodexExecutablePath     string `json:"codex_executable_path"`
	MockRun                 bool   `json:"mock_run"`
	SkipGitRepoCheck        bool   `json:"skip_git_repo_check"`
	AttachVaultRoot         bool   `json:"attach_vault_root"`
	AttachCurrentNoteFolder bool   `json:"attach_current_note_folder"`
	// ExtraAddDirs holds additional directories separated by newlines or commas.
	ExtraAddDirs     string `json:"extra_add_dirs"`
	ContextMaxTokens int    `json:"context_max_tokens"`

	VaultRoot       string         `json:"vault_root,omitempty"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	LogLevel        string         `json:"log_level,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultSettings returns the default configuration
func DefaultSettings() Settings {
	return Settings{
		CodexExecutablePath:     DefaultExecutable,
		MockRun:                 true,
		SkipGitRepoCheck:        false,
		AttachVaultRoot:         true,
		AttachCurrentNoteFolder: true,
		ExtraAddDirs:            "",
		ContextMaxTokens:        tokens.DefaultContextBudget,
		TUITheme:                "tokyonight",
		LogLevel:                "info",
		CopyToClipboard:         false,
		Markdown:                DefaultMarkdownConfig(),
	}
}

// Normalize fills in values that must never be empty.
func (s Settings) Normalize() Settings {
	s.CodexExecutablePath = strings.TrimSpace(s.CodexExecutablePath)
	if s.CodexExecutablePath == "" {
		s.CodexExecutablePath = DefaultExecutable
	}
	if s.ContextMaxTokens <= 0 {
		s.ContextMaxTokens = tokens.DefaultContextBudget
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	return s
}

// Executable returns the trimmed executable path, or "codex" when blank.
func (s Settings) Executable() string {
	if exe := strings.TrimSpace(s.CodexExecutablePath); exe != "" {
		return exe
	}
	return DefaultExecutable
}

var dirSeparator = regexp.MustCompile(`\r?\n|,`)

// ExtraDirs splits ExtraAddDirs on newlines and commas, dropping blanks.
func (s Settings) ExtraDirs() []string {
	var dirs []string
	for _, part := range dirSeparator.Split(s.ExtraAddDirs, -1) {
		if d := strings.TrimSpace(part); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".codexside"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path to the TUI log file
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "codexside.log"), nil
}

// LoadSettings loads the configuration from the default path
func LoadSettings() (Settings, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultSettings(), err
	}
	return LoadSettingsFrom(configPath)
}

// LoadSettingsFrom loads the configuration from path. A missing file yields
// the defaults; a malformed one yields the defaults and a ConfigError.
func LoadSettingsFrom(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, apierrors.NewConfigError(path, fmt.Errorf("failed to read config file: %w", err))
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultSettings(), apierrors.NewConfigError(path, fmt.Errorf("failed to parse config file: %w", err))
	}

	return cfg.Normalize(), nil
}

// SaveSettings saves the configuration to the default path
func SaveSettings(cfg Settings) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	return SaveSettingsTo(filepath.Join(configDir, "config.json"), cfg)
}

// SaveSettingsTo writes the configuration to path
func SaveSettingsTo(path string, cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps the JSON key of each settable field to its parser.
var setters = map[string]func(*Settings, string) error{
	"codex_executable_path": func(s *Settings, v string) error {
		s.CodexExecutablePath = v
		return nil
	},
	"mock_run":                   boolSetter(func(s *Settings) *bool { return &s.MockRun }),
	"skip_git_repo_check":        boolSetter(func(s *Settings) *bool { return &s.SkipGitRepoCheck }),
	"attach_vault_root":          boolSetter(func(s *Settings) *bool { return &s.AttachVaultRoot }),
	"attach_current_note_folder": boolSetter(func(s *Settings) *bool { return &s.AttachCurrentNoteFolder }),
	"copy_to_clipboard":          boolSetter(func(s *Settings) *bool { return &s.CopyToClipboard }),
	"extra_add_dirs": func(s *Settings, v string) error {
		s.ExtraAddDirs = v
		return nil
	},
	"context_max_tokens": func(s *Settings, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("context_max_tokens must be an integer: %w", err)
		}
		s.ContextMaxTokens = n
		return nil
	},
	"vault_root": func(s *Settings, v string) error {
		s.VaultRoot = v
		return nil
	},
	"tui_theme": func(s *Settings, v string) error {
		s.TUITheme = v
		return nil
	},
	"log_level": func(s *Settings, v string) error {
		s.LogLevel = v
		return nil
	},
	"markdown.style": func(s *Settings, v string) error {
		s.Markdown.Style = v
		return nil
	},
}

func boolSetter(field func(*Settings) *bool) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		*field(s) = b
		return nil
	}
}

// Set assigns value to the field named by its JSON key.
func (s *Settings) Set(key, value string) error {
	setter, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (available: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	return setter(s, value)
}

// SettableKeys returns the keys accepted by Set, sorted
func SettableKeys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
