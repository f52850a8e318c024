package orchestrator

import (
	"github.com/diogo/codexside/internal/config"
)

const (
	subcommand       = "exec"
	skipGitCheckFlag = "--skip-git-repo-check"
	addDirFlag       = "--add-dir"

	userTag      = "\n\nUSER: "
	assistantTag = "\nASSISTANT:"
)

// Workspace exposes the vault the panel is attached to.
type Workspace interface {
	// VaultRoot returns the absolute vault root or "" when unknown.
	VaultRoot() string
	// CurrentNoteFolder returns the folder of the open note, if any.
	CurrentNoteFolder() (string, bool)
}

// AddDirs lists the directories attached to a run, in order: vault root,
// current note folder, then the configured extras.
func AddDirs(s config.Settings, ws Workspace) []string {
	dirs := []string{}
	root := ws.VaultRoot()
	if s.AttachVaultRoot && root != "" {
		dirs = append(dirs, root)
	}
	if s.AttachCurrentNoteFolder {
		if folder, ok := ws.CurrentNoteFolder(); ok {
			dirs = append(dirs, folder)
		}
	}
	return append(dirs, s.ExtraDirs()...)
}

// BuildArgs returns the argument list for the external tool. The prompt is
// always the final argument.
func BuildArgs(s config.Settings, addDirs []string, prompt string) []string {
	args := []string{subcommand}
	if s.SkipGitRepoCheck {
		args = append(args, skipGitCheckFlag)
	}
	for _, dir := range addDirs {
		args = append(args, addDirFlag, dir)
	}
	return append(args, prompt)
}

// WirePrompt prefixes prompt with the conversation so far.
func WirePrompt(contextPrefix, prompt string) string {
	if contextPrefix == "" {
		return prompt
	}
	return contextPrefix + userTag + prompt + assistantTag
}
