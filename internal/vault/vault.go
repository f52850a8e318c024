// Package vault models the directory of notes the panel works against.
package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apierrors "github.com/diogo/codexside/internal/errors"
	"github.com/diogo/codexside/internal/pdf"
)

// MaxTextBytes caps non-PDF attachments.
const MaxTextBytes = 1 << 20

// Vault tracks the vault root and the note currently open.
// It is safe for concurrent use.
type Vault struct {
	root string

	mu   sync.RWMutex
	note string // absolute path, "" when no note is open
}

// New creates a vault rooted at root. An empty root means the root is unknown.
func New(root string) (*Vault, error) {
	if root == "" {
		return &Vault{}, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault root: %w", err)
	}
	return &Vault{root: filepath.Clean(abs)}, nil
}

// VaultRoot returns the absolute vault root, or "" when unknown.
func (v *Vault) VaultRoot() string {
	return v.root
}

// SetCurrentNote marks path as the open note. Relative paths are resolved
// against the vault root; absolute paths must lie inside it.
// An empty path closes the current note.
func (v *Vault) SetCurrentNote(path string) error {
	if strings.TrimSpace(path) == "" {
		v.mu.Lock()
		v.note = ""
		v.mu.Unlock()
		return nil
	}

	abs, err := v.resolve(path)
	if err != nil {
		return err
	}
	if v.root != "" && !v.contains(abs) {
		return fmt.Errorf("%w: %s", apierrors.ErrOutsideVault, path)
	}

	v.mu.Lock()
	v.note = abs
	v.mu.Unlock()
	return nil
}

// CurrentNote returns the absolute path of the open note.
func (v *Vault) CurrentNote() (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.note, v.note != ""
}

// CurrentNoteFolder returns the absolute folder of the open note.
func (v *Vault) CurrentNoteFolder() (string, bool) {
	note, ok := v.CurrentNote()
	if !ok {
		return "", false
	}
	return filepath.Dir(note), true
}

// Rel returns path relative to the vault root.
func (v *Vault) Rel(path string) (string, bool) {
	if v.root == "" {
		return "", false
	}
	rel, err := filepath.Rel(v.root, path)
	if err != nil {
		return "", false
	}
	return rel, true
}

// ReadAttachment returns the text content of a file for inclusion in a
// prompt. PDFs are converted to text; other files are read as UTF-8 and
// capped at MaxTextBytes.
func (v *Vault) ReadAttachment(path string) (string, error) {
	abs, err := v.resolve(path)
	if err != nil {
		return "", err
	}

	if strings.EqualFold(filepath.Ext(abs), ".pdf") {
		info, err := os.Stat(abs)
		if err != nil {
			return "", err
		}
		if info.Size() > pdf.MaxBytes {
			return "", apierrors.ErrPDFTooLarge
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return "", err
		}
		return pdf.ToText(data)
	}

	f, err := os.Open(abs)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxTextBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxTextBytes {
		return "", fmt.Errorf("%w: %s is over %d bytes", apierrors.ErrAttachmentTooLarge, filepath.Base(abs), MaxTextBytes)
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

func (v *Vault) resolve(path string) (string, error) {
	if !filepath.IsAbs(path) && v.root != "" {
		path = filepath.Join(v.root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

func (v *Vault) contains(abs string) bool {
	rel, err := filepath.Rel(v.root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
