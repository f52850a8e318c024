package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/diogo/codexside/internal/errors"
)

func newVault(t *testing.T) (*Vault, string) {
	t.Helper()
	root := t.TempDir()
	v, err := New(root)
	require.NoError(t, err)
	return v, v.VaultRoot()
}

func TestNew_EmptyRoot(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)

	assert.Empty(t, v.VaultRoot())
	_, ok := v.Rel("/tmp/x")
	assert.False(t, ok)
}

func TestSetCurrentNote_Relative(t *testing.T) {
	v, root := newVault(t)

	require.NoError(t, v.SetCurrentNote("Projects/plan.md"))

	note, ok := v.CurrentNote()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Projects", "plan.md"), note)

	folder, ok := v.CurrentNoteFolder()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Projects"), folder)
}

func TestSetCurrentNote_OutsideVault(t *testing.T) {
	v, root := newVault(t)

	err := v.SetCurrentNote(filepath.Join(filepath.Dir(root), "elsewhere.md"))
	assert.ErrorIs(t, err, apierrors.ErrOutsideVault)

	err = v.SetCurrentNote("../escape.md")
	assert.ErrorIs(t, err, apierrors.ErrOutsideVault)

	_, ok := v.CurrentNote()
	assert.False(t, ok)
}

func TestSetCurrentNote_Clear(t *testing.T) {
	v, _ := newVault(t)
	require.NoError(t, v.SetCurrentNote("a.md"))

	require.NoError(t, v.SetCurrentNote(""))

	_, ok := v.CurrentNoteFolder()
	assert.False(t, ok)
}

func TestRel(t *testing.T) {
	v, root := newVault(t)

	rel, ok := v.Rel(root)
	require.True(t, ok)
	assert.Equal(t, ".", rel)

	rel, ok = v.Rel(filepath.Join(root, "a", "b"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join("a", "b"), rel)
}

func TestReadAttachment_Text(t *testing.T) {
	v, root := newVault(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("# Title\nbody"), 0o600))

	text, err := v.ReadAttachment("notes.md")

	require.NoError(t, err)
	assert.Equal(t, "# Title\nbody", text)
}

func TestReadAttachment_InvalidUTF8(t *testing.T) {
	v, root := newVault(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin.txt"), []byte{'a', 0xff, 'b'}, 0o600))

	text, err := v.ReadAttachment("bin.txt")

	require.NoError(t, err)
	assert.Equal(t, "a�b", text)
}

func TestReadAttachment_TooLarge(t *testing.T) {
	v, root := newVault(t)
	big := strings.Repeat("x", MaxTextBytes+1)
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.txt"), []byte(big), 0o600))

	_, err := v.ReadAttachment("big.txt")

	assert.ErrorIs(t, err, apierrors.ErrAttachmentTooLarge)
}

func TestReadAttachment_Missing(t *testing.T) {
	v, _ := newVault(t)

	_, err := v.ReadAttachment("missing.md")

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadAttachment_BadPDF(t *testing.T) {
	v, root := newVault(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.PDF"), []byte("not a pdf"), 0o600))

	_, err := v.ReadAttachment("doc.PDF")

	require.Error(t, err)
	assert.True(t, apierrors.IsPDFError(err))
}
