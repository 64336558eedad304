package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello document"), 0o644))

	text, err := Text(path)
	require.NoError(t, err)
	assert.Equal(t, "hello document", text)
}

func TestTextMarkdownFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.MD")
	require.NoError(t, os.WriteFile(path, []byte("# heading\nbody"), 0o644))

	text, err := Text(path)
	require.NoError(t, err)
	assert.Contains(t, text, "heading")
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text("presentation.pptx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestTextMissingFile(t *testing.T) {
	_, err := Text(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
