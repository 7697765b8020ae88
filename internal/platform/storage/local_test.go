package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()
	uploads, err := NewUploads(dir)
	require.NoError(t, err)

	path, err := uploads.Save("id-card.pdf", strings.NewReader("contents"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/uploads/"))
	assert.True(t, strings.HasSuffix(path, "-id-card.pdf"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(path, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "contents", string(data))
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	uploads, err := NewUploads(dir)
	require.NoError(t, err)

	// Path traversal in the client-supplied filename must not escape the
	// upload directory.
	path, err := uploads.Save("../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "-passwd"))
	assert.NotContains(t, path, "..")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestNewUploadsCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewUploads(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
