package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveNoBytesNoPhoto(t *testing.T) {
	store := NewPhotoStore(filepath.Join(t.TempDir(), "uploads"))

	path, err := store.Save(nil, "image/jpeg", "1714550400_919876543210")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestSaveDefaultsToJPEG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewPhotoStore(dir)

	path, err := store.Save([]byte{0xff, 0xd8, 0xff}, "", "1714550400_919876543210")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "1714550400_919876543210.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
}

func TestSavePNGExtension(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewPhotoStore(dir)

	path, err := store.Save([]byte("png-bytes"), "image/png", "p")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "p.png"), path)
}

func TestSaveOverwritesSamePrefix(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewPhotoStore(dir)

	_, err := store.Save([]byte("first"), "image/png", "p")
	require.NoError(t, err)
	path, err := store.Save([]byte("second"), "image/png", "p")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
