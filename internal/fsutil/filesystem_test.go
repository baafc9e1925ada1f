package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_ReadDirSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.npz", "a.npz", "c"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	entries, err := OSFileSystem{}.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.npz", "b.npz", "c"}, names)
}

func TestOSFileSystem_FreeBytes(t *testing.T) {
	free, err := OSFileSystem{}.FreeBytes(t.TempDir())
	if errors.Is(err, errors.ErrUnsupported) {
		t.Skip("statfs not supported on this platform")
	}
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("hello, world")
	require.NoError(t, mfs.WriteFile("/test.txt", testData, 0644))

	data, err := mfs.ReadFile("/test.txt")
	require.NoError(t, err)
	assert.Equal(t, testData, data)
}

func TestMemoryFileSystem_CreateAndWrite(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/out/session.json")
	require.NoError(t, err)
	_, err = io.WriteString(w, "{}")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := mfs.ReadFile("/out/session.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	assert.True(t, mfs.Exists("/out"), "Create should register parent directories")
}

func TestMemoryFileSystem_ReadDir(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.MkdirAll("/g1/ACCAD/Female1", 0755))
	require.NoError(t, mfs.MkdirAll("/g1/BMLrub", 0755))
	require.NoError(t, mfs.WriteFile("/g1/ACCAD/Female1/walk.npz", []byte("abc"), 0644))
	require.NoError(t, mfs.WriteFile("/g1/readme.txt", []byte("x"), 0644))

	entries, err := mfs.ReadDir("/g1")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "ACCAD", entries[0].Name())
	assert.True(t, entries[0].IsDir())
	assert.Equal(t, "BMLrub", entries[1].Name())
	assert.Equal(t, "readme.txt", entries[2].Name())
	assert.False(t, entries[2].IsDir())

	sub, err := mfs.ReadDir("/g1/ACCAD/Female1")
	require.NoError(t, err)
	require.Len(t, sub, 1)
	info, err := sub[0].Info()
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())

	_, err = mfs.ReadDir("/missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemoryFileSystem_Stat(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/a/b.txt", []byte("1234"), 0600))

	info, err := mfs.Stat("/a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b.txt", info.Name())
	assert.Equal(t, int64(4), info.Size())
	assert.False(t, info.IsDir())

	info, err = mfs.Stat("/a")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = mfs.Stat("/nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemoryFileSystem_MkdirAllOverFile(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/out.mp4", nil, 0644))
	assert.Error(t, mfs.MkdirAll("/out.mp4", 0755))
}

func TestMemoryFileSystem_FreeBytes(t *testing.T) {
	mfs := NewMemoryFileSystem()
	_, err := mfs.FreeBytes("/")
	assert.ErrorIs(t, err, errors.ErrUnsupported)

	mfs.Free = 1 << 30
	free, err := mfs.FreeBytes("/")
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<30), free)
}
