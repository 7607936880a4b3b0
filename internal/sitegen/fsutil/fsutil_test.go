package fsutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePreservingRevisionKeepsTimes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))

	atime := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	mtime := time.Date(2024, 2, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, atime, mtime))

	require.NoError(t, WritePreservingRevision(path, []byte("<html><head></head></html>"), mtime))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html><head></head></html>", string(data))

	gotA, gotM, err := Times(path)
	require.NoError(t, err)
	assert.True(t, gotM.Equal(mtime), "mtime %v", gotM)
	assert.True(t, gotA.Equal(atime), "atime %v", gotA)
}

func TestWritePreservingRevisionMovesRevision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))
	revision := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, WritePreservingRevision(path, []byte("b"), revision))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(revision))
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWritePreservingRevisionMissingFile(t *testing.T) {
	err := WritePreservingRevision(filepath.Join(t.TempDir(), "nope.html"), []byte("x"), time.Now())
	assert.Error(t, err)
}

func TestWriteIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sitemap.xml")

	wrote, err := WriteIfChanged(path, []byte("one"))
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = WriteIfChanged(path, []byte("one"))
	require.NoError(t, err)
	assert.False(t, wrote)

	wrote, err = WriteIfChanged(path, []byte("two"))
	require.NoError(t, err)
	assert.True(t, wrote)
}

func TestStoreDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "config.json")

	would, err := Store(path, []byte("{}\n"), true)
	require.NoError(t, err)
	assert.True(t, would)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	written, err := Store(path, []byte("{}\n"), false)
	require.NoError(t, err)
	assert.True(t, written)

	would, err = Store(path, []byte("{}\n"), true)
	require.NoError(t, err)
	assert.False(t, would)
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "rust"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "rust", "index.html"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "csgo.html"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), nil, 0o644))

	p, ok := Resolve(root, "/rust")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "rust", "index.html"), p)

	p, ok = Resolve(root, "/csgo")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(root, "csgo.html"), p)

	_, ok = Resolve(root, "/")
	assert.True(t, ok)

	_, ok = Resolve(root, "/dota")
	assert.False(t, ok)
}
