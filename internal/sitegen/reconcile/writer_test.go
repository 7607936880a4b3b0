package reconcile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamerank/sitegen/internal/sitegen/fsutil"
)

func writePage(t *testing.T, content string, atime, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, atime, mtime))
	return path
}

func fixedWriter(t *testing.T, dryRun bool) *Writer {
	t.Helper()
	return NewWriter(newEngine(t), "  ", dryRun)
}

func TestWriterGraphPreservesTimestamps(t *testing.T) {
	atime := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	mtime := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)

	stale, err := ApplyGraph(schemaPage, marker, "  ", composeNamed("X"), mtime.Add(-time.Hour))
	require.NoError(t, err)
	path := writePage(t, stale, atime, mtime)

	w := fixedWriter(t, false)
	prepare := func(string) ComposeFunc { return composeNamed("X") }

	outcome, err := w.Graph(path, marker, prepare)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-02-02T12:00:00Z")

	gotA, gotM, err := fsutil.Times(path)
	require.NoError(t, err)
	assert.True(t, gotM.Equal(mtime), "mtime %v", gotM)
	assert.True(t, gotA.Equal(atime), "atime %v", gotA)

	outcome, err = w.Graph(path, marker, prepare)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
}

func TestWriterGraphContentChangeKeepsRevision(t *testing.T) {
	atime := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	mtime := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)
	first, err := ApplyGraph(schemaPage, marker, "  ", composeNamed("X"), mtime)
	require.NoError(t, err)
	path := writePage(t, first, atime, mtime)

	w := fixedWriter(t, false)
	prepare := func(string) ComposeFunc { return composeNamed("Y") }
	outcome, err := w.Graph(path, marker, prepare)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Y"`)
	assert.Contains(t, string(data), "2024-02-02T12:00:00Z")

	gotA, gotM, err := fsutil.Times(path)
	require.NoError(t, err)
	assert.True(t, gotM.Equal(mtime), "mtime %v", gotM)
	assert.True(t, gotA.Equal(atime), "atime %v", gotA)

	outcome, err = w.Graph(path, marker, prepare)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
}

func TestWriterStoreFailure(t *testing.T) {
	mtime := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)
	path := writePage(t, schemaPage, mtime, mtime)

	w := fixedWriter(t, false)
	w.Store = func(string, []byte, time.Time) error { return errors.New("disk full") }
	outcome, err := w.Head(path, HeadInput{Canonical: "https://example.com/"})
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, Failed, outcome)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, schemaPage, string(data))
}

func TestWriterDryRunLeavesFile(t *testing.T) {
	mtime := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)
	path := writePage(t, schemaPage, mtime, mtime)

	outcome, err := fixedWriter(t, true).Head(path, HeadInput{Canonical: "https://example.com/"})
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, schemaPage, string(data))
}

func TestWriterSkipsAndFails(t *testing.T) {
	mtime := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)
	w := fixedWriter(t, false)

	fragment := writePage(t, "<p>no head</p>", mtime, mtime)
	outcome, err := w.Head(fragment, HeadInput{Canonical: "https://example.com/"})
	require.NoError(t, err)
	assert.Equal(t, Skipped, outcome)

	outcome, err = w.Head(filepath.Join(t.TempDir(), "missing.html"), HeadInput{})
	assert.Error(t, err)
	assert.Equal(t, Failed, outcome)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
