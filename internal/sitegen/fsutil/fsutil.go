// Package fsutil holds the file write primitives shared by every generator:
// write-if-changed and revision-preserving rewrites.
package fsutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
)

// Times returns the access and modification times of path.
func Times(path string) (atime, mtime time.Time, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return accessTime(info), info.ModTime(), nil
}

// WritePreservingRevision replaces the content of an existing file and sets
// its modification time to revision. The access time is left as it was
// before the write.
func WritePreservingRevision(path string, content []byte, revision time.Time) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	atime := accessTime(info)
	if err := os.WriteFile(path, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chtimes(path, atime, revision); err != nil {
		return fmt.Errorf("restoring times on %s: %w", path, err)
	}
	return nil
}

// WriteIfChanged writes content to path unless the file already holds exactly
// these bytes. Parent directories are created as needed. It reports whether
// the file was written.
func WriteIfChanged(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// Store is WriteIfChanged with a dry-run switch: when dryRun is set nothing
// is written and the result only reports whether a write would happen.
func Store(path string, content []byte, dryRun bool) (bool, error) {
	if !dryRun {
		return WriteIfChanged(path, content)
	}
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	return !bytes.Equal(existing, content), nil
}

// Resolve finds the file under root that serves urlPath, trying the flat
// page.html first and then dir/index.html.
func Resolve(root, urlPath string) (string, bool) {
	for _, rel := range pathkey.FileCandidates(urlPath) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}
