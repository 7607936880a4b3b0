// Package scan walks the content tree and turns every .html file into a Page.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/logger"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
)

// Page is one rendered HTML file with the facts derived from it. Pages are
// rebuilt from disk on every run.
type Page struct {
	FilePath string
	RelPath  string
	URLPath  string
	Locale   string
	Key      string
	Kind     pathkey.Kind
	Mirror   bool
	Noindex  bool
	ModTime  time.Time
	Fields   extract.Fields
}

// FSScanner scans a directory tree on disk.
type FSScanner struct {
	Root     string
	SkipDirs []string
	Model    *pathkey.Model
	Brand    string
	Workers  int
	Log      logger.Interface
}

// Scan walks Root, skipping infrastructure directories and unreadable
// subtrees, and extracts every page with bounded concurrency. Pages that
// cannot be read are logged and left out. The result is sorted by URL path.
func (s *FSScanner) Scan(ctx context.Context) ([]*Page, error) {
	files, err := s.walk()
	if err != nil {
		return nil, err
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 8
	}

	var (
		mu    sync.Mutex
		pages = make([]*Page, 0, len(files))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p, err := s.load(f)
			if err != nil {
				s.Log.Warn("skipping unreadable page", "file", f.rel, "error", err)
				return nil
			}
			mu.Lock()
			pages = append(pages, p)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool {
		if pages[i].URLPath != pages[j].URLPath {
			return pages[i].URLPath < pages[j].URLPath
		}
		return pages[i].RelPath < pages[j].RelPath
	})
	return pages, nil
}

type pageFile struct {
	abs, rel, urlPath string
}

func (s *FSScanner) walk() ([]pageFile, error) {
	skip := make(map[string]bool, len(s.SkipDirs))
	for _, d := range s.SkipDirs {
		skip[d] = true
	}

	var files []pageFile
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.Root {
				return err
			}
			s.Log.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(s.Root, path)
		if relErr != nil {
			return nil
		}
		if d.IsDir() {
			if path != s.Root && (skip[d.Name()] || skip[filepath.ToSlash(rel)]) {
				return filepath.SkipDir
			}
			return nil
		}
		urlPath, ok := s.Model.URLPath(rel)
		if !ok {
			return nil
		}
		files = append(files, pageFile{abs: path, rel: filepath.ToSlash(rel), urlPath: urlPath})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.Root, err)
	}
	return files, nil
}

func (s *FSScanner) load(f pageFile) (*Page, error) {
	info, err := os.Stat(f.abs)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.abs)
	if err != nil {
		return nil, err
	}
	doc, err := extract.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.rel, err)
	}

	key := s.Model.CanonicalKey(f.urlPath)
	return &Page{
		FilePath: f.abs,
		RelPath:  f.rel,
		URLPath:  f.urlPath,
		Locale:   s.Model.Locale(f.urlPath),
		Key:      key,
		Kind:     pathkey.KindOf(key),
		Mirror:   s.Model.IsMirror(f.urlPath),
		Noindex:  extract.IsNoindex(doc),
		ModTime:  info.ModTime(),
		Fields:   extract.FromDocument(doc, s.Brand),
	}, nil
}
