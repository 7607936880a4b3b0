package sitemap

import (
	"path/filepath"
	"sort"

	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/fsutil"
)

// FileResult reports what happened to one output file.
type FileResult struct {
	Path    string
	Written bool
	Err     error
}

// Assembler writes bucket files for the primary origin and every mirror.
type Assembler struct {
	Root    string
	Origin  string
	Mirrors []config.MirrorConfig
	// Buckets lists the bucket names always written, even when empty, so
	// that stale files are emptied.
	Buckets []string
	Index   bool
	DryRun  bool
}

// Write renders and stores every bucket under Root and under each mirror
// directory. A failing file does not stop the others.
func (a *Assembler) Write(buckets map[string][]Entry) []FileResult {
	names := a.names(buckets)
	results := a.writeTarget(a.Root, a.Origin, names, buckets)
	for _, m := range a.Mirrors {
		rewritten := Rewrite(buckets, a.Origin, m.Origin)
		results = append(results, a.writeTarget(filepath.Join(a.Root, m.Dir), m.Origin, names, rewritten)...)
	}
	return results
}

func (a *Assembler) names(buckets map[string][]Entry) []string {
	known := make(map[string]bool, len(a.Buckets))
	names := append([]string(nil), a.Buckets...)
	for _, n := range names {
		known[n] = true
	}
	var extra []string
	for n := range buckets {
		if !known[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

func (a *Assembler) writeTarget(dir, origin string, names []string, buckets map[string][]Entry) []FileResult {
	var results []FileResult
	var locs []string
	for _, name := range names {
		path := filepath.Join(dir, Filename(name))
		data, err := Render(buckets[name])
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err})
			continue
		}
		results = append(results, a.store(path, data))
		locs = append(locs, origin+"/"+Filename(name))
	}
	if a.Index {
		path := filepath.Join(dir, IndexFilename)
		data, err := RenderIndex(locs)
		if err != nil {
			results = append(results, FileResult{Path: path, Err: err})
		} else {
			results = append(results, a.store(path, data))
		}
	}
	return results
}

func (a *Assembler) store(path string, data []byte) FileResult {
	written, err := fsutil.Store(path, data, a.DryRun)
	return FileResult{Path: path, Written: written, Err: err}
}
