package reconcile

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gamerank/sitegen/internal/sitegen/fsutil"
	"github.com/gamerank/sitegen/internal/sitegen/render"
)

// Writer runs the read-compute-write cycle of every reconciler against files
// on disk. Every write restores the file's access and modification times.
type Writer struct {
	Engine *render.Engine
	// Unit is the indentation step used when a block has to guess one.
	Unit   string
	DryRun bool
	// Store persists a rewritten file under the given modification time.
	Store func(path string, content []byte, mtime time.Time) error
}

// NewWriter creates a Writer that stores through fsutil.
func NewWriter(eng *render.Engine, unit string, dryRun bool) *Writer {
	return &Writer{Engine: eng, Unit: unit, DryRun: dryRun, Store: fsutil.WritePreservingRevision}
}

type transform func(src string, mtime time.Time) (out string, outcome Outcome, err error)

// apply reads path, transforms it and writes the result back when it
// differs. Pages a reconciler does not apply to come back as Skipped.
func (w *Writer) apply(path string, fn transform) (Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Failed, fmt.Errorf("reading %s: %w", path, err)
	}
	_, mtime, err := fsutil.Times(path)
	if err != nil {
		return Failed, fmt.Errorf("stat %s: %w", path, err)
	}

	src := string(data)
	out, outcome, err := fn(src, mtime)
	if errors.Is(err, ErrNoHead) || errors.Is(err, ErrNoContainer) {
		return Skipped, nil
	}
	if err != nil {
		return Failed, err
	}
	if out == src {
		return Unchanged, nil
	}
	if w.DryRun {
		return outcome, nil
	}
	if err := w.Store(path, []byte(out), mtime); err != nil {
		return Failed, err
	}
	return outcome, nil
}

// Head reconciles the managed head tags of the page at path.
func (w *Writer) Head(path string, in HeadInput) (Outcome, error) {
	return w.apply(path, func(src string, _ time.Time) (string, Outcome, error) {
		out, err := ApplyHead(src, in, w.Engine)
		return out, Updated, err
	})
}

// Graph reconciles the JSON-LD graph block. prepare derives the compose
// function from the page's current source.
func (w *Writer) Graph(path, marker string, prepare func(src string) ComposeFunc) (Outcome, error) {
	return w.apply(path, func(src string, mtime time.Time) (string, Outcome, error) {
		out, err := ApplyGraph(src, marker, w.Unit, prepare(src), mtime)
		return out, Updated, err
	})
}

// Review reconciles the Review block of a review page.
func (w *Writer) Review(path string, review map[string]interface{}) (Outcome, error) {
	return w.apply(path, func(src string, _ time.Time) (string, Outcome, error) {
		out, err := ApplyReview(src, w.Unit, review)
		return out, Updated, err
	})
}

// CrossLinks reconciles the cross-link block.
func (w *Writer) CrossLinks(path string, in CrossLinkInput) (Outcome, error) {
	if in.Unit == "" {
		in.Unit = w.Unit
	}
	return w.apply(path, func(src string, _ time.Time) (string, Outcome, error) {
		return ApplyCrossLinks(src, in, w.Engine)
	})
}
