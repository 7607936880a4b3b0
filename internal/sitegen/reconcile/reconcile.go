// Package reconcile applies computed metadata to pages in place: managed head
// tags, the JSON-LD block and the cross-link block. Each reconciler is a pure
// string transformation; Writer adds the read-compare-write cycle on disk.
package reconcile

import (
	"errors"
	"strings"

	"github.com/gamerank/sitegen/internal/sitegen/markup"
)

var (
	// ErrNoHead marks a page without a closed <head> element.
	ErrNoHead = errors.New("page has no head element")
	// ErrNoContainer marks a page without the cross-link container.
	ErrNoContainer = errors.New("page has no cross-link container")
)

// Outcome is what happened to one page in one stage.
type Outcome int

const (
	Unchanged Outcome = iota
	Updated
	Removed
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// lastChildPos is the offset right after the last non-blank content of el,
// where a new last child goes.
func lastChildPos(src string, el markup.Element) int {
	inner := src[el.InnerStart:el.InnerEnd]
	return el.InnerStart + len(strings.TrimRight(inner, " \t\r\n"))
}

// childIndent is the indentation of el's children: that of its first child
// tag when it starts a line, else el's own indentation plus unit.
func childIndent(d *markup.Doc, el markup.Element, unit string) string {
	own := markup.LineIndent(d.Src, el.Start)
	children := markup.TagsWithin(d.Tags(nil), el)
	if len(children) > 0 {
		first := children[0]
		indent := markup.LineIndent(d.Src, first.Start)
		lineStart := strings.LastIndexByte(d.Src[:first.Start], '\n') + 1
		if lineStart+len(indent) == first.Start && len(indent) > len(own) {
			return indent
		}
	}
	return own + unit
}
