package reconcile

import (
	"github.com/gamerank/sitegen/internal/sitegen/crosslink"
	"github.com/gamerank/sitegen/internal/sitegen/markup"
	"github.com/gamerank/sitegen/internal/sitegen/render"
)

// CrossLinkInput locates the block on a page and carries its expected model.
type CrossLinkInput struct {
	ContainerClass string
	Block          crosslink.Block
	Unit           string
}

// ApplyCrossLinks reconciles the cross-link block inside the first
// container of src. A block with no siblings is removed; a single existing
// block with the same links is kept; anything else is replaced by exactly
// one fresh block, appended as the container's last child.
func ApplyCrossLinks(src string, in CrossLinkInput, eng *render.Engine) (string, Outcome, error) {
	d := markup.Parse(src)
	container, ok := findContainer(d, in.ContainerClass)
	if !ok {
		return src, Skipped, ErrNoContainer
	}
	blocks := markup.Within(d.Elements(func(t markup.Tag) bool {
		return t.HasClass(in.Block.Marker)
	}), container)
	blocks = outermost(blocks)

	if in.Block.Empty() {
		if len(blocks) == 0 {
			return src, Unchanged, nil
		}
		return removeElements(src, blocks), Removed, nil
	}

	if len(blocks) == 1 {
		entries, err := crosslink.Parse(d.Outer(blocks[0]))
		if err == nil && crosslink.Equal(entries, in.Block.Entries) {
			return src, Unchanged, nil
		}
	}

	lines, err := eng.CrossLinks(in.Block)
	if err != nil {
		return src, Failed, err
	}
	src = removeElements(src, blocks)
	d = markup.Parse(src)
	container, ok = findContainer(d, in.ContainerClass)
	if !ok {
		return src, Failed, ErrNoContainer
	}
	out := markup.InsertLines(src, lastChildPos(src, container), childIndent(d, container, in.Unit), markup.Newline(src), lines)
	return out, Updated, nil
}

func findContainer(d *markup.Doc, class string) (markup.Element, bool) {
	els := d.Elements(func(t markup.Tag) bool { return t.HasClass(class) })
	for _, el := range els {
		if el.Close != el.End {
			return el, true
		}
	}
	return markup.Element{}, false
}

// outermost drops elements nested inside another element of the list.
func outermost(els []markup.Element) []markup.Element {
	var out []markup.Element
	for _, el := range els {
		if len(out) > 0 {
			last := out[len(out)-1]
			if el.Start >= last.InnerStart && el.Close <= last.InnerEnd {
				continue
			}
		}
		out = append(out, el)
	}
	return out
}
