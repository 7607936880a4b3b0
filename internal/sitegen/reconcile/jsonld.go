package reconcile

import (
	"strings"
	"time"

	"github.com/gamerank/sitegen/internal/sitegen/markup"
	"github.com/gamerank/sitegen/internal/sitegen/schema"
)

const ldJSON = "application/ld+json"

// ComposeFunc builds the JSON-LD document of a page with the given
// dateModified stamp.
type ComposeFunc func(stamp string) map[string]interface{}

// ApplyGraph reconciles the marker-classed JSON-LD graph block of src.
// Every block it writes is stamped with mtime, the page's current revision,
// so the file's modification time never has to move.
//
//   - no block: insert one
//   - same graph with the current stamp: left as written
//   - equal apart from dateModified: restamp
//   - different or unparseable: replace the inner text
//   - several blocks: replace all of them by one
func ApplyGraph(src, marker, unit string, compose ComposeFunc, mtime time.Time) (string, error) {
	d := markup.Parse(src)
	if _, ok := findHead(d); !ok {
		return src, ErrNoHead
	}
	blocks := d.Elements(func(t markup.Tag) bool {
		return t.Name == "script" && t.AttrIs("type", ldJSON) && t.HasClass(marker)
	})
	stamp := schema.Stamp(mtime)
	fresh := compose(stamp)

	if len(blocks) == 1 {
		block := blocks[0]
		existing := d.Inner(block)
		if parsed, err := schema.Parse(existing); err == nil &&
			schema.DateModified(parsed) == stamp && schema.Equal(parsed, fresh) {
			return src, nil
		}
		text, err := scriptInner(fresh, markup.LineIndent(src, block.Start), markup.Newline(src))
		if err != nil {
			return src, err
		}
		if text == existing {
			return src, nil
		}
		return markup.Replace(src, block.InnerStart, block.InnerEnd, text), nil
	}

	src = removeElements(src, blocks)
	return insertScript(src, `<script type="`+ldJSON+`" class="`+marker+`">`, unit, fresh)
}

// ApplyReview reconciles the single Review block of a review page. Blocks
// are located by script type alone and compared ignoring whitespace.
func ApplyReview(src, unit string, review map[string]interface{}) (string, error) {
	d := markup.Parse(src)
	if _, ok := findHead(d); !ok {
		return src, ErrNoHead
	}
	blocks := d.Elements(func(t markup.Tag) bool {
		return t.Name == "script" && t.AttrIs("type", ldJSON)
	})
	if len(blocks) == 1 {
		desired, err := schema.Render(review)
		if err != nil {
			return src, err
		}
		if schema.SquashSpace(d.Inner(blocks[0])) == schema.SquashSpace(desired) {
			return src, nil
		}
	}
	src = removeElements(src, blocks)
	return insertScript(src, `<script type="`+ldJSON+`">`, unit, review)
}

func removeElements(src string, els []markup.Element) string {
	spans := make([]markup.Span, 0, len(els))
	for _, el := range els {
		spans = append(spans, markup.Span{Start: el.Start, End: el.Close})
	}
	return markup.RemoveSpans(src, spans)
}

// insertScript adds a script block as the last child of head.
func insertScript(src, open, unit string, doc map[string]interface{}) (string, error) {
	text, err := schema.Render(doc)
	if err != nil {
		return src, err
	}
	d := markup.Parse(src)
	head, ok := findHead(d)
	if !ok {
		return src, ErrNoHead
	}
	lines := append([]string{open}, strings.Split(text, "\n")...)
	lines = append(lines, "</script>")
	return markup.InsertLines(src, lastChildPos(src, head), childIndent(d, head, unit), markup.Newline(src), lines), nil
}

// scriptInner is the inner text insertScript produces for doc at indent.
func scriptInner(doc map[string]interface{}, indent, nl string) (string, error) {
	text, err := schema.Render(doc)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(nl)
		b.WriteString(indent)
		b.WriteString(line)
	}
	b.WriteString(nl)
	b.WriteString(indent)
	return b.String(), nil
}
