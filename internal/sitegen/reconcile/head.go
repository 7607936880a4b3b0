package reconcile

import (
	"strings"

	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/markup"
	"github.com/gamerank/sitegen/internal/sitegen/render"
)

const (
	googlebotIndex   = "index, follow"
	googlebotNoindex = "noindex, nofollow"
)

// HeadInput is the desired state of a page's managed head tags.
type HeadInput struct {
	Canonical  string
	Noindex    bool
	OGLocale   string
	Alternates []extract.Alternate
}

// Googlebot returns the googlebot directive for a page.
func (in HeadInput) Googlebot() string {
	if in.Noindex {
		return googlebotNoindex
	}
	return googlebotIndex
}

// ApplyHead rewrites the managed head tags of src: canonical, googlebot,
// og:url, og:locale and hreflang alternates are removed and inserted again
// next to their anchors. Everything else is left byte for byte.
func ApplyHead(src string, in HeadInput, eng *render.Engine) (string, error) {
	d := markup.Parse(src)
	head, ok := findHead(d)
	if !ok {
		return src, ErrNoHead
	}

	var spans []markup.Span
	for _, t := range markup.TagsWithin(d.Tags(isManagedHeadTag), head) {
		spans = append(spans, markup.Span{Start: t.Start, End: t.End})
	}
	src = markup.RemoveSpans(src, spans)
	nl := markup.Newline(src)

	canonical, err := eng.Canonical(render.CanonicalContext{Canonical: in.Canonical, Googlebot: in.Googlebot()})
	if err != nil {
		return "", err
	}
	src = insertAfter(src, nl, canonical, canonicalAnchor)

	og, err := eng.OpenGraph(render.OpenGraphContext{URL: in.Canonical, Locale: in.OGLocale})
	if err != nil {
		return "", err
	}
	src = insertAfter(src, nl, og, openGraphAnchor)

	alternates, err := eng.Alternates(in.Alternates)
	if err != nil {
		return "", err
	}
	src = insertAfter(src, nl, alternates, alternatesAnchor)

	d = markup.Parse(src)
	head, _ = findHead(d)
	inner := d.Inner(head)
	if collapsed := markup.CollapseBlankLines(inner); collapsed != inner {
		src = markup.Replace(src, head.InnerStart, head.InnerEnd, collapsed)
	}
	return src, nil
}

func findHead(d *markup.Doc) (markup.Element, bool) {
	head, ok := d.First("head")
	if !ok || head.Close == head.End {
		return markup.Element{}, false
	}
	return head, true
}

func isManagedHeadTag(t markup.Tag) bool {
	switch t.Name {
	case "link":
		return t.AttrIs("rel", "canonical") || (t.AttrIs("rel", "alternate") && t.Attr("hreflang") != "")
	case "meta":
		return metaKeyIs(t, "googlebot") || metaKeyIs(t, "og:url") || metaKeyIs(t, "og:locale")
	}
	return false
}

func metaKeyIs(t markup.Tag, key string) bool {
	return t.Name == "meta" && (t.AttrIs("name", key) || t.AttrIs("property", key))
}

func isOpenGraph(t markup.Tag) bool {
	if t.Name != "meta" {
		return false
	}
	key := t.Attr("property")
	if key == "" {
		key = t.Attr("name")
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(key)), "og:")
}

// anchor picks the insertion point inside head: the byte offset to insert
// after and the indentation of the new lines.
type anchor func(d *markup.Doc, head markup.Element) (pos int, indent string)

func insertAfter(src, nl string, lines []string, find anchor) string {
	if len(lines) == 0 {
		return src
	}
	d := markup.Parse(src)
	head, ok := findHead(d)
	if !ok {
		return src
	}
	pos, indent := find(d, head)
	return markup.InsertLines(src, pos, indent, nl, lines)
}

func lastTag(d *markup.Doc, head markup.Element, match func(markup.Tag) bool) (markup.Tag, bool) {
	tags := markup.TagsWithin(d.Tags(match), head)
	if len(tags) == 0 {
		return markup.Tag{}, false
	}
	return tags[len(tags)-1], true
}

func after(d *markup.Doc, t markup.Tag) (int, string) {
	return t.End, markup.LineIndent(d.Src, t.Start)
}

// headTop is the fallback anchor: right after <head>, indented like the
// first element inside it.
func headTop(d *markup.Doc, head markup.Element) (int, string) {
	indent := "  "
	if tags := markup.TagsWithin(d.Tags(nil), head); len(tags) > 0 {
		indent = markup.LineIndent(d.Src, tags[0].Start)
	}
	return head.InnerStart, indent
}

func canonicalAnchor(d *markup.Doc, head markup.Element) (int, string) {
	if t, ok := lastTag(d, head, func(t markup.Tag) bool {
		return metaKeyIs(t, "description") || metaKeyIs(t, "robots")
	}); ok {
		return after(d, t)
	}
	if t, ok := lastTag(d, head, isOpenGraph); ok {
		return after(d, t)
	}
	titles := markup.Within(d.Elements(func(t markup.Tag) bool { return t.Name == "title" }), head)
	if len(titles) > 0 {
		return titles[0].Close, markup.LineIndent(d.Src, titles[0].Start)
	}
	return headTop(d, head)
}

func openGraphAnchor(d *markup.Doc, head markup.Element) (int, string) {
	if t, ok := lastTag(d, head, isOpenGraph); ok {
		return after(d, t)
	}
	if t, ok := lastTag(d, head, func(t markup.Tag) bool { return metaKeyIs(t, "googlebot") }); ok {
		return after(d, t)
	}
	return headTop(d, head)
}

func alternatesAnchor(d *markup.Doc, head markup.Element) (int, string) {
	if t, ok := lastTag(d, head, func(t markup.Tag) bool {
		return t.Name == "link" && t.AttrIs("rel", "stylesheet")
	}); ok {
		return after(d, t)
	}
	return openGraphAnchor(d, head)
}
