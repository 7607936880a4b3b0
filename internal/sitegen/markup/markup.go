// Package markup locates elements in hand-authored HTML by byte offset so
// that edits can be spliced in without re-serializing the document.
package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Tag is a start (or self-closing) tag located in the source.
type Tag struct {
	Name  string
	Attrs map[string]string
	// Start and End delimit the tag token itself.
	Start, End int
}

// Attr returns the value of attribute key ("" when absent).
func (t Tag) Attr(key string) string {
	return t.Attrs[key]
}

// AttrIs reports whether attribute key equals value, ignoring case.
func (t Tag) AttrIs(key, value string) bool {
	v, ok := t.Attrs[key]
	return ok && strings.EqualFold(strings.TrimSpace(v), value)
}

// HasClass reports whether the class attribute lists class.
func (t Tag) HasClass(class string) bool {
	for _, c := range strings.Fields(t.Attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}

// Element is a tag together with its content and closing tag.
// For void or unclosed elements InnerStart == InnerEnd == Close == Tag.End.
type Element struct {
	Tag
	InnerStart, InnerEnd int
	Close                int
}

// Span is a half-open byte range.
type Span struct {
	Start, End int
}

type token struct {
	typ        html.TokenType
	name       string
	attrs      map[string]string
	start, end int
}

// Doc is a tokenized view of a source string. It is immutable; edits return
// new strings which must be parsed again.
type Doc struct {
	Src    string
	tokens []token
}

// Parse tokenizes src. The tokenizer is tolerant: malformed markup never
// fails, it only yields fewer tags.
func Parse(src string) *Doc {
	d := &Doc{Src: src}
	z := html.NewTokenizer(strings.NewReader(src))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := len(z.Raw())
		tok := token{typ: tt, start: offset, end: offset + raw}
		offset += raw
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, hasAttr := z.TagName()
			tok.name = string(name)
			if tt != html.EndTagToken && hasAttr {
				tok.attrs = make(map[string]string)
				for {
					k, v, more := z.TagAttr()
					key := string(k)
					if _, seen := tok.attrs[key]; !seen {
						tok.attrs[key] = string(v)
					}
					if !more {
						break
					}
				}
			}
		}
		d.tokens = append(d.tokens, tok)
	}
	return d
}

// Tags returns every start tag accepted by match, in document order.
func (d *Doc) Tags(match func(Tag) bool) []Tag {
	var out []Tag
	for _, tok := range d.tokens {
		if tok.typ != html.StartTagToken && tok.typ != html.SelfClosingTagToken {
			continue
		}
		t := tok.tag()
		if match == nil || match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Elements returns every element whose start tag is accepted by match.
// Closing tags are paired by counting nested tags of the same name.
func (d *Doc) Elements(match func(Tag) bool) []Element {
	var out []Element
	for i, tok := range d.tokens {
		if tok.typ != html.StartTagToken && tok.typ != html.SelfClosingTagToken {
			continue
		}
		t := tok.tag()
		if match != nil && !match(t) {
			continue
		}
		out = append(out, d.element(i, t))
	}
	return out
}

// First returns the first element named name.
func (d *Doc) First(name string) (Element, bool) {
	els := d.Elements(func(t Tag) bool { return t.Name == name })
	if len(els) == 0 {
		return Element{}, false
	}
	return els[0], true
}

// Inner returns the inner source of an element.
func (d *Doc) Inner(e Element) string {
	return d.Src[e.InnerStart:e.InnerEnd]
}

// Outer returns the full source of an element.
func (d *Doc) Outer(e Element) string {
	return d.Src[e.Start:e.Close]
}

// Within keeps the elements that lie inside container.
func Within(els []Element, container Element) []Element {
	var out []Element
	for _, e := range els {
		if e.Start >= container.InnerStart && e.Close <= container.InnerEnd {
			out = append(out, e)
		}
	}
	return out
}

// TagsWithin keeps the tags that lie inside container.
func TagsWithin(tags []Tag, container Element) []Tag {
	var out []Tag
	for _, t := range tags {
		if t.Start >= container.InnerStart && t.End <= container.InnerEnd {
			out = append(out, t)
		}
	}
	return out
}

func (d *Doc) element(i int, t Tag) Element {
	e := Element{Tag: t, InnerStart: t.End, InnerEnd: t.End, Close: t.End}
	if d.tokens[i].typ == html.SelfClosingTagToken || isVoid(t.Name) {
		return e
	}
	depth := 1
	for j := i + 1; j < len(d.tokens); j++ {
		tok := d.tokens[j]
		if tok.name != t.Name {
			continue
		}
		switch tok.typ {
		case html.StartTagToken:
			depth++
		case html.EndTagToken:
			depth--
			if depth == 0 {
				e.InnerEnd = tok.start
				e.Close = tok.end
				return e
			}
		}
	}
	return e
}

func (tok token) tag() Tag {
	attrs := tok.attrs
	if attrs == nil {
		attrs = map[string]string{}
	}
	return Tag{Name: tok.name, Attrs: attrs, Start: tok.start, End: tok.end}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func isVoid(name string) bool {
	return voidElements[name]
}
