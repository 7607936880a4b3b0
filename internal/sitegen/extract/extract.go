// Package extract pulls page facts (title, h1, meta tags, hreflang links,
// existing structured data) out of hand-authored HTML.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gamerank/sitegen/internal/sitegen/markup"
)

// Alternate is one hreflang annotation.
type Alternate struct {
	Lang string `json:"lang"`
	Href string `json:"href"`
}

// Fields are the facts extracted from one page. Missing elements leave their
// field empty; nothing here is an error.
type Fields struct {
	Title         string
	H1            string
	Description   string
	Keywords      []string
	OGTitle       string
	OGImage       string
	OGImageAlt    string
	OGImageWidth  int
	OGImageHeight int
	Canonical     string
	Alternates    []Alternate
	// StructuredData is the raw text of the first JSON-LD block, if any.
	StructuredData string
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Parse builds a goquery document from raw markup.
func Parse(src string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(src))
}

// FromDocument extracts Fields. brand is the site's own name; keyword tokens
// containing it are dropped.
func FromDocument(doc *goquery.Document, brand string) Fields {
	f := Fields{
		Title:       normalizeText(doc.Find("title").First().Text()),
		H1:          normalizeText(doc.Find("h1").First().Text()),
		Description: MetaContent(doc, "description"),
		OGTitle:     MetaContent(doc, "og:title"),
		OGImage:     MetaContent(doc, "og:image"),
		OGImageAlt:  MetaContent(doc, "og:image:alt"),
		Canonical:   strings.TrimSpace(linkHref(doc, "canonical")),
	}
	f.OGImageWidth, _ = strconv.Atoi(MetaContent(doc, "og:image:width"))
	f.OGImageHeight, _ = strconv.Atoi(MetaContent(doc, "og:image:height"))

	if kw := MetaContent(doc, "keywords"); kw != "" {
		f.Keywords = CleanKeywords(strings.Split(kw, ","), brand)
	}

	doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("rel", "")), "alternate") {
			return
		}
		lang := strings.TrimSpace(s.AttrOr("hreflang", ""))
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if lang == "" || href == "" {
			return
		}
		f.Alternates = append(f.Alternates, Alternate{Lang: strings.ToLower(lang), Href: href})
	})

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.AttrOr("type", "")), "application/ld+json") {
			f.StructuredData = strings.TrimSpace(s.Text())
			return false
		}
		return true
	})

	return f
}

// FromHTML parses src and extracts Fields.
func FromHTML(src, brand string) (Fields, error) {
	doc, err := Parse(src)
	if err != nil {
		return Fields{}, err
	}
	return FromDocument(doc, brand), nil
}

// MetaContent returns the content of the first meta tag whose name or
// property equals key, case-insensitively.
func MetaContent(doc *goquery.Document, key string) string {
	var out string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name := s.AttrOr("name", s.AttrOr("property", ""))
		if !strings.EqualFold(strings.TrimSpace(name), key) {
			return true
		}
		out = strings.TrimSpace(s.AttrOr("content", ""))
		return false
	})
	return out
}

// Section returns the inner markup of the first element named tag (head,
// body). ok is false when the document has no such element.
func Section(src, tag string) (string, bool) {
	d := markup.Parse(src)
	el, found := d.First(strings.ToLower(tag))
	if !found || el.Close == el.End {
		return "", false
	}
	return d.Inner(el), true
}

// CleanKeywords trims, drops empties and brand tokens, and de-duplicates
// case-insensitively keeping the first spelling.
func CleanKeywords(raw []string, brand string) []string {
	brand = strings.ToLower(strings.TrimSpace(brand))
	seen := make(map[string]bool)
	var out []string
	for _, k := range raw {
		k = normalizeText(k)
		if k == "" {
			continue
		}
		lower := strings.ToLower(k)
		if brand != "" && strings.Contains(lower, brand) {
			continue
		}
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, k)
	}
	return out
}

// WordCount counts the words in the first element matching selector.
func WordCount(doc *goquery.Document, selector string) int {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return 0
	}
	return len(strings.Fields(sel.Text()))
}

func linkHref(doc *goquery.Document, rel string) string {
	var out string
	doc.Find("link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.AttrOr("rel", "")), rel) {
			out = s.AttrOr("href", "")
			return false
		}
		return true
	})
	return out
}

func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
