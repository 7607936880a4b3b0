// Package crosslink models the "more similar content" block: links from a
// category page to the same page in the sibling categories.
package crosslink

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/fsutil"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
)

// Entry is one link of the block.
type Entry struct {
	Href   string
	Title  string
	Active bool
}

// Block is the expected content of the cross-link block on one page.
type Block struct {
	Marker  string
	Heading string
	Entries []Entry
}

// Builder computes blocks for pages under one content root.
type Builder struct {
	cfg   config.CrossLinksConfig
	model *pathkey.Model
	root  string
}

// NewBuilder creates a Builder.
func NewBuilder(cfg config.CrossLinksConfig, model *pathkey.Model, root string) *Builder {
	return &Builder{cfg: cfg, model: model, root: root}
}

// For computes the block of the page at urlPath. ok is false when the page
// does not belong to a known category. A block with fewer than two entries
// means the page should carry no block at all.
func (b *Builder) For(urlPath string) (Block, bool) {
	locale := b.model.Locale(urlPath)
	key := b.model.CanonicalKey(urlPath)
	segs := pathkey.Segments(key)
	if len(segs) == 0 {
		return Block{}, false
	}

	current := -1
	for i, cat := range b.cfg.Categories {
		if cat.Slug == segs[0] {
			current = i
			break
		}
	}
	if current < 0 {
		return Block{}, false
	}

	rest := strings.Join(segs[1:], "/")
	block := Block{Marker: b.cfg.MarkerClass, Heading: b.heading(locale)}
	for i, cat := range b.cfg.Categories {
		target := "/" + cat.Slug
		if rest != "" {
			target += "/" + rest
		}
		href := b.model.Localize(target, locale)
		if i != current {
			if _, ok := fsutil.Resolve(b.root, href); !ok {
				continue
			}
		}
		block.Entries = append(block.Entries, Entry{
			Href:   href,
			Title:  cat.Title(locale, b.model.DefaultLocale),
			Active: i == current,
		})
	}
	return block, true
}

// Empty reports whether the block has no sibling to link to.
func (b Block) Empty() bool {
	return len(b.Entries) <= 1
}

func (b *Builder) heading(locale string) string {
	if h := b.cfg.Headings[locale]; h != "" {
		return h
	}
	return b.cfg.Headings[b.model.DefaultLocale]
}

// Parse reads the entries of an existing block from its outer markup.
func Parse(markup string) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	var entries []Entry
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		entries = append(entries, Entry{
			Href:   s.AttrOr("href", ""),
			Title:  strings.Join(strings.Fields(s.Text()), " "),
			Active: s.HasClass("active"),
		})
	})
	return entries, nil
}

// Equal compares entries by normalized href, active flag and title.
func Equal(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if NormalizeHref(a[i].Href) != NormalizeHref(b[i].Href) ||
			a[i].Active != b[i].Active ||
			a[i].Title != b[i].Title {
			return false
		}
	}
	return true
}

// NormalizeHref reduces an href to its path: no scheme, host, query or
// fragment, no trailing slash, no .html or /index.html suffix.
func NormalizeHref(href string) string {
	href = strings.TrimSpace(href)
	if u, err := url.Parse(href); err == nil {
		href = u.Path
	}
	href = strings.TrimSuffix(href, "/index.html")
	href = strings.TrimSuffix(href, ".html")
	href = strings.TrimRight(href, "/")
	if href == "" {
		return "/"
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return href
}
