// Package sitemap routes alive pages into per-type, per-locale sitemap
// buckets and renders them as XML.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/gamerank/sitegen/internal/sitegen/aggregate"
	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
)

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
)

// Bucket names before the locale suffix.
const (
	BucketMain    = "main"
	BucketReviews = "reviews"
	BucketTopics  = "topics"
)

// Entry represents a single URL in a sitemap.
type Entry struct {
	Loc        string
	Lastmod    string
	Priority   string
	Alternates []extract.Alternate
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	XHTML   string     `xml:"xmlns:xhtml,attr,omitempty"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string      `xml:"loc"`
	Lastmod    string      `xml:"lastmod,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Alternates []xhtmlLink `xml:"xhtml:link"`
}

type xhtmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	XMLNS    string         `xml:"xmlns,attr"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc string `xml:"loc"`
}

// BucketName routes a page by content type and locale. Buckets of the
// default locale carry no suffix.
func BucketName(kind pathkey.Kind, locale, defaultLocale string) string {
	name := BucketMain
	switch kind {
	case pathkey.KindReview:
		name = BucketReviews
	case pathkey.KindGuide, pathkey.KindTopic:
		name = BucketTopics
	}
	if locale != "" && locale != defaultLocale {
		name += "_" + locale
	}
	return name
}

// BucketNames lists every bucket for the given locales, in a stable order.
func BucketNames(locales []string, defaultLocale string) []string {
	var names []string
	for _, l := range locales {
		for _, kind := range []pathkey.Kind{pathkey.KindMain, pathkey.KindReview, pathkey.KindTopic} {
			names = append(names, BucketName(kind, l, defaultLocale))
		}
	}
	return names
}

// Filename is the file a bucket is written to.
func Filename(bucket string) string {
	return fmt.Sprintf("sitemap_%s.xml", bucket)
}

// IndexFilename is the sitemap index file.
const IndexFilename = "sitemap_index.xml"

// BuildBuckets routes every indexable page of every alive key into exactly
// one bucket. Entries are sorted by URL. Only unsuffixed buckets embed
// hreflang alternates.
func BuildBuckets(states map[string]*aggregate.State, origin, defaultLocale string) map[string][]Entry {
	buckets := make(map[string][]Entry)
	seen := make(map[string]bool)
	for _, key := range aggregate.SortedKeys(states) {
		st := states[key]
		if !st.Alive() {
			continue
		}
		for _, p := range st.Pages {
			if p.Noindex {
				continue
			}
			loc := aggregate.URL(origin, p.URLPath)
			if seen[loc] {
				continue
			}
			seen[loc] = true

			bucket := BucketName(p.Kind, p.Locale, defaultLocale)
			e := Entry{
				Loc:      loc,
				Priority: fmt.Sprintf("%.1f", pathkey.Priority(st.Key)),
			}
			if !p.ModTime.IsZero() {
				e.Lastmod = p.ModTime.UTC().Format("2006-01-02")
			}
			if p.Locale == defaultLocale && len(st.Alternates) > 1 {
				e.Alternates = append([]extract.Alternate(nil), st.Alternates...)
			}
			buckets[bucket] = append(buckets[bucket], e)
		}
	}
	for name := range buckets {
		sortEntries(buckets[name])
	}
	return buckets
}

// Rewrite re-targets already built buckets at another origin. Nothing is
// recomputed; only URL prefixes change.
func Rewrite(buckets map[string][]Entry, from, to string) map[string][]Entry {
	swap := func(u string) string {
		if strings.HasPrefix(u, from) {
			return to + strings.TrimPrefix(u, from)
		}
		return u
	}
	out := make(map[string][]Entry, len(buckets))
	for name, entries := range buckets {
		rewritten := make([]Entry, 0, len(entries))
		for _, e := range entries {
			e.Loc = swap(e.Loc)
			if len(e.Alternates) > 0 {
				alts := make([]extract.Alternate, len(e.Alternates))
				for i, a := range e.Alternates {
					alts[i] = extract.Alternate{Lang: a.Lang, Href: swap(a.Href)}
				}
				e.Alternates = alts
			}
			rewritten = append(rewritten, e)
		}
		sortEntries(rewritten)
		out[name] = rewritten
	}
	return out
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Loc < entries[j].Loc })
}

// Render serializes a bucket.
func Render(entries []Entry) ([]byte, error) {
	us := urlSet{
		XMLNS: sitemapNS,
		URLs:  []urlEntry{},
	}
	for _, e := range entries {
		u := urlEntry{
			Loc:      e.Loc,
			Lastmod:  e.Lastmod,
			Priority: e.Priority,
		}
		for _, a := range e.Alternates {
			u.Alternates = append(u.Alternates, xhtmlLink{Rel: "alternate", Hreflang: a.Lang, Href: a.Href})
		}
		if len(u.Alternates) > 0 {
			us.XHTML = xhtmlNS
		}
		us.URLs = append(us.URLs, u)
	}

	data, err := xml.MarshalIndent(us, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding sitemap: %w", err)
	}
	return []byte(xml.Header + string(data) + "\n"), nil
}

// RenderIndex serializes a sitemap index listing the given sitemap URLs.
func RenderIndex(locs []string) ([]byte, error) {
	si := sitemapIndex{XMLNS: sitemapNS}
	for _, l := range locs {
		si.Sitemaps = append(si.Sitemaps, sitemapEntry{Loc: l})
	}

	data, err := xml.MarshalIndent(si, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding sitemap index: %w", err)
	}
	return []byte(xml.Header + string(data) + "\n"), nil
}
