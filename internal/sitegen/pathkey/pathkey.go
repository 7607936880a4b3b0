// Package pathkey maps content files to site URL paths, locales and
// locale-independent canonical keys.
package pathkey

import (
	"path"
	"path/filepath"
	"strings"
)

// Kind is the content type of a canonical key.
type Kind string

const (
	KindMain   Kind = "main"
	KindReview Kind = "review"
	KindGuide  Kind = "guide"
	KindTopic  Kind = "topic"
)

const (
	reviewsSegment = "reviews"
	mirrorsSegment = "mirrors"
	topicSegment   = "topic"
	guidesSegment  = "guides"
)

// Model knows the locale set and derives url paths and keys from it.
type Model struct {
	DefaultLocale string
	locales       []string
	known         map[string]bool
}

// New creates a Model. The default locale is always part of the locale set.
func New(defaultLocale string, locales []string) *Model {
	m := &Model{DefaultLocale: defaultLocale, known: make(map[string]bool)}
	for _, l := range append([]string{defaultLocale}, locales...) {
		if !m.known[l] {
			m.known[l] = true
			m.locales = append(m.locales, l)
		}
	}
	return m
}

// Locales returns the known locales, default locale first.
func (m *Model) Locales() []string {
	return append([]string(nil), m.locales...)
}

// URLPath maps a root-relative file path to a site URL path.
// Returns false for anything that is not an .html page.
func (m *Model) URLPath(rel string) (string, bool) {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.TrimPrefix(rel, "/")
	if !strings.HasSuffix(rel, ".html") {
		return "", false
	}
	p := strings.TrimSuffix(rel, ".html")
	if p == "index" {
		return "/", true
	}
	p = strings.TrimSuffix(p, "/index")
	if p == "" {
		return "", false
	}
	return "/" + p, true
}

// Locale returns the locale of a url path: its first segment when that is a
// known locale, else the default locale.
func (m *Model) Locale(urlPath string) string {
	first, _ := splitFirst(urlPath)
	if first != "" && first != m.DefaultLocale && m.known[first] {
		return first
	}
	return m.DefaultLocale
}

// CanonicalKey strips the locale segment and folds review-style pages onto
// /reviews/{slug}. The root key is exactly "/".
func (m *Model) CanonicalKey(urlPath string) string {
	p := m.stripLocale(urlPath)
	segs := segments(p)
	if len(segs) >= 2 && (segs[0] == reviewsSegment || segs[0] == mirrorsSegment) {
		return "/" + reviewsSegment + "/" + segs[len(segs)-1]
	}
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// IsMirror reports whether a url path is a mirrors page.
func (m *Model) IsMirror(urlPath string) bool {
	segs := segments(m.stripLocale(urlPath))
	return len(segs) >= 2 && segs[0] == mirrorsSegment
}

// Localize returns the url path of key in locale.
func (m *Model) Localize(key, locale string) string {
	if locale == "" || locale == m.DefaultLocale {
		return key
	}
	if key == "/" {
		return "/" + locale
	}
	return "/" + locale + key
}

// FileCandidates lists the root-relative files that could serve urlPath:
// a flat page.html and a dir/index.html.
func FileCandidates(urlPath string) []string {
	p := strings.Trim(urlPath, "/")
	if p == "" {
		return []string{"index.html"}
	}
	return []string{p + ".html", path.Join(p, "index.html")}
}

// Depth counts the path segments of p.
func Depth(p string) int {
	return len(segments(p))
}

// Priority is the sitemap priority for a path: depth 0/1 -> 1.0, 2 -> 0.8,
// 3 -> 0.6, deeper -> 0.5.
func Priority(p string) float64 {
	switch d := Depth(p); {
	case d <= 1:
		return 1.0
	case d == 2:
		return 0.8
	case d == 3:
		return 0.6
	default:
		return 0.5
	}
}

// KindOf classifies a canonical key.
func KindOf(key string) Kind {
	segs := segments(key)
	switch {
	case len(segs) == 2 && segs[0] == reviewsSegment:
		return KindReview
	case len(segs) >= 3 && segs[0] == topicSegment && segs[1] == guidesSegment:
		return KindGuide
	case len(segs) >= 1 && segs[0] == topicSegment:
		return KindTopic
	default:
		return KindMain
	}
}

// Slug returns the final segment of a key.
func Slug(key string) string {
	segs := segments(key)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Segments splits a path into its non-empty segments.
func Segments(p string) []string {
	return segments(p)
}

func (m *Model) stripLocale(urlPath string) string {
	first, rest := splitFirst(urlPath)
	if first != "" && m.known[first] {
		return rest
	}
	return urlPath
}

func splitFirst(p string) (string, string) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", "/"
	}
	first, rest, found := strings.Cut(p, "/")
	if !found {
		return first, "/"
	}
	return first, "/" + rest
}

func segments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
