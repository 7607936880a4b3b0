// Package aggregate folds the per-locale pages sharing a canonical key into
// one authoritative state record.
package aggregate

import (
	"sort"

	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
	"github.com/gamerank/sitegen/internal/sitegen/scan"
)

// XDefault is the hreflang value for the language-neutral fallback.
const XDefault = "x-default"

// State is everything known about one canonical key after folding all of
// its pages.
type State struct {
	Key        string
	Kind       pathkey.Kind
	Locales    []string
	AnyIndexed bool
	AnyNoindex bool
	Alternates []extract.Alternate
	Labels     map[string]string
	OGTitles   map[string]string
	Keywords   []string
	// Icon is the freshly scraped icon candidate (og:image of the reviews
	// page, else of the mirrors page).
	Icon  string
	Pages []*scan.Page
}

// Alive reports whether the key belongs in sitemaps and search: indexable in
// at least one locale and noindex in none. Mirrors pages share the key of the
// review they mirror, so a noindex mirror also hides the review.
func (s *State) Alive() bool {
	return s.AnyIndexed && !s.AnyNoindex
}

// HasLocale reports whether some page of the key is in locale.
func (s *State) HasLocale(locale string) bool {
	for _, l := range s.Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// Label returns the display label for locale, falling back to the other
// locales' labels and finally to the titleized last path segment.
func (s *State) Label(locale string, order []string) string {
	if l := s.Labels[locale]; l != "" {
		return l
	}
	for _, other := range order {
		if l := s.Labels[other]; l != "" {
			return l
		}
	}
	if l := pathkey.LastSegmentLabel(s.Key); l != "" {
		return l
	}
	return "Home"
}

// Aggregator folds pages into states.
type Aggregator struct {
	Model  *pathkey.Model
	Origin string
	Brand  string
	Policy Policy
}

// Aggregate groups pages by canonical key. The result does not depend on the
// order of pages: they are folded in a fixed order (reviews before mirrors,
// then locale order, then file path), which is what "first writer wins"
// refers to.
func (a *Aggregator) Aggregate(pages []*scan.Page) map[string]*State {
	ordered := append([]*scan.Page(nil), pages...)
	rank := make(map[string]int)
	for i, l := range a.Model.Locales() {
		rank[l] = i
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := ordered[i], ordered[j]
		if pi.Mirror != pj.Mirror {
			return !pi.Mirror
		}
		if rank[pi.Locale] != rank[pj.Locale] {
			return rank[pi.Locale] < rank[pj.Locale]
		}
		return pi.RelPath < pj.RelPath
	})

	states := make(map[string]*State)
	declared := make(map[string]map[string]string)
	pageURL := make(map[string]map[string]string)
	rawKeywords := make(map[string][]string)

	for _, p := range ordered {
		st, ok := states[p.Key]
		if !ok {
			st = &State{
				Key:      p.Key,
				Kind:     p.Kind,
				Labels:   make(map[string]string),
				OGTitles: make(map[string]string),
			}
			states[p.Key] = st
			declared[p.Key] = make(map[string]string)
			pageURL[p.Key] = make(map[string]string)
		}
		st.Pages = append(st.Pages, p)
		if !st.HasLocale(p.Locale) {
			st.Locales = append(st.Locales, p.Locale)
		}
		if _, seen := pageURL[p.Key][p.Locale]; !seen {
			pageURL[p.Key][p.Locale] = p.URLPath
		}
		for _, alt := range p.Fields.Alternates {
			if _, seen := declared[p.Key][alt.Lang]; !seen {
				declared[p.Key][alt.Lang] = alt.Href
			}
		}

		if p.Noindex {
			st.AnyNoindex = true
			continue
		}
		st.AnyIndexed = true

		label := p.Fields.H1
		if label == "" {
			label = p.Fields.Title
		}
		st.Labels[p.Locale] = Merge(st.Labels[p.Locale], label, a.Policy)
		st.OGTitles[p.Locale] = Merge(st.OGTitles[p.Locale], p.Fields.OGTitle, a.Policy)
		st.Icon = Merge(st.Icon, p.Fields.OGImage, PreserveExisting)
		rawKeywords[p.Key] = append(rawKeywords[p.Key], p.Fields.Keywords...)
	}

	for key, st := range states {
		sort.SliceStable(st.Locales, func(i, j int) bool { return rank[st.Locales[i]] < rank[st.Locales[j]] })
		for _, l := range st.Locales {
			href, ok := declared[key][l]
			if !ok {
				href = URL(a.Origin, pageURL[key][l])
			}
			st.Alternates = append(st.Alternates, extract.Alternate{Lang: l, Href: href})
		}
		if href, ok := declared[key][XDefault]; ok {
			st.Alternates = append(st.Alternates, extract.Alternate{Lang: XDefault, Href: href})
		}
		st.Keywords = extract.CleanKeywords(rawKeywords[key], a.Brand)
	}
	return states
}

// URL joins an origin and a url path. The root path keeps its slash.
func URL(origin, urlPath string) string {
	if urlPath == "" || urlPath == "/" {
		return origin + "/"
	}
	return origin + urlPath
}

// SortedKeys returns the keys of states in lexical order.
func SortedKeys(states map[string]*State) []string {
	keys := make([]string, 0, len(states))
	for k := range states {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
