package pathkey

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	wordSplit = regexp.MustCompile(`[-_\s]+`)
)

// ToSlug converts a string to a URL-safe slug.
// Lowercase, replace non-alphanumeric with hyphens, trim leading/trailing hyphens.
func ToSlug(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}

// Titleize turns a slug into a display label: "offer-walls" -> "Offer Walls".
func Titleize(slug string) string {
	words := wordSplit.Split(strings.TrimSpace(slug), -1)
	out := words[:0]
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	// Casers carry state and are not safe to share between goroutines.
	return cases.Title(language.English).String(strings.Join(out, " "))
}

// LastSegmentLabel titleizes the final segment of a canonical key.
// The root key yields an empty label.
func LastSegmentLabel(key string) string {
	if key == "/" || key == "" {
		return ""
	}
	return Titleize(path.Base(key))
}
