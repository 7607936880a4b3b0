package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	robotsNameRe   = regexp.MustCompile(`(?i)^(robots|googlebot|x-robots-tag)$`)
	noindexTokenRe = regexp.MustCompile(`(?i)\b(noindex|none)\b`)
)

// IsNoindex reports whether any robots-family meta tag (by name, property or
// http-equiv) carries a standalone noindex or none directive. Pages without
// such tags are indexable.
func IsNoindex(doc *goquery.Document) bool {
	noindex := false
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !isRobotsMeta(s) {
			return true
		}
		if noindexTokenRe.MatchString(s.AttrOr("content", "")) {
			noindex = true
			return false
		}
		return true
	})
	return noindex
}

// IsNoindexHTML parses src and classifies it.
func IsNoindexHTML(src string) bool {
	doc, err := Parse(src)
	if err != nil {
		return false
	}
	return IsNoindex(doc)
}

func isRobotsMeta(s *goquery.Selection) bool {
	for _, attr := range []string{"name", "property", "http-equiv"} {
		if v, ok := s.Attr(attr); ok && robotsNameRe.MatchString(strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}
