package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gamerank/sitegen/internal/sitegen/sidecar"
)

const (
	bestRating  = "5"
	worstRating = "0"
)

// AverageRating averages the numeric values of a ratings map and formats the
// result with one decimal. Non-numeric values are ignored; ok is false when
// nothing numeric is left.
func AverageRating(ratings map[string]interface{}) (string, bool) {
	keys := make([]string, 0, len(ratings))
	for k := range ratings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sum float64
	var n int
	for _, k := range keys {
		v, ok := numeric(ratings[k])
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return "", false
	}
	return strconv.FormatFloat(sum/float64(n), 'f', 1, 64), true
}

func numeric(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(val, ",", ".")), 64)
		return f, err == nil
	}
	return 0, false
}

// GenerateReviewSchema generates the standalone Review block of a review
// page from its site info. ok is false when the site has no numeric ratings.
func (g *Generator) GenerateReviewSchema(info *sidecar.SiteInfo, pageURL string) (map[string]interface{}, bool) {
	if info == nil {
		return nil, false
	}
	value, ok := AverageRating(info.Ratings)
	if !ok {
		return nil, false
	}
	name := info.Name
	if name == "" {
		name = info.Slug
	}

	item := map[string]interface{}{
		"@type": "WebSite",
		"name":  name,
	}
	if info.URL != "" {
		item["url"] = info.URL
	}
	if icon := g.AbsURL(info.Icon); icon != "" {
		item["image"] = icon
	}

	return map[string]interface{}{
		"@context":     Context,
		"@type":        "Review",
		"name":         fmt.Sprintf("%s review", name),
		"url":          pageURL,
		"itemReviewed": item,
		"reviewRating": map[string]interface{}{
			"@type":       "Rating",
			"ratingValue": value,
			"bestRating":  bestRating,
			"worstRating": worstRating,
		},
		"author": map[string]interface{}{
			"@type": "Organization",
			"name":  g.SiteConfig.Name,
			"url":   g.homeURL(),
		},
	}, true
}
