package schema

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
	"github.com/gamerank/sitegen/internal/sitegen/sidecar"
)

func testConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
site:
  name: GameRank
  base_url: https://example.com
  logo: /img/logo.png
paths:
  root: `+root+`
`), root)
	require.NoError(t, err)
	return cfg
}

func touch(t *testing.T, root, rel string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("<html></html>"), 0o644))
}

func labels(key, locale string) string {
	names := map[string]string{
		"/":                "GameRank",
		"/csgo":            "CS2 sites",
		"/csgo/trade":      "Trading",
		"/csgo/trade/bots": "Trade bots",
		"/cases":           "Cases",
	}
	if n, ok := names[key]; ok {
		return n
	}
	return pathkey.LastSegmentLabel(key)
}

func newComposer(t *testing.T, root string) *Composer {
	t.Helper()
	c, err := NewComposer(testConfig(t, root), pathkey.New("en", []string{"ru"}), labels)
	require.NoError(t, err)
	return c
}

func names(items []BreadcrumbItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestAverageRating(t *testing.T) {
	value, ok := AverageRating(map[string]interface{}{"a": "4", "b": "3", "c": "x"})
	require.True(t, ok)
	assert.Equal(t, "3.5", value)

	value, ok = AverageRating(map[string]interface{}{"a": 5.0, "b": 4, "c": "4,5"})
	require.True(t, ok)
	assert.Equal(t, "4.5", value)

	_, ok = AverageRating(map[string]interface{}{"a": "n/a"})
	assert.False(t, ok)
	_, ok = AverageRating(nil)
	assert.False(t, ok)
}

func TestReviewSchema(t *testing.T) {
	c := newComposer(t, t.TempDir())
	info := &sidecar.SiteInfo{
		Slug:    "foo",
		Name:    "Foo",
		URL:     "https://foo.gg",
		Ratings: map[string]interface{}{"a": "4", "b": "3", "c": "x"},
	}

	review, ok := c.Review(info, "/reviews/foo")
	require.True(t, ok)
	assert.Equal(t, "Review", review["@type"])
	assert.Equal(t, "https://example.com/reviews/foo", review["url"])
	rating := review["reviewRating"].(map[string]interface{})
	assert.Equal(t, "3.5", rating["ratingValue"])
	assert.Equal(t, "5", rating["bestRating"])
	assert.Equal(t, "0", rating["worstRating"])

	_, ok = c.Review(nil, "/reviews/foo")
	assert.False(t, ok)
	_, ok = c.Review(&sidecar.SiteInfo{Slug: "bar"}, "/reviews/bar")
	assert.False(t, ok)
}

func TestBreadcrumbsSkipMissingAndVocabulary(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "index.html")
	touch(t, root, "csgo/index.html")
	touch(t, root, "csgo/trade.html")
	touch(t, root, "csgo/trade/bots.html")
	touch(t, root, "ru/csgo/index.html")
	c := newComposer(t, root)

	items := c.Breadcrumbs("/csgo/trade/bots", "en")
	assert.Equal(t, []string{"GameRank", "CS2", "Trading", "Trade bots"}, names(items))
	assert.Equal(t, "https://example.com/", items[0].URL)
	assert.Equal(t, "https://example.com/csgo", items[1].URL)
	assert.Equal(t, "https://example.com/csgo/trade/bots", items[3].URL)

	ru := c.Breadcrumbs("/csgo/trade/bots", "ru")
	assert.Equal(t, []string{"GameRank", "CS2", "Trade bots"}, names(ru), "ru trail only links pages that exist in ru")
	assert.Equal(t, "https://example.com/ru/csgo", ru[1].URL)

	touch(t, root, "topic/index.html")
	topic := c.Breadcrumbs("/topic/guides/trade-bots", "en")
	assert.Equal(t, []string{"GameRank", "Trade Bots"}, names(topic), "topic segment is never a crumb")
}

func TestBreadcrumbsNestingRules(t *testing.T) {
	c := newComposer(t, t.TempDir())

	assert.Equal(t, []string{"GameRank", "Cases", "Fracture"}, names(c.Breadcrumbs("/collections/fracture", "en")))
	assert.Equal(t, []string{"GameRank", "Кейсы", "Fracture"}, names(c.Breadcrumbs("/collections/fracture", "ru")))
	assert.Equal(t, []string{"GameRank", "Skins", "Howl"}, names(c.Breadcrumbs("/sticker-craft/howl", "en")))
	assert.Equal(t, []string{"GameRank"}, names(c.Breadcrumbs("/", "en")))
}

func TestComposeGuideGraph(t *testing.T) {
	root := t.TempDir()
	c := newComposer(t, root)
	guide := &sidecar.Record{Slug: "trade-bots", Fields: map[string]interface{}{
		"title":    "Trade bots explained",
		"title-ru": "Про торговых ботов",
		"author":   "Alex Doe",
	}}

	doc := c.Compose(PageInput{
		Key:          "/topic/guides/trade-bots",
		URLPath:      "/ru/topic/guides/trade-bots",
		Locale:       "ru",
		Kind:         pathkey.KindGuide,
		Fields:       extract.Fields{Title: "Боты", OGImage: "/img/bots.png"},
		DateModified: "2024-05-01T10:00:00Z",
		Guide:        guide,
		WordCount:    420,
	})

	assert.Equal(t, Context, doc["@context"])
	graph := doc["@graph"].([]interface{})
	types := make(map[string]map[string]interface{})
	for _, n := range graph {
		node := n.(map[string]interface{})
		types[node["@type"].(string)] = node
	}
	require.Contains(t, types, "WebSite")
	require.Contains(t, types, "Organization")
	require.Contains(t, types, "WebPage")
	require.Contains(t, types, "ImageObject")
	require.Contains(t, types, "BreadcrumbList")
	require.Contains(t, types, "Article")
	require.Contains(t, types, "Person")

	article := types["Article"]
	assert.Equal(t, "Про торговых ботов", article["headline"])
	assert.Equal(t, 420, article["wordCount"])
	assert.Equal(t, "2024-05-01T10:00:00Z", article["dateModified"])
	assert.Equal(t, "https://example.com/img/bots.png", article["image"])
	assert.Equal(t, "https://example.com/ru/topic/guides/trade-bots", types["WebPage"]["url"])
	assert.Equal(t, "Alex Doe", types["Person"]["name"])
}

func TestComposeMainPageHasNoArticle(t *testing.T) {
	c := newComposer(t, t.TempDir())
	doc := c.Compose(PageInput{Key: "/", URLPath: "/", Locale: "en", Kind: pathkey.KindMain})
	graph := doc["@graph"].([]interface{})
	assert.Len(t, graph, 4)
}

func TestEqualIgnoresDateModified(t *testing.T) {
	c := newComposer(t, t.TempDir())
	in := PageInput{Key: "/csgo", URLPath: "/csgo", Locale: "en", Kind: pathkey.KindMain, DateModified: "2024-01-01T00:00:00Z"}
	a := c.Compose(in)
	in.DateModified = "2025-06-01T00:00:00Z"
	b := c.Compose(in)
	assert.True(t, Equal(a, b))

	text, err := Render(a)
	require.NoError(t, err)
	parsed, err := Parse(text)
	require.NoError(t, err)
	assert.True(t, Equal(parsed, b), "a parsed block compares equal to the composed map")
	assert.Equal(t, "2024-01-01T00:00:00Z", DateModified(parsed))

	in.Fields.Description = "changed"
	assert.False(t, Equal(a, c.Compose(in)))
}

func TestRenderDoesNotEscapeHTML(t *testing.T) {
	text, err := Render(map[string]interface{}{"name": "Skins & <Cases>"})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Skins & <Cases>\"\n}", text)
}

func TestStamp(t *testing.T) {
	ts := time.Date(2024, 5, 1, 13, 0, 0, 999, time.FixedZone("X", 3*3600))
	assert.Equal(t, "2024-05-01T10:00:00Z", Stamp(ts))
}

func TestSquashSpace(t *testing.T) {
	assert.Equal(t, `{"a":"b"}`, SquashSpace("{\n  \"a\": \"b\"\n}"))
}
