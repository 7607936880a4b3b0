package sitemap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamerank/sitegen/internal/sitegen/aggregate"
	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
	"github.com/gamerank/sitegen/internal/sitegen/scan"
)

const origin = "https://example.com"

var model = pathkey.New("en", []string{"ru"})

func page(urlPath string, noindex bool) *scan.Page {
	key := model.CanonicalKey(urlPath)
	return &scan.Page{
		RelPath: strings.TrimPrefix(urlPath, "/") + ".html",
		URLPath: urlPath,
		Locale:  model.Locale(urlPath),
		Key:     key,
		Kind:    pathkey.KindOf(key),
		Mirror:  model.IsMirror(urlPath),
		Noindex: noindex,
		ModTime: time.Date(2024, 4, 5, 6, 7, 8, 0, time.UTC),
	}
}

func states(pages ...*scan.Page) map[string]*aggregate.State {
	agg := &aggregate.Aggregator{Model: model, Origin: origin}
	return agg.Aggregate(pages)
}

func locs(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Loc)
	}
	return out
}

func TestBucketName(t *testing.T) {
	assert.Equal(t, "reviews", BucketName(pathkey.KindReview, "en", "en"))
	assert.Equal(t, "topics_ru", BucketName(pathkey.KindGuide, "ru", "en"))
	assert.Equal(t, "topics", BucketName(pathkey.KindTopic, "en", "en"))
	assert.Equal(t, "main_ru", BucketName(pathkey.KindMain, "ru", "en"))
	assert.Equal(t, []string{"main", "reviews", "topics", "main_ru", "reviews_ru", "topics_ru"}, BucketNames([]string{"en", "ru"}, "en"))
}

func TestBuildBucketsRouting(t *testing.T) {
	buckets := BuildBuckets(states(
		page("/reviews/foo", false),
		page("/ru/topic/guides/bar", false),
	), origin, "en")

	assert.Equal(t, []string{origin + "/reviews/foo"}, locs(buckets["reviews"]))
	assert.Equal(t, []string{origin + "/ru/topic/guides/bar"}, locs(buckets["topics_ru"]))
	assert.Len(t, buckets, 2)
}

func TestBuildBucketsNoindexVeto(t *testing.T) {
	buckets := BuildBuckets(states(
		page("/guide", false),
		page("/ru/guide", true),
		page("/about", false),
	), origin, "en")

	all := append(locs(buckets["main"]), locs(buckets["main_ru"])...)
	assert.Equal(t, []string{origin + "/about"}, all)
}

func TestBuildBucketsAlternatesOnlyInDefaultBuckets(t *testing.T) {
	buckets := BuildBuckets(states(
		page("/guide", false),
		page("/ru/guide", false),
		page("/", false),
	), origin, "en")

	main := buckets["main"]
	require.Len(t, main, 2)
	assert.Equal(t, origin+"/", main[0].Loc)
	assert.Equal(t, "1.0", main[0].Priority)
	assert.Equal(t, "2024-04-05", main[0].Lastmod)
	assert.Equal(t, []extract.Alternate{
		{Lang: "en", Href: origin + "/guide"},
		{Lang: "ru", Href: origin + "/ru/guide"},
	}, main[1].Alternates)

	require.Len(t, buckets["main_ru"], 1)
	assert.Empty(t, buckets["main_ru"][0].Alternates)
}

func TestRewrite(t *testing.T) {
	buckets := BuildBuckets(states(page("/guide", false), page("/ru/guide", false)), origin, "en")
	mirrored := Rewrite(buckets, origin, "https://mirror.example.org")

	assert.Equal(t, "https://mirror.example.org/guide", mirrored["main"][0].Loc)
	assert.Equal(t, "https://mirror.example.org/ru/guide", mirrored["main"][0].Alternates[1].Href)
	assert.Equal(t, origin+"/guide", buckets["main"][0].Loc, "the source buckets are untouched")
}

func TestRender(t *testing.T) {
	data, err := Render([]Entry{{
		Loc:      origin + "/guide",
		Priority: "1.0",
		Alternates: []extract.Alternate{
			{Lang: "en", Href: origin + "/guide"},
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:xhtml="http://www.w3.org/1999/xhtml">
  <url>
    <loc>https://example.com/guide</loc>
    <priority>1.0</priority>
    <xhtml:link rel="alternate" hreflang="en" href="https://example.com/guide"></xhtml:link>
  </url>
</urlset>
`, string(data))

	empty, err := Render(nil)
	require.NoError(t, err)
	assert.Contains(t, string(empty), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"></urlset>`)
}

func TestAssemblerWritesRootMirrorsAndIndex(t *testing.T) {
	root := t.TempDir()
	a := &Assembler{
		Root:    root,
		Origin:  origin,
		Mirrors: []config.MirrorConfig{{Origin: "https://mirror.example.org", Dir: "mirror"}},
		Buckets: []string{"main", "reviews"},
		Index:   true,
	}
	buckets := BuildBuckets(states(page("/reviews/foo", false), page("/about", false)), origin, "en")

	results := a.Write(buckets)
	require.Len(t, results, 6)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.True(t, r.Written, r.Path)
	}

	mirrored, err := os.ReadFile(filepath.Join(root, "mirror", "sitemap_reviews.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(mirrored), "https://mirror.example.org/reviews/foo")

	index, err := os.ReadFile(filepath.Join(root, IndexFilename))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<loc>https://example.com/sitemap_reviews.xml</loc>")

	for _, r := range a.Write(buckets) {
		assert.False(t, r.Written, "second run rewrites nothing: %s", r.Path)
	}
}

func TestAssemblerDryRun(t *testing.T) {
	root := t.TempDir()
	a := &Assembler{Root: root, Origin: origin, Buckets: []string{"main"}, DryRun: true}
	results := a.Write(nil)
	require.Len(t, results, 1)
	assert.True(t, results[0].Written)
	_, err := os.Stat(filepath.Join(root, "sitemap_main.xml"))
	assert.True(t, os.IsNotExist(err))
}
