package reconcile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "site-schema"

var mtime = time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC)

const schemaPage = "<html>\n<head>\n  <title>X</title>\n</head>\n<body></body>\n</html>\n"

func composeNamed(name string) ComposeFunc {
	return func(stamp string) map[string]interface{} {
		return map[string]interface{}{
			"@context": "https://schema.org",
			"@graph": []interface{}{
				map[string]interface{}{"@type": "WebPage", "name": name, "dateModified": stamp},
			},
		}
	}
}

func TestApplyGraphInsertsBlock(t *testing.T) {
	out, err := ApplyGraph(schemaPage, marker, "  ", composeNamed("X"), mtime)
	require.NoError(t, err)

	want := "<html>\n<head>\n  <title>X</title>\n" +
		"  <script type=\"application/ld+json\" class=\"site-schema\">\n" +
		"  {\n" +
		"    \"@context\": \"https://schema.org\",\n" +
		"    \"@graph\": [\n" +
		"      {\n" +
		"        \"@type\": \"WebPage\",\n" +
		"        \"dateModified\": \"2024-01-02T03:04:05Z\",\n" +
		"        \"name\": \"X\"\n" +
		"      }\n" +
		"    ]\n" +
		"  }\n" +
		"  </script>\n" +
		"</head>\n<body></body>\n</html>\n"
	assert.Equal(t, want, out)

	again, err := ApplyGraph(out, marker, "  ", composeNamed("X"), mtime)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestApplyGraphRestampsOnlyDateModified(t *testing.T) {
	stale, err := ApplyGraph(schemaPage, marker, "  ", composeNamed("X"), mtime.Add(-48*time.Hour))
	require.NoError(t, err)
	require.Contains(t, stale, "2023-12-31T03:04:05Z")

	out, err := ApplyGraph(stale, marker, "  ", composeNamed("X"), mtime)
	require.NoError(t, err)
	assert.Contains(t, out, "2024-01-02T03:04:05Z")
	assert.NotContains(t, out, "2023-12-31")
}

func TestApplyGraphKeepsEquivalentBlock(t *testing.T) {
	src := "<html><head>\n  <script type=\"application/ld+json\" class=\"site-schema\">" +
		`{"@graph":[{"name":"X","dateModified":"2024-01-02T03:04:05Z","@type":"WebPage"}],"@context":"https://schema.org"}` +
		"</script>\n</head></html>"
	out, err := ApplyGraph(src, marker, "  ", composeNamed("X"), mtime)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestApplyGraphReplacesChangedContent(t *testing.T) {
	first, err := ApplyGraph(schemaPage, marker, "  ", composeNamed("X"), mtime)
	require.NoError(t, err)

	out, err := ApplyGraph(first, marker, "  ", composeNamed("Y"), mtime)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Y"`)
	assert.Contains(t, out, "2024-01-02T03:04:05Z", "a content change is stamped with the unchanged revision")

	again, err := ApplyGraph(out, marker, "  ", composeNamed("Y"), mtime)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestApplyGraphNormalizesDuplicateBlocks(t *testing.T) {
	src := "<html>\n<head>\n  <title>X</title>\n" +
		"  <script type=\"application/ld+json\" class=\"site-schema\">{\"a\":1}</script>\n" +
		"  <script type=\"application/ld+json\" class=\"site-schema\">not json</script>\n" +
		"</head>\n</html>\n"
	out, err := ApplyGraph(src, marker, "  ", composeNamed("X"), mtime)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, `class="site-schema"`))
	assert.NotContains(t, out, "not json")
}

func TestApplyGraphUnparseableBlockIsReplaced(t *testing.T) {
	src := "<html><head>\n  <script type=\"application/ld+json\" class=\"site-schema\">{oops</script>\n</head></html>"
	out, err := ApplyGraph(src, marker, "  ", composeNamed("X"), mtime)
	require.NoError(t, err)
	assert.NotContains(t, out, "{oops")
	assert.Contains(t, out, "2024-01-02T03:04:05Z")
}

func TestApplyGraphWithoutHead(t *testing.T) {
	_, err := ApplyGraph("<p>x</p>", marker, "  ", composeNamed("X"), mtime)
	assert.ErrorIs(t, err, ErrNoHead)
}

func TestApplyReview(t *testing.T) {
	review := map[string]interface{}{
		"@context":     "https://schema.org",
		"@type":        "Review",
		"reviewRating": map[string]interface{}{"@type": "Rating", "ratingValue": "3.5"},
	}
	src := "<html>\n<head>\n  <title>Foo</title>\n" +
		"  <script type=\"application/ld+json\">{\"@type\":\"Organization\"}</script>\n" +
		"  <script type=\"application/ld+json\" class=\"site-schema\">{}</script>\n" +
		"</head>\n</html>\n"

	out, err := ApplyReview(src, "  ", review)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "application/ld+json"))
	assert.Contains(t, out, `"ratingValue": "3.5"`)

	again, err := ApplyReview(out, "  ", review)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	compact := "<html><head><script type=\"application/ld+json\">" +
		`{"@context":"https://schema.org","@type":"Review","reviewRating":{"@type":"Rating","ratingValue":"3.5"}}` +
		"</script></head></html>"
	kept, err := ApplyReview(compact, "  ", review)
	require.NoError(t, err)
	assert.Equal(t, compact, kept, "whitespace differences alone never cause a write")
}
