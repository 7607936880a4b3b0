package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!doctype html><html lang="en"><head>
<title>  Best CS2 Case
  Sites </title>
<META Name='Description' content="Where to open cases">
<meta name="keywords" content="cs2 cases, CS2 Cases, GameRank picks, , skins ">
<meta property="og:title" content="Case sites">
<meta property="og:image" content="https://gamerank.example/img/cases.png">
<meta property="og:image:alt" content="Cases">
<meta property="og:image:width" content="1200">
<meta property="og:image:height" content="630">
<link rel="canonical" href="https://gamerank.example/csgo/cases">
<link rel="alternate" hreflang="RU" href="https://gamerank.example/ru/csgo/cases">
<link rel="alternate" hreflang="x-default" href="https://gamerank.example/csgo/cases">
<script type="application/ld+json" class="site-schema">
{"@context": "https://schema.org"}
</script>
</head><body>
<h1>Best <em>case</em> sites</h1><h1>Second</h1>
<div class="guide-content"><ul><li>one two</li><li>three</li></ul></div>
</body></html>`

func TestFromHTML(t *testing.T) {
	f, err := FromHTML(samplePage, "GameRank")
	require.NoError(t, err)

	assert.Equal(t, "Best CS2 Case Sites", f.Title)
	assert.Equal(t, "Best case sites", f.H1)
	assert.Equal(t, "Where to open cases", f.Description)
	assert.Equal(t, []string{"cs2 cases", "skins"}, f.Keywords)
	assert.Equal(t, "Case sites", f.OGTitle)
	assert.Equal(t, "https://gamerank.example/img/cases.png", f.OGImage)
	assert.Equal(t, "Cases", f.OGImageAlt)
	assert.Equal(t, 1200, f.OGImageWidth)
	assert.Equal(t, 630, f.OGImageHeight)
	assert.Equal(t, "https://gamerank.example/csgo/cases", f.Canonical)
	assert.Equal(t, []Alternate{
		{Lang: "ru", Href: "https://gamerank.example/ru/csgo/cases"},
		{Lang: "x-default", Href: "https://gamerank.example/csgo/cases"},
	}, f.Alternates)
	assert.Equal(t, `{"@context": "https://schema.org"}`, f.StructuredData)
}

func TestMissingFieldsAreEmpty(t *testing.T) {
	f, err := FromHTML("<p>just text", "GameRank")
	require.NoError(t, err)
	assert.Empty(t, f.Title)
	assert.Empty(t, f.H1)
	assert.Empty(t, f.Keywords)
	assert.Empty(t, f.Alternates)
	assert.Zero(t, f.OGImageWidth)
}

func TestSection(t *testing.T) {
	head, ok := Section(samplePage, "HEAD")
	require.True(t, ok)
	assert.Contains(t, head, "<title>")
	assert.NotContains(t, head, "<body>")

	_, ok = Section("<p>no head</p>", "head")
	assert.False(t, ok)
}

func TestWordCount(t *testing.T) {
	doc, err := Parse(samplePage)
	require.NoError(t, err)
	assert.Equal(t, 3, WordCount(doc, ".guide-content"))
	assert.Equal(t, 0, WordCount(doc, ".missing"))
}

func TestCleanKeywords(t *testing.T) {
	got := CleanKeywords([]string{" Rust ", "rust", "GameRank bonus", "gamerank", "dota  2"}, "GameRank")
	assert.Equal(t, []string{"Rust", "dota 2"}, got)
}
