package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html>
<html>
  <head>
    <TITLE>Guide</TITLE>
    <meta NAME='description' content="Hello &amp; bye">
    <script type="application/ld+json">{"a": "</div>"}</script>
  </head>
  <body>
    <div class="main-content wide"><div class="inner">x</div><p>y</p></div>
  </body>
</html>
`

func TestParseOffsetsCoverSource(t *testing.T) {
	d := Parse(page)
	title, ok := d.First("title")
	require.True(t, ok)
	assert.Equal(t, "Guide", d.Inner(title))
	assert.Equal(t, "<TITLE>Guide</TITLE>", d.Outer(title))

	metas := d.Tags(func(tg Tag) bool { return tg.Name == "meta" })
	require.Len(t, metas, 1)
	assert.True(t, metas[0].AttrIs("name", "DESCRIPTION"))
	assert.Equal(t, "Hello & bye", metas[0].Attr("content"))
	assert.Equal(t, `<meta NAME='description' content="Hello &amp; bye">`, page[metas[0].Start:metas[0].End])
}

func TestElementsPairNestedTags(t *testing.T) {
	d := Parse(page)
	els := d.Elements(func(tg Tag) bool { return tg.Name == "div" && tg.HasClass("main-content") })
	require.Len(t, els, 1)
	assert.Equal(t, `<div class="inner">x</div><p>y</p>`, d.Inner(els[0]))

	inner := Within(d.Elements(func(tg Tag) bool { return tg.Name == "div" }), els[0])
	require.Len(t, inner, 1)
	assert.True(t, inner[0].HasClass("inner"))
}

func TestScriptContentIsNotMarkup(t *testing.T) {
	d := Parse(page)
	scripts := d.Elements(func(tg Tag) bool { return tg.Name == "script" })
	require.Len(t, scripts, 1)
	assert.Equal(t, `{"a": "</div>"}`, d.Inner(scripts[0]))
}

func TestRemoveThenInsertIsInverse(t *testing.T) {
	src := "<head>\n    <title>x</title>\n    <meta name=\"googlebot\" content=\"index\">\n</head>\n"
	d := Parse(src)
	tags := d.Tags(func(tg Tag) bool { return tg.Name == "meta" })
	require.Len(t, tags, 1)

	removed := RemoveSpans(src, []Span{{Start: tags[0].Start, End: tags[0].End}})
	assert.Equal(t, "<head>\n    <title>x</title>\n</head>\n", removed)

	title, _ := Parse(removed).First("title")
	back := InsertLines(removed, title.Close, LineIndent(removed, title.Start), "\n", []string{`<meta name="googlebot" content="index">`})
	assert.Equal(t, src, back)
}

func TestRemoveInlineTagKeepsLine(t *testing.T) {
	src := "<p>a<br>b</p>\n"
	d := Parse(src)
	br := d.Tags(func(tg Tag) bool { return tg.Name == "br" })
	require.Len(t, br, 1)
	assert.Equal(t, "<p>ab</p>\n", RemoveSpans(src, []Span{{Start: br[0].Start, End: br[0].End}}))
}

func TestRemoveCRLF(t *testing.T) {
	src := "<head>\r\n  <link rel=\"canonical\" href=\"/x\">\r\n</head>"
	d := Parse(src)
	links := d.Tags(func(tg Tag) bool { return tg.Name == "link" })
	require.Len(t, links, 1)
	assert.Equal(t, "<head>\r\n</head>", RemoveSpans(src, []Span{{Start: links[0].Start, End: links[0].End}}))
	assert.Equal(t, "\r\n", Newline(src))
}

func TestCollapseBlankLines(t *testing.T) {
	assert.Equal(t, "a\n\n  b", CollapseBlankLines("a\n\n  \n\n  b"))
	assert.Equal(t, "a\n\nb", CollapseBlankLines("a\n\nb"))
	assert.Equal(t, "a\r\n\r\nb", CollapseBlankLines("a\r\n\r\n\r\n\r\nb"))
}

func TestLineIndent(t *testing.T) {
	src := "<head>\n\t  <title>x</title>"
	assert.Equal(t, "\t  ", LineIndent(src, len("<head>\n\t  <ti")))
}
