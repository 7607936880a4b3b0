package markup

import (
	"regexp"
	"sort"
	"strings"
)

// Newline returns the line terminator used by src.
func Newline(src string) string {
	if strings.Contains(src, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// LineIndent returns the leading whitespace of the line containing pos.
func LineIndent(src string, pos int) string {
	lineStart := strings.LastIndexByte(src[:pos], '\n') + 1
	i := lineStart
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return src[lineStart:i]
}

// lineSpan widens [start,end) to swallow the line break and indentation in
// front of it when nothing else precedes it on its line. This is the exact
// inverse of InsertLines, which keeps repeated edits idempotent.
func lineSpan(src string, start, end int) Span {
	i := start
	for i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	if i == 0 {
		if end < len(src) && src[end] == '\n' {
			return Span{Start: 0, End: end + 1}
		}
		return Span{Start: start, End: end}
	}
	if src[i-1] != '\n' {
		return Span{Start: start, End: end}
	}
	i--
	if i > 0 && src[i-1] == '\r' {
		i--
	}
	return Span{Start: i, End: end}
}

// RemoveSpans deletes the given spans, taking each one's own line with it
// when it stands alone. Overlapping spans are merged.
func RemoveSpans(src string, spans []Span) string {
	if len(spans) == 0 {
		return src
	}
	widened := make([]Span, 0, len(spans))
	for _, s := range spans {
		widened = append(widened, lineSpan(src, s.Start, s.End))
	}
	sort.Slice(widened, func(i, j int) bool { return widened[i].Start < widened[j].Start })

	var b strings.Builder
	b.Grow(len(src))
	pos := 0
	for _, s := range widened {
		if s.Start < pos {
			if s.End > pos {
				pos = s.End
			}
			continue
		}
		b.WriteString(src[pos:s.Start])
		pos = s.End
	}
	b.WriteString(src[pos:])
	return b.String()
}

// InsertLines inserts each line on its own new line after pos, using indent
// and the newline style nl.
func InsertLines(src string, pos int, indent, nl string, lines []string) string {
	if len(lines) == 0 {
		return src
	}
	var b strings.Builder
	b.Grow(len(src) + 64*len(lines))
	b.WriteString(src[:pos])
	for _, l := range lines {
		b.WriteString(nl)
		b.WriteString(indent)
		b.WriteString(l)
	}
	b.WriteString(src[pos:])
	return b.String()
}

// Replace swaps src[start:end] for repl.
func Replace(src string, start, end int, repl string) string {
	return src[:start] + repl + src[end:]
}

var blankRun = regexp.MustCompile(`\n(?:[ \t]*\r?\n){2,}`)

// CollapseBlankLines limits runs of blank lines to a single blank line.
func CollapseBlankLines(s string) string {
	return blankRun.ReplaceAllStringFunc(s, func(m string) string {
		if strings.Contains(m, "\r\n") {
			return "\n\r\n"
		}
		return "\n\n"
	})
}
