// Package render turns head-tag and cross-link models into the markup lines
// spliced into pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/gamerank/sitegen/internal/sitegen/crosslink"
	"github.com/gamerank/sitegen/internal/sitegen/extract"
)

const (
	tmplCanonical  = "canonical"
	tmplOpenGraph  = "opengraph"
	tmplAlternates = "alternates"
	tmplCrossLinks = "crosslinks"
)

const snippets = `
{{define "canonical"}}
<link rel="canonical" href="{{.Canonical}}">
<meta name="googlebot" content="{{.Googlebot}}">
{{end}}

{{define "opengraph"}}
<meta property="og:url" content="{{.URL}}">
{{if .Locale}}<meta property="og:locale" content="{{.Locale}}">{{end}}
{{end}}

{{define "alternates"}}
{{range .}}
<link rel="alternate" hreflang="{{.Lang}}" href="{{.Href}}">
{{end}}
{{end}}

{{define "crosslinks"}}
<div class="{{.Marker}}">
{{indent 1}}<h2>{{.Heading}}</h2>
{{indent 1}}<ul>
{{range .Entries}}
{{indent 2}}<li><a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Title}}</a></li>
{{end}}
{{indent 1}}</ul>
</div>
{{end}}
`

// CanonicalContext is the data of the canonical + googlebot pair.
type CanonicalContext struct {
	Canonical string
	Googlebot string
}

// OpenGraphContext is the data of the og:url + og:locale pair.
type OpenGraphContext struct {
	URL    string
	Locale string
}

// Engine is the snippet rendering engine.
type Engine struct {
	tmpl *template.Template
}

// NewEngine parses the snippet templates. indentUnit is the step used for
// nested lines of multi-line blocks.
func NewEngine(indentUnit string) (*Engine, error) {
	tmpl, err := template.New("snippets").Funcs(BuildFuncMap(indentUnit)).Parse(snippets)
	if err != nil {
		return nil, fmt.Errorf("parsing snippets: %w", err)
	}
	return &Engine{tmpl: tmpl}, nil
}

// Canonical renders the canonical link and googlebot meta lines.
func (e *Engine) Canonical(ctx CanonicalContext) ([]string, error) {
	return e.lines(tmplCanonical, ctx)
}

// OpenGraph renders the og:url and og:locale lines.
func (e *Engine) OpenGraph(ctx OpenGraphContext) ([]string, error) {
	return e.lines(tmplOpenGraph, ctx)
}

// Alternates renders one hreflang link line per alternate.
func (e *Engine) Alternates(alts []extract.Alternate) ([]string, error) {
	return e.lines(tmplAlternates, alts)
}

// CrossLinks renders the cross-link block, one line per element, with
// nesting relative to the block's own indentation.
func (e *Engine) CrossLinks(block crosslink.Block) ([]string, error) {
	return e.lines(tmplCrossLinks, block)
}

// lines executes a template and returns its non-blank lines.
func (e *Engine) lines(name string, data interface{}) ([]string, error) {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("executing template %q: %w", name, err)
	}
	var out []string
	for _, line := range strings.Split(buf.String(), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}
