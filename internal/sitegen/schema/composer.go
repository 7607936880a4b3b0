// Package schema composes the JSON-LD documents embedded in pages: a node
// graph for regular pages and guides, and a standalone Review block for
// review pages.
package schema

import (
	"fmt"
	"regexp"
	"time"

	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
	"github.com/gamerank/sitegen/internal/sitegen/sidecar"
)

// LabelFunc returns the display label of a canonical key in a locale.
type LabelFunc func(key, locale string) string

// PageInput is what the composer needs to know about one page.
type PageInput struct {
	Key          string
	URLPath      string
	Locale       string
	Kind         pathkey.Kind
	Fields       extract.Fields
	DateModified string
	Guide        *sidecar.Record
	WordCount    int
}

type nestingRule struct {
	re        *regexp.Regexp
	ancestors []config.AncestorEntry
}

// Composer builds JSON-LD documents for pages under one content root.
type Composer struct {
	gen           *Generator
	model         *pathkey.Model
	root          string
	labels        LabelFunc
	categories    []config.CategoryConfig
	nonBreadcrumb map[string]bool
	nesting       []nestingRule
}

// NewComposer creates a Composer. labels resolves breadcrumb names.
func NewComposer(cfg *config.Config, model *pathkey.Model, labels LabelFunc) (*Composer, error) {
	c := &Composer{
		gen:           NewGenerator(cfg.Site, cfg.Schema),
		model:         model,
		root:          cfg.Paths.Root,
		labels:        labels,
		categories:    cfg.CrossLinks.Categories,
		nonBreadcrumb: make(map[string]bool),
	}
	for _, s := range cfg.Schema.NonBreadcrumb {
		c.nonBreadcrumb[s] = true
	}
	for _, r := range cfg.Schema.Nesting {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("structured_data.nesting pattern %q: %w", r.Pattern, err)
		}
		c.nesting = append(c.nesting, nestingRule{re: re, ancestors: r.Ancestors})
	}
	if c.labels == nil {
		c.labels = func(key, _ string) string { return pathkey.LastSegmentLabel(key) }
	}
	return c, nil
}

// Stamp formats a revision time as a dateModified value.
func Stamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// Compose builds the @graph document of a regular page or guide.
func (c *Composer) Compose(in PageInput) map[string]interface{} {
	pageURL := c.url(in.URLPath, "")
	name := in.Fields.Title
	if name == "" {
		name = c.labels(in.Key, in.Locale)
	}

	nodes := []map[string]interface{}{
		c.gen.GenerateWebSiteSchema(),
		c.gen.GenerateOrganizationSchema(),
		c.gen.GenerateWebPageSchema(WebPageInput{
			URL:          pageURL,
			Name:         name,
			Description:  in.Fields.Description,
			Locale:       in.Locale,
			DateModified: in.DateModified,
			HasImage:     in.Fields.OGImage != "",
		}),
	}
	if in.Fields.OGImage != "" {
		nodes = append(nodes, c.gen.GenerateImageSchema(pageURL, ImageInput{
			URL:     in.Fields.OGImage,
			Caption: in.Fields.OGImageAlt,
			Width:   in.Fields.OGImageWidth,
			Height:  in.Fields.OGImageHeight,
		}))
	}
	nodes = append(nodes, c.gen.GenerateBreadcrumbSchema(pageURL, c.Breadcrumbs(in.Key, in.Locale)))

	if in.Kind == pathkey.KindGuide {
		nodes = append(nodes, c.article(in, pageURL, name)...)
	}
	return Graph(nodes...)
}

func (c *Composer) article(in PageInput, pageURL, name string) []map[string]interface{} {
	g := in.Guide
	headline := firstNonEmpty(g.GetLocalized("title", in.Locale), in.Fields.H1, name)
	keywords := g.GetStringSlice("keywords")
	if len(keywords) == 0 {
		keywords = in.Fields.Keywords
	}
	author := g.GetLocalized("author", in.Locale)

	nodes := []map[string]interface{}{
		c.gen.GenerateArticleSchema(ArticleInput{
			URL:           pageURL,
			Headline:      headline,
			Description:   firstNonEmpty(g.GetLocalized("description", in.Locale), in.Fields.Description),
			Author:        author,
			Locale:        in.Locale,
			DatePublished: g.GetLocalized("datePublished", in.Locale),
			DateModified:  in.DateModified,
			Image:         firstNonEmpty(g.GetLocalized("image", in.Locale), in.Fields.OGImage),
			Keywords:      keywords,
			WordCount:     in.WordCount,
		}),
	}
	if author != "" {
		nodes = append(nodes, c.gen.GeneratePersonSchema(author))
	}
	return nodes
}

// Review builds the standalone Review block for a review or mirrors page.
func (c *Composer) Review(info *sidecar.SiteInfo, urlPath string) (map[string]interface{}, bool) {
	return c.gen.GenerateReviewSchema(info, c.url(urlPath, ""))
}

// url returns the absolute URL of p localized to locale. An empty locale
// takes p as an already localized url path.
func (c *Composer) url(p, locale string) string {
	if locale != "" {
		p = c.model.Localize(p, locale)
	}
	if p == "/" || p == "" {
		return c.gen.SiteConfig.BaseURL + "/"
	}
	return c.gen.SiteConfig.BaseURL + p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
