package schema

import (
	"fmt"
	"strings"

	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
)

// Context is the JSON-LD vocabulary every graph and Review block uses.
const Context = "https://schema.org"

// Generator creates the individual JSON-LD nodes of a page graph.
type Generator struct {
	SiteConfig config.SiteConfig
	Schema     config.SchemaConfig
}

// NewGenerator creates a new JSON-LD generator.
func NewGenerator(siteCfg config.SiteConfig, schemaCfg config.SchemaConfig) *Generator {
	return &Generator{
		SiteConfig: siteCfg,
		Schema:     schemaCfg,
	}
}

func (g *Generator) homeURL() string {
	return g.SiteConfig.BaseURL + "/"
}

func (g *Generator) websiteID() string { return g.homeURL() + "#website" }
func (g *Generator) organizationID() string { return g.homeURL() + "#organization" }

// AbsURL turns a root-relative reference into an absolute URL on the site.
func (g *Generator) AbsURL(ref string) string {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return ref
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "/"):
		return g.SiteConfig.BaseURL + ref
	default:
		return g.SiteConfig.BaseURL + "/" + ref
	}
}

// GenerateWebSiteSchema generates the WebSite node.
func (g *Generator) GenerateWebSiteSchema() map[string]interface{} {
	s := map[string]interface{}{
		"@type":     "WebSite",
		"@id":       g.websiteID(),
		"name":      g.SiteConfig.Name,
		"url":       g.homeURL(),
		"publisher": map[string]interface{}{"@id": g.organizationID()},
	}
	if g.SiteConfig.Description != "" {
		s["description"] = g.SiteConfig.Description
	}
	if len(g.SiteConfig.Locales) > 0 {
		s["inLanguage"] = g.SiteConfig.Locales
	}
	return s
}

// GenerateOrganizationSchema generates the Organization node.
func (g *Generator) GenerateOrganizationSchema() map[string]interface{} {
	s := map[string]interface{}{
		"@type": "Organization",
		"@id":   g.organizationID(),
		"name":  g.SiteConfig.Name,
		"url":   g.homeURL(),
	}
	if logo := g.AbsURL(g.SiteConfig.Logo); logo != "" {
		s["logo"] = map[string]interface{}{
			"@type": "ImageObject",
			"url":   logo,
		}
	}
	return s
}

// WebPageInput carries the per-page values of a WebPage node.
type WebPageInput struct {
	URL          string
	Name         string
	Description  string
	Locale       string
	DateModified string
	HasImage     bool
}

// GenerateWebPageSchema generates the WebPage node.
func (g *Generator) GenerateWebPageSchema(in WebPageInput) map[string]interface{} {
	s := map[string]interface{}{
		"@type":         "WebPage",
		"@id":           in.URL + "#webpage",
		"url":           in.URL,
		"name":          in.Name,
		"inLanguage":    in.Locale,
		"isPartOf":      map[string]interface{}{"@id": g.websiteID()},
		"breadcrumb":    map[string]interface{}{"@id": in.URL + "#breadcrumb"},
		"datePublished": g.Schema.DatePublished,
		"dateModified":  in.DateModified,
	}
	if in.Description != "" {
		s["description"] = in.Description
	}
	if in.HasImage {
		s["primaryImageOfPage"] = map[string]interface{}{"@id": in.URL + "#primaryimage"}
	}
	return s
}

// ImageInput describes the page's primary (og:image) image.
type ImageInput struct {
	URL     string
	Caption string
	Width   int
	Height  int
}

// GenerateImageSchema generates the primary ImageObject node of a page.
func (g *Generator) GenerateImageSchema(pageURL string, img ImageInput) map[string]interface{} {
	s := map[string]interface{}{
		"@type": "ImageObject",
		"@id":   pageURL + "#primaryimage",
		"url":   g.AbsURL(img.URL),
	}
	if img.Caption != "" {
		s["caption"] = img.Caption
	}
	if img.Width > 0 && img.Height > 0 {
		s["width"] = img.Width
		s["height"] = img.Height
	}
	return s
}

// BreadcrumbItem is a single breadcrumb entry.
type BreadcrumbItem struct {
	Name string
	URL  string
}

// GenerateBreadcrumbSchema generates the BreadcrumbList node.
func (g *Generator) GenerateBreadcrumbSchema(pageURL string, items []BreadcrumbItem) map[string]interface{} {
	listItems := make([]interface{}, 0, len(items))
	for i, item := range items {
		li := map[string]interface{}{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     item.Name,
		}
		if item.URL != "" {
			li["item"] = item.URL
		}
		listItems = append(listItems, li)
	}

	return map[string]interface{}{
		"@type":           "BreadcrumbList",
		"@id":             pageURL + "#breadcrumb",
		"itemListElement": listItems,
	}
}

// PersonID is the node id of a guide author.
func (g *Generator) PersonID(author string) string {
	return fmt.Sprintf("%s#/person/%s", g.homeURL(), pathkey.ToSlug(author))
}

// GeneratePersonSchema generates a Person node for a guide author.
func (g *Generator) GeneratePersonSchema(author string) map[string]interface{} {
	return map[string]interface{}{
		"@type": "Person",
		"@id":   g.PersonID(author),
		"name":  author,
	}
}

// ArticleInput carries the values of a guide's Article node.
type ArticleInput struct {
	URL           string
	Headline      string
	Description   string
	Author        string
	Locale        string
	DatePublished string
	DateModified  string
	Image         string
	Keywords      []string
	WordCount     int
}

// GenerateArticleSchema generates the Article node of a guide. Without an
// author the organization is credited.
func (g *Generator) GenerateArticleSchema(in ArticleInput) map[string]interface{} {
	published := in.DatePublished
	if published == "" {
		published = g.Schema.DatePublished
	}
	author := map[string]interface{}{"@id": g.organizationID()}
	if in.Author != "" {
		author = map[string]interface{}{"@id": g.PersonID(in.Author)}
	}

	s := map[string]interface{}{
		"@type":            "Article",
		"@id":              in.URL + "#article",
		"headline":         in.Headline,
		"inLanguage":       in.Locale,
		"author":           author,
		"publisher":        map[string]interface{}{"@id": g.organizationID()},
		"datePublished":    published,
		"dateModified":     in.DateModified,
		"mainEntityOfPage": map[string]interface{}{"@id": in.URL + "#webpage"},
	}
	if in.Description != "" {
		s["description"] = in.Description
	}
	if img := g.AbsURL(in.Image); img != "" {
		s["image"] = img
	}
	if len(in.Keywords) > 0 {
		s["keywords"] = strings.Join(in.Keywords, ", ")
	}
	if in.WordCount > 0 {
		s["wordCount"] = in.WordCount
	}
	return s
}

// Graph wraps nodes in a JSON-LD document.
func Graph(nodes ...map[string]interface{}) map[string]interface{} {
	graph := make([]interface{}, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			graph = append(graph, n)
		}
	}
	return map[string]interface{}{
		"@context": Context,
		"@graph":   graph,
	}
}
