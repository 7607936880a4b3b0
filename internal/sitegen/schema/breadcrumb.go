package schema

import (
	"strings"

	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/fsutil"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
)

// Breadcrumbs builds the trail for key in locale: home, fixed nesting or
// category ancestors, every intermediate segment that has a page on disk,
// then the page itself.
func (c *Composer) Breadcrumbs(key, locale string) []BreadcrumbItem {
	items := []BreadcrumbItem{{Name: c.homeName(locale), URL: c.url("/", locale)}}
	if key == "/" {
		return items
	}

	seen := map[string]bool{"/": true}
	add := func(p, name string) {
		if seen[p] {
			return
		}
		seen[p] = true
		items = append(items, BreadcrumbItem{Name: name, URL: c.url(p, locale)})
	}

	if rule, ok := c.nestingFor(key); ok {
		for _, anc := range rule.ancestors {
			add(anc.Path, c.ancestorName(anc, locale))
		}
	} else if cat, ok := c.categoryFor(key); ok {
		add(landing(cat), cat.Title(locale, c.model.DefaultLocale))
	}

	segs := pathkey.Segments(key)
	for i := 1; i < len(segs); i++ {
		if c.nonBreadcrumb[segs[i-1]] {
			continue
		}
		prefix := "/" + strings.Join(segs[:i], "/")
		if _, ok := fsutil.Resolve(c.root, c.model.Localize(prefix, locale)); !ok {
			continue
		}
		add(prefix, c.labels(prefix, locale))
	}

	add(key, c.labels(key, locale))
	return items
}

func (c *Composer) homeName(locale string) string {
	if name := c.labels("/", locale); name != "" && name != "Home" {
		return name
	}
	return c.gen.SiteConfig.Name
}

func (c *Composer) ancestorName(anc config.AncestorEntry, locale string) string {
	if n := anc.Names[locale]; n != "" {
		return n
	}
	if n := anc.Names[c.model.DefaultLocale]; n != "" {
		return n
	}
	return c.labels(anc.Path, locale)
}

func (c *Composer) nestingFor(key string) (nestingRule, bool) {
	for _, r := range c.nesting {
		if r.re.MatchString(key) {
			return r, true
		}
	}
	return nestingRule{}, false
}

func (c *Composer) categoryFor(key string) (config.CategoryConfig, bool) {
	segs := pathkey.Segments(key)
	if len(segs) < 2 {
		return config.CategoryConfig{}, false
	}
	for _, cat := range c.categories {
		if cat.Slug == segs[0] {
			return cat, true
		}
	}
	return config.CategoryConfig{}, false
}

func landing(cat config.CategoryConfig) string {
	if cat.Landing != "" {
		return cat.Landing
	}
	return "/" + cat.Slug
}
