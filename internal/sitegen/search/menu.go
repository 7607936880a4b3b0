package search

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gamerank/sitegen/internal/sitegen/config"
	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/fsutil"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
)

// MenuItem is one card of a menu section.
type MenuItem struct {
	Href  string `json:"href"`
	Logo  string `json:"logo"`
	Title string `json:"title"`
}

// MenuSection is a named group of cards.
type MenuSection struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Menu is menu-build.json: locale -> sections.
type Menu map[string][]MenuSection

// ScrapeCards collects the logo links inside every element with
// containerClass, in document order, de-duplicated by href and capped at
// limit (no cap when limit <= 0).
func ScrapeCards(doc *goquery.Document, containerClass string, limit int) []MenuItem {
	items := []MenuItem{}
	seen := make(map[string]bool)
	doc.Find("." + containerClass + " a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if limit > 0 && len(items) >= limit {
			return false
		}
		img := a.Find("img").First()
		if img.Length() == 0 {
			return true
		}
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || seen[href] {
			return true
		}
		seen[href] = true

		title := strings.TrimSpace(a.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(img.AttrOr("alt", ""))
		}
		if title == "" {
			title = strings.Join(strings.Fields(a.Text()), " ")
		}
		items = append(items, MenuItem{
			Href:  href,
			Logo:  strings.TrimSpace(img.AttrOr("src", "")),
			Title: title,
		})
		return true
	})
	return items
}

// MenuBuilder scrapes the configured landing pages into a Menu.
type MenuBuilder struct {
	Root     string
	Model    *pathkey.Model
	Sections []config.MenuSection
	// Limits override the configured per-section caps, keyed by section name.
	Limits map[string]int
}

// Build scrapes every section once from its default-locale landing page and
// localizes the hrefs for the other locales. A section whose page is missing
// or unreadable yields an empty item list and an error in the returned slice.
func (m *MenuBuilder) Build() (Menu, []error) {
	var errs []error
	scraped := make([][]MenuItem, len(m.Sections))
	for i, sec := range m.Sections {
		items, err := m.scrape(sec)
		if err != nil {
			errs = append(errs, fmt.Errorf("menu section %s: %w", sec.Name, err))
			items = []MenuItem{}
		}
		scraped[i] = items
	}

	menu := make(Menu)
	for _, locale := range m.Model.Locales() {
		sections := make([]MenuSection, 0, len(m.Sections))
		for i, sec := range m.Sections {
			items := make([]MenuItem, 0, len(scraped[i]))
			for _, it := range scraped[i] {
				it.Href = m.localize(it.Href, locale)
				items = append(items, it)
			}
			sections = append(sections, MenuSection{Name: sec.Name, Items: items})
		}
		menu[locale] = sections
	}
	return menu, errs
}

func (m *MenuBuilder) limit(sec config.MenuSection) int {
	if l, ok := m.Limits[sec.Name]; ok && l > 0 {
		return l
	}
	return sec.Limit
}

func (m *MenuBuilder) scrape(sec config.MenuSection) ([]MenuItem, error) {
	path, ok := fsutil.Resolve(m.Root, sec.Page)
	if !ok {
		return nil, fmt.Errorf("page %s not found", sec.Page)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := extract.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ScrapeCards(doc, sec.ContainerClass, m.limit(sec)), nil
}

// localize prefixes site-relative hrefs with the locale segment. External
// links are left alone.
func (m *MenuBuilder) localize(href, locale string) string {
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return href
	}
	return m.Model.Localize(href, locale)
}
