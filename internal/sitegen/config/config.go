package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the content root.
const DefaultFile = "sitegen.yaml"

// Load reads and parses a YAML config file, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes YAML config data. dir anchors relative paths.
func Parse(data []byte, dir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.ConfigDir = dir
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	resolvePaths(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	cfg.Site.BaseURL = strings.TrimRight(cfg.Site.BaseURL, "/")
	if cfg.Site.DefaultLocale == "" {
		cfg.Site.DefaultLocale = "en"
	}
	if len(cfg.Site.Locales) == 0 {
		cfg.Site.Locales = []string{"en", "ru"}
	}
	if !cfg.Site.IsLocale(cfg.Site.DefaultLocale) {
		cfg.Site.Locales = append([]string{cfg.Site.DefaultLocale}, cfg.Site.Locales...)
	}
	if cfg.Site.OGLocales == nil {
		cfg.Site.OGLocales = map[string]string{
			"en": "en_US",
			"ru": "ru_RU",
		}
	}
	if cfg.Site.Brand == "" {
		cfg.Site.Brand = cfg.Site.Name
	}

	if cfg.Paths.Root == "" {
		cfg.Paths.Root = "."
	}
	if cfg.Paths.SiteInfos == "" {
		cfg.Paths.SiteInfos = "site-infos"
	}
	if cfg.Paths.Guides == "" {
		cfg.Paths.Guides = "data/guides.json"
	}
	if cfg.Paths.SearchOut == "" {
		cfg.Paths.SearchOut = "search-config"
	}
	if cfg.Paths.SkipDirs == nil {
		cfg.Paths.SkipDirs = []string{
			".git", "node_modules", "dist", "build", ".cache",
			"search-config", "site-infos", "data", "assets", "images", "functions",
		}
	}

	if cfg.Schema.MarkerClass == "" {
		cfg.Schema.MarkerClass = "site-schema"
	}
	if cfg.Schema.DatePublished == "" {
		cfg.Schema.DatePublished = "2024-01-01"
	}
	if cfg.Schema.NonBreadcrumb == nil {
		cfg.Schema.NonBreadcrumb = []string{"reviews", "mirrors", "steam", "page", "topic", "type"}
	}
	if cfg.Schema.GuideContentSelector == "" {
		cfg.Schema.GuideContentSelector = ".guide-content"
	}
	if cfg.Schema.Nesting == nil {
		cfg.Schema.Nesting = []NestingRule{
			{Pattern: `^/(charms|collections)/[^/]+$`, Ancestors: []AncestorEntry{
				{Path: "/cases", Names: map[string]string{"en": "Cases", "ru": "Кейсы"}},
			}},
			{Pattern: `^/sticker-craft/[^/]+$`, Ancestors: []AncestorEntry{
				{Path: "/skins", Names: map[string]string{"en": "Skins", "ru": "Скины"}},
			}},
		}
	}

	if cfg.CrossLinks.ContainerClass == "" {
		cfg.CrossLinks.ContainerClass = "main-content"
	}
	if cfg.CrossLinks.MarkerClass == "" {
		cfg.CrossLinks.MarkerClass = "more-content"
	}
	if cfg.CrossLinks.Headings == nil {
		cfg.CrossLinks.Headings = map[string]string{
			"en": "More similar content",
			"ru": "Больше похожего контента",
		}
	}
	if cfg.CrossLinks.Categories == nil {
		cfg.CrossLinks.Categories = []CategoryConfig{
			{Slug: "csgo", Titles: map[string]string{"en": "CS2", "ru": "CS2"}},
			{Slug: "rust", Titles: map[string]string{"en": "Rust", "ru": "Rust"}},
			{Slug: "dota", Titles: map[string]string{"en": "Dota 2", "ru": "Dota 2"}},
			{Slug: "crypto", Titles: map[string]string{"en": "Crypto", "ru": "Крипто"}},
		}
	}

	if cfg.Search.MenuSections == nil {
		cfg.Search.MenuSections = []MenuSection{
			{Name: "csgo", Page: "/csgo", ContainerClass: "sites-list", Limit: 12},
			{Name: "rust", Page: "/rust", ContainerClass: "sites-list", Limit: 8},
			{Name: "dota", Page: "/dota", ContainerClass: "sites-list", Limit: 8},
			{Name: "crypto", Page: "/crypto", ContainerClass: "sites-list", Limit: 8},
		}
	}
	for i := range cfg.Search.MenuSections {
		if cfg.Search.MenuSections[i].Limit == 0 {
			cfg.Search.MenuSections[i].Limit = 10
		}
	}

	if cfg.Workers == 0 {
		cfg.Workers = 16
	}
}

func validate(cfg *Config) error {
	if cfg.Site.Name == "" {
		return fmt.Errorf("site.name is required")
	}
	if cfg.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url is required")
	}
	if !strings.HasPrefix(cfg.Site.BaseURL, "http://") && !strings.HasPrefix(cfg.Site.BaseURL, "https://") {
		return fmt.Errorf("site.base_url must be absolute: %q", cfg.Site.BaseURL)
	}
	for _, l := range cfg.Site.Locales {
		if len(l) != 2 {
			return fmt.Errorf("site.locales: %q is not a 2-letter code", l)
		}
	}
	for _, m := range cfg.Sitemap.Mirrors {
		if m.Origin == "" || m.Dir == "" {
			return fmt.Errorf("sitemap.mirrors entries need origin and dir")
		}
	}
	return nil
}

func resolvePaths(cfg *Config) {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(cfg.ConfigDir, p)
	}

	cfg.Paths.Root = resolve(cfg.Paths.Root)
	rootRel := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(cfg.Paths.Root, p)
	}
	cfg.Paths.SiteInfos = rootRel(cfg.Paths.SiteInfos)
	cfg.Paths.Guides = rootRel(cfg.Paths.Guides)
	cfg.Paths.SearchOut = rootRel(cfg.Paths.SearchOut)
}

// OGLocale returns the og:locale value for a site locale.
func (c *Config) OGLocale(locale string) string {
	if v, ok := c.Site.OGLocales[locale]; ok {
		return v
	}
	return locale
}
