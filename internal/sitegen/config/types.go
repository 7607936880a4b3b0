package config

// Config is the top-level sitegen configuration loaded from YAML.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Paths      PathsConfig      `yaml:"paths"`
	Schema     SchemaConfig     `yaml:"structured_data"`
	Sitemap    SitemapConfig    `yaml:"sitemap"`
	CrossLinks CrossLinksConfig `yaml:"crosslinks"`
	Search     SearchConfig     `yaml:"search"`
	Workers    int              `yaml:"workers"`

	// ConfigDir is the directory containing the config file (set at load time).
	ConfigDir string `yaml:"-"`
}

type SiteConfig struct {
	Name          string            `yaml:"name"`
	Brand         string            `yaml:"brand"`
	BaseURL       string            `yaml:"base_url"`
	Description   string            `yaml:"description"`
	Logo          string            `yaml:"logo"`
	DefaultLocale string            `yaml:"default_locale"`
	Locales       []string          `yaml:"locales"`
	OGLocales     map[string]string `yaml:"og_locales"`
}

type PathsConfig struct {
	Root      string   `yaml:"root"`
	SiteInfos string   `yaml:"site_infos"`
	Guides    string   `yaml:"guides"`
	SearchOut string   `yaml:"search_out"`
	SkipDirs  []string `yaml:"skip_dirs"`
}

type SchemaConfig struct {
	MarkerClass          string        `yaml:"marker_class"`
	DatePublished        string        `yaml:"date_published"`
	NonBreadcrumb        []string      `yaml:"non_breadcrumb"`
	GuideContentSelector string        `yaml:"guide_content_selector"`
	Nesting              []NestingRule `yaml:"nesting"`
}

// NestingRule inserts fixed breadcrumb ancestors for keys matching Pattern.
type NestingRule struct {
	Pattern   string          `yaml:"pattern"`
	Ancestors []AncestorEntry `yaml:"ancestors"`
}

type AncestorEntry struct {
	Path  string            `yaml:"path"`
	Names map[string]string `yaml:"names"`
}

type SitemapConfig struct {
	Mirrors []MirrorConfig `yaml:"mirrors"`
	Index   bool           `yaml:"index"`
}

// MirrorConfig re-emits every sitemap bucket under another origin.
type MirrorConfig struct {
	Origin string `yaml:"origin"`
	Dir    string `yaml:"dir"`
}

type CrossLinksConfig struct {
	ContainerClass string            `yaml:"container_class"`
	MarkerClass    string            `yaml:"marker_class"`
	Headings       map[string]string `yaml:"headings"`
	Categories     []CategoryConfig  `yaml:"categories"`
}

type CategoryConfig struct {
	Slug    string            `yaml:"slug"`
	Titles  map[string]string `yaml:"titles"`
	Landing string            `yaml:"landing"`
}

type SearchConfig struct {
	MenuSections []MenuSection `yaml:"menu_sections"`
}

// SectionNames lists the menu section names in configured order.
func (c SearchConfig) SectionNames() []string {
	names := make([]string, 0, len(c.MenuSections))
	for _, s := range c.MenuSections {
		names = append(names, s.Name)
	}
	return names
}

// MenuSection describes one block of "card" markup scraped into the search menu.
type MenuSection struct {
	Name           string `yaml:"name"`
	Page           string `yaml:"page"`
	ContainerClass string `yaml:"container_class"`
	Limit          int    `yaml:"limit"`
}

// Title returns the category title for locale, falling back to the default locale.
func (c CategoryConfig) Title(locale, defaultLocale string) string {
	if t := c.Titles[locale]; t != "" {
		return t
	}
	if t := c.Titles[defaultLocale]; t != "" {
		return t
	}
	return c.Slug
}

// IsLocale reports whether code is one of the configured locales.
func (s SiteConfig) IsLocale(code string) bool {
	for _, l := range s.Locales {
		if l == code {
			return true
		}
	}
	return false
}
