// Package search builds the dataset consumed by the client search: the list
// of searchable keys, their labels and the navigation menu.
package search

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gamerank/sitegen/internal/sitegen/aggregate"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
	"github.com/gamerank/sitegen/internal/sitegen/sidecar"
)

// Output file names inside the search directory.
const (
	ConfigFile       = "config.json"
	TranslationsFile = "translations.json"
	MenuFile         = "menu-build.json"
)

// Config is config.json.
type Config struct {
	Sites []string `json:"sites"`
}

// Builder derives the search dataset from aggregated states.
type Builder struct {
	Model  *pathkey.Model
	Brand  string
	Policy aggregate.Policy
	// SiteInfos supplies review icons, keyed by review slug.
	SiteInfos map[string]*sidecar.SiteInfo
}

// Config lists every alive key in lexical order.
func (b *Builder) Config(states map[string]*aggregate.State) Config {
	sites := []string{}
	for _, key := range aggregate.SortedKeys(states) {
		if states[key].Alive() {
			sites = append(sites, key)
		}
	}
	return Config{Sites: sites}
}

// File is one rendered output file.
type File struct {
	Name string
	Data []byte
}

// Encode renders v as indented JSON with a trailing newline. HTML characters
// are left unescaped.
func Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return buf.Bytes(), nil
}

// Files renders the three search files.
func Files(cfg Config, translations Translations, menu Menu) ([]File, error) {
	var files []File
	for _, f := range []struct {
		name string
		v    interface{}
	}{
		{ConfigFile, cfg},
		{TranslationsFile, translations},
		{MenuFile, menu},
	} {
		data, err := Encode(f.v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
		files = append(files, File{Name: f.name, Data: data})
	}
	return files, nil
}
