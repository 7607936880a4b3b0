package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Guides is the guides table: slug -> record with field / field-xx keys.
type Guides map[string]*Record

// Get returns the record for slug, or nil.
func (g Guides) Get(slug string) *Record {
	if g == nil {
		return nil
	}
	return g[slug]
}

// LoadGuides reads the guides table. A missing file yields an empty table.
func LoadGuides(path string) (Guides, error) {
	out := make(Guides)
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("reading guides %s: %w", path, err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing guides %s: %w", path, err)
	}
	for slug, fields := range raw {
		out[slug] = &Record{Slug: slug, Fields: fields}
	}
	return out, nil
}
