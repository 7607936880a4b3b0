package sidecar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// SiteInfo is the site-infos/{slug}.json record of a reviewed site.
type SiteInfo struct {
	Slug    string                 `json:"-"`
	Name    string                 `json:"name"`
	URL     string                 `json:"url"`
	Icon    string                 `json:"icon"`
	Ratings map[string]interface{} `json:"ratings"`
}

// ReadSiteInfo reads the site info for slug. A missing file returns nil and
// no error; a file that is not a JSON object returns an error.
func ReadSiteInfo(dir, slug string) (*SiteInfo, error) {
	filePath := filepath.Join(dir, slug+".json")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	info := &SiteInfo{Slug: slug}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           info,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filePath, err)
	}
	return info, nil
}

// ReadAllSiteInfos reads every site info in dir, keyed by slug. Unreadable
// or malformed files are reported through skip and left out.
func ReadAllSiteInfos(dir string, skip func(slug string, err error)) (map[string]*SiteInfo, error) {
	result := make(map[string]*SiteInfo)

	if dir == "" {
		return result, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("reading site infos dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".json")
		info, err := ReadSiteInfo(dir, slug)
		if err != nil {
			if skip != nil {
				skip(slug, err)
			}
			continue
		}
		if info != nil {
			result[slug] = info
		}
	}

	return result, nil
}
