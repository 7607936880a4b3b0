// Package sidecar reads the JSON files that sit next to the HTML tree:
// per-review site infos and the guides table.
package sidecar

// Record is a generic sidecar item with map-based fields.
type Record struct {
	Slug   string
	Fields map[string]interface{}
}

// GetString returns a string field value, or empty string if not found/not a string.
func (r *Record) GetString(key string) string {
	if r == nil {
		return ""
	}
	v, ok := r.Fields[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// GetLocalized returns key for locale using the "field-xx" convention,
// falling back to the unsuffixed field.
func (r *Record) GetLocalized(key, locale string) string {
	if locale != "" {
		if s := r.GetString(key + "-" + locale); s != "" {
			return s
		}
	}
	return r.GetString(key)
}

// GetStringSlice returns a []string field value, or nil if not found/wrong type.
func (r *Record) GetStringSlice(key string) []string {
	if r == nil {
		return nil
	}
	v, ok := r.Fields[key]
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case []string:
		return val
	case []interface{}:
		result := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
