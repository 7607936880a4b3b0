package schema

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"unicode"
)

// DateModifiedKey is the volatile field ignored by semantic comparison.
const DateModifiedKey = "dateModified"

// Canonical returns the canonical JSON encoding of v with every
// dateModified member removed, at any depth. Object keys come out sorted.
func Canonical(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(strip(generic))
}

func strip(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			if k == DateModifiedKey {
				continue
			}
			out[k] = strip(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, child := range val {
			out[i] = strip(child)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b describe the same graph once dateModified is
// disregarded.
func Equal(a, b interface{}) bool {
	ca, err := Canonical(a)
	if err != nil {
		return false
	}
	cb, err := Canonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

// Parse decodes the text of an existing JSON-LD block.
func Parse(text string) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// DateModified returns the first dateModified value found in v.
func DateModified(v interface{}) string {
	switch val := v.(type) {
	case map[string]interface{}:
		if s, ok := val[DateModifiedKey].(string); ok {
			return s
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s := DateModified(val[k]); s != "" {
				return s
			}
		}
	case []interface{}:
		for _, child := range val {
			if s := DateModified(child); s != "" {
				return s
			}
		}
	}
	return ""
}

// Render pretty-prints a JSON-LD document without HTML escaping.
func Render(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// SquashSpace removes all whitespace, for the whitespace-insensitive
// comparison of Review blocks.
func SquashSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
