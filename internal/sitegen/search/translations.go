package search

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"

	"github.com/gamerank/sitegen/internal/sitegen/aggregate"
	"github.com/gamerank/sitegen/internal/sitegen/extract"
	"github.com/gamerank/sitegen/internal/sitegen/pathkey"
)

// Translation is the search record of one key. Fields the tool does not know
// about are carried through untouched in Extra.
type Translation struct {
	EN       string                 `json:"en"`
	RU       string                 `json:"ru"`
	OG       string                 `json:"og,omitempty"`
	Keywords []string               `json:"keywords"`
	Icon     string                 `json:"icon,omitempty"`
	Extra    map[string]interface{} `json:",remain"`
}

// MarshalJSON flattens Extra next to the known fields.
func (t Translation) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(t.Extra)+5)
	for k, v := range t.Extra {
		out[k] = v
	}
	out["en"] = t.EN
	out["ru"] = t.RU
	if t.OG != "" {
		out["og"] = t.OG
	}
	keywords := t.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	out["keywords"] = keywords
	if t.Icon != "" {
		out["icon"] = t.Icon
	}
	data, err := Encode(out)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(data, "\n"), nil
}

// Translations is translations.json, keyed by canonical key.
type Translations map[string]*Translation

// LoadTranslations reads a persisted translations file. A missing file is an
// empty table; records that cannot be decoded are reported through skip and
// treated as absent.
func LoadTranslations(path string, skip func(key string, err error)) (Translations, error) {
	out := make(Translations)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for key, v := range raw {
		t, err := decodeTranslation(v)
		if err != nil {
			if skip != nil {
				skip(key, err)
			}
			continue
		}
		out[key] = t
	}
	return out, nil
}

func decodeTranslation(v interface{}) (*Translation, error) {
	t := &Translation{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           t,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(v); err != nil {
		return nil, err
	}
	return t, nil
}

// Translations merges freshly aggregated labels into the persisted records.
// Only alive keys are kept. Persisted values survive unless the policy
// forces an overwrite. Review icons are never overwritten once set.
func (b *Builder) Translations(states map[string]*aggregate.State, persisted Translations) Translations {
	order := b.Model.Locales()
	out := make(Translations)
	for _, key := range aggregate.SortedKeys(states) {
		st := states[key]
		if !st.Alive() {
			continue
		}

		t := &Translation{}
		if prev := persisted[key]; prev != nil {
			*t = *prev
		}
		t.EN = aggregate.Merge(t.EN, st.Labels["en"], b.Policy)
		t.RU = aggregate.Merge(t.RU, st.Labels["ru"], b.Policy)
		t.OG = aggregate.Merge(t.OG, st.OGTitles["ru"], b.Policy)
		if t.EN == "" {
			t.EN = t.RU
		}
		if t.RU == "" {
			t.RU = t.EN
		}
		if t.EN == "" {
			t.EN = st.Label("en", order)
			t.RU = st.Label("ru", order)
		}

		t.Keywords = extract.CleanKeywords(append(append([]string(nil), t.Keywords...), st.Keywords...), b.Brand)
		if t.Keywords == nil {
			t.Keywords = []string{}
		}

		if st.Kind == pathkey.KindReview {
			if info := b.SiteInfos[pathkey.Slug(key)]; info != nil {
				t.Icon = aggregate.Merge(t.Icon, info.Icon, aggregate.PreserveExisting)
			}
			t.Icon = aggregate.Merge(t.Icon, st.Icon, aggregate.PreserveExisting)
		}

		out[key] = t
	}
	return out
}
