package bosses

import (
	"encoding/json"
	"fmt"
)

// Translations are fixed canonical -> Portuguese lookup tables, consulted
// only while a dataset is loaded.
type Translations struct {
	Names     map[string]string `json:"names"`
	Locations map[string]string `json:"locations"`
	Rewards   map[string]string `json:"rewards"`
}

func ParseTranslations(raw []byte) (*Translations, error) {
	var t Translations
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode translations: %w", err)
	}
	return &t, nil
}

// localize treats the canonical fields as English and fills the PT variants;
// a missing table entry keeps the canonical value.
func (t *Translations) localize(b Record) Record {
	b.NameEN, b.NamePT = b.Name, lookup(t.Names, b.Name)
	b.LocationEN, b.LocationPT = b.Location, lookup(t.Locations, b.Location)
	b.SoulDropEN, b.SoulDropPT = b.SoulDrop, lookup(t.Rewards, b.SoulDrop)
	return b
}

func lookup(m map[string]string, k string) string {
	if v, ok := m[k]; ok && v != "" {
		return v
	}
	return k
}
