// internal/bosses/record.go
//
// Boss records and language-aware field accessors.
//
// A Record is immutable once a Dataset is built. Localized variants are
// optional; when a variant is empty the canonical value is used.

package bosses

import "strings"

// Language selects which localized variant of a field is shown.
type Language string

const (
	EN Language = "EN"
	PT Language = "PT"
)

// ParseLanguage maps a query value to a Language, defaulting to EN.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(PT)) {
		return PT
	}
	return EN
}

// Record is one boss entry. JSON tags match the bundled datasets and the
// persisted session snapshots.
type Record struct {
	Name       string `json:"name"`
	NameEN     string `json:"nameEN,omitempty"`
	NamePT     string `json:"namePT,omitempty"`
	Game       string `json:"game"`
	Location   string `json:"location"`
	LocationEN string `json:"locationEN,omitempty"`
	LocationPT string `json:"locationPT,omitempty"`
	IsDLC      bool   `json:"isDLC"`
	IsOptional bool   `json:"isOptional"`
	SoulDrop   string `json:"soulDrop"`
	SoulDropEN string `json:"soulDropEN,omitempty"`
	SoulDropPT string `json:"soulDropPT,omitempty"`
	Image      string `json:"image"`
}

func (r Record) LocalizedName(lang Language) string {
	return pick(lang, r.Name, r.NameEN, r.NamePT)
}

func (r Record) LocalizedLocation(lang Language) string {
	return pick(lang, r.Location, r.LocationEN, r.LocationPT)
}

func (r Record) LocalizedSoulDrop(lang Language) string {
	return pick(lang, r.SoulDrop, r.SoulDropEN, r.SoulDropPT)
}

// Matches reports whether name equals any name variant, ignoring case.
func (r Record) Matches(name string) bool {
	for _, v := range r.names() {
		if v != "" && strings.EqualFold(v, name) {
			return true
		}
	}
	return false
}

// contains reports whether q (already lowercased) is a substring of any name variant.
func (r Record) contains(q string) bool {
	for _, v := range r.names() {
		if v != "" && strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func (r Record) names() [3]string { return [3]string{r.Name, r.NameEN, r.NamePT} }

func pick(lang Language, canonical, en, pt string) string {
	switch {
	case lang == PT && pt != "":
		return pt
	case lang == EN && en != "":
		return en
	}
	return canonical
}

// FallbackImage returns the per-game artwork used when a boss image fails to load.
func FallbackImage(game string) string {
	switch game {
	case "Dark Souls":
		return "/imgs/ds1.png"
	case "Dark Souls II":
		return "/imgs/ds2.jpg"
	case "Dark Souls III":
		return "/imgs/ds3.png"
	case "Elden Ring":
		return "/imgs/endelring.webp"
	}
	return "/imgs/default.png"
}
