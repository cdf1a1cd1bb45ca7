// internal/game/evaluate.go
//
// Field-by-field comparison of a guessed boss against the day's answer.
//
// Rules:
//   - name, reward category: exact on equality of the localized values.
//   - game, DLC, optional: exact on equality.
//   - location: exact on equal localized strings, partial when the games
//     match but the locations differ.
//
// Every comparison is total; empty fields simply fail to match.

package game

import (
	"strings"

	"github.com/robalobadob/bossdle/internal/bosses"
)

// Evaluation holds one Mark per compared field.
type Evaluation struct {
	Name     Mark `json:"name"`
	Game     Mark `json:"game"`
	Location Mark `json:"location"`
	DLC      Mark `json:"isDLC"`
	Optional Mark `json:"isOptional"`
	Reward   Mark `json:"reward"`
}

// Evaluate compares guess with answer in the given language.
func Evaluate(guess, answer bosses.Record, lang bosses.Language) Evaluation {
	ev := Evaluation{
		Name:     exactIf(guess.LocalizedName(lang) == answer.LocalizedName(lang)),
		Game:     exactIf(guess.Game == answer.Game),
		Location: MarkNone,
		DLC:      exactIf(guess.IsDLC == answer.IsDLC),
		Optional: exactIf(guess.IsOptional == answer.IsOptional),
		Reward: exactIf(CategoryOf(guess.LocalizedSoulDrop(lang)) ==
			CategoryOf(answer.LocalizedSoulDrop(lang))),
	}
	switch {
	case guess.LocalizedLocation(lang) == answer.LocalizedLocation(lang):
		ev.Location = MarkExact
	case guess.Game == answer.Game:
		ev.Location = MarkPartial
	}
	return ev
}

// Mark returns the mark recorded for f.
func (e Evaluation) Mark(f Field) Mark {
	switch f {
	case FieldName:
		return e.Name
	case FieldGame:
		return e.Game
	case FieldLocation:
		return e.Location
	case FieldDLC:
		return e.DLC
	case FieldOptional:
		return e.Optional
	case FieldReward:
		return e.Reward
	}
	return MarkEmpty
}

func exactIf(ok bool) Mark {
	if ok {
		return MarkExact
	}
	return MarkNone
}

// RewardCategory buckets free-text reward descriptions.
type RewardCategory string

const (
	RewardWeapon RewardCategory = "Weapon"
	RewardRing   RewardCategory = "Ring"
	RewardMagic  RewardCategory = "Magic"
	RewardNone   RewardCategory = "None"
)

// rewardKeywords is checked in order; the first category with a keyword
// contained in the description wins.
var rewardKeywords = []struct {
	category RewardCategory
	words    map[bosses.Language][]string
}{
	{RewardWeapon, map[bosses.Language][]string{bosses.EN: {"Weapon"}, bosses.PT: {"Arma"}}},
	{RewardRing, map[bosses.Language][]string{bosses.EN: {"Ring"}, bosses.PT: {"Anel"}}},
	{RewardMagic, map[bosses.Language][]string{bosses.EN: {"Magic", "Spell"}, bosses.PT: {"Magia"}}},
}

// CategoryOf classifies a reward description. Keywords of every language are
// consulted because untranslated descriptions keep their source language.
func CategoryOf(reward string) RewardCategory {
	for _, rk := range rewardKeywords {
		for _, lang := range []bosses.Language{bosses.EN, bosses.PT} {
			for _, w := range rk.words[lang] {
				if strings.Contains(reward, w) {
					return rk.category
				}
			}
		}
	}
	return RewardNone
}

var rewardLabelsPT = map[RewardCategory]string{
	RewardWeapon: "Arma",
	RewardRing:   "Anel",
	RewardMagic:  "Magia",
	RewardNone:   "Nenhum",
}

// Label returns the category name in lang.
func (c RewardCategory) Label(lang bosses.Language) string {
	if lang == bosses.PT {
		if l, ok := rewardLabelsPT[c]; ok {
			return l
		}
	}
	return string(c)
}

func yesNo(v bool, lang bosses.Language) string {
	switch {
	case lang == bosses.PT && v:
		return "Sim"
	case lang == bosses.PT:
		return "Não"
	case v:
		return "Yes"
	}
	return "No"
}

// BuildRow renders guess against answer. A nil guess yields a placeholder
// row whose cells are all MarkEmpty.
func BuildRow(guess *bosses.Record, answer bosses.Record, lang bosses.Language) Row {
	if guess == nil {
		cells := make([]Cell, len(Fields))
		for i, f := range Fields {
			cells[i] = Cell{Field: f, Mark: MarkEmpty}
		}
		return Row{Cells: cells}
	}
	ev := Evaluate(*guess, answer, lang)
	values := map[Field]string{
		FieldName:     guess.LocalizedName(lang),
		FieldGame:     guess.Game,
		FieldLocation: guess.LocalizedLocation(lang),
		FieldDLC:      yesNo(guess.IsDLC, lang),
		FieldOptional: yesNo(guess.IsOptional, lang),
		FieldReward:   CategoryOf(guess.LocalizedSoulDrop(lang)).Label(lang),
	}
	cells := make([]Cell, len(Fields))
	for i, f := range Fields {
		cells[i] = Cell{Field: f, Value: values[f], Mark: ev.Mark(f)}
	}
	return Row{
		Boss:          guess.Name,
		Image:         guess.Image,
		FallbackImage: bosses.FallbackImage(guess.Game),
		Cells:         cells,
	}
}
