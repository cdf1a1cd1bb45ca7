package assets

import "embed"

//go:embed bosses.json bosseselden.json translations.json
var FS embed.FS

// DarkSouls returns the grouped Dark Souls trilogy dataset.
func DarkSouls() ([]byte, error) {
	return FS.ReadFile("bosses.json")
}

// EldenRing returns the grouped Elden Ring dataset (already carries EN/PT fields).
func EldenRing() ([]byte, error) {
	return FS.ReadFile("bosseselden.json")
}

// Translations returns the canonical -> Portuguese lookup tables.
func Translations() ([]byte, error) {
	return FS.ReadFile("translations.json")
}
