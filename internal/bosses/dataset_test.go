package bosses_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/bossdle/assets"
	"github.com/robalobadob/bossdle/internal/bosses"
)

const sampleDoc = `[
  {"game": "Dark Souls", "bosses": [
    {"name": "Asylum Demon", "location": "Undead Asylum", "isDLC": false, "isOptional": false, "soulDrop": "None", "image": "a.webp"},
    {"name": "Taurus Demon", "location": "Undead Burg", "isDLC": false, "isOptional": false, "soulDrop": "Weapon", "image": "t.webp"}
  ]},
  {"game": "Dark Souls II", "bosses": [
    {"name": "Dragonrider", "location": "Heide's Tower of Flame", "isDLC": false, "isOptional": false, "soulDrop": "None", "image": "d.webp"}
  ]}
]`

var sampleTranslations = &bosses.Translations{
	Names:     map[string]string{"Asylum Demon": "Demônio do Asilo", "Taurus Demon": "Demônio Touro"},
	Locations: map[string]string{"Undead Asylum": "Asilo dos Mortos-Vivos"},
	Rewards:   map[string]string{"Weapon": "Arma"},
}

func loadSample(t *testing.T) *bosses.Dataset {
	t.Helper()
	ds, err := bosses.Load([]byte(sampleDoc), sampleTranslations)
	require.NoError(t, err)
	return ds
}

func TestLoadFlattensAndStampsGame(t *testing.T) {
	ds := loadSample(t)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "Asylum Demon", ds.At(0).Name)
	assert.Equal(t, "Dark Souls", ds.At(1).Game)
	assert.Equal(t, "Dark Souls II", ds.At(2).Game)
}

func TestLoadLocalizesWithFallback(t *testing.T) {
	ds := loadSample(t)

	asylum := ds.At(0)
	assert.Equal(t, "Asylum Demon", asylum.NameEN)
	assert.Equal(t, "Demônio do Asilo", asylum.NamePT)
	assert.Equal(t, "Asilo dos Mortos-Vivos", asylum.LocationPT)
	assert.Equal(t, "None", asylum.SoulDropPT)

	rider := ds.At(2)
	assert.Equal(t, "Dragonrider", rider.NamePT, "missing translation keeps canonical value")
	assert.Equal(t, "Heide's Tower of Flame", rider.LocationPT)
}

func TestLoadWithoutTranslations(t *testing.T) {
	ds, err := bosses.Load([]byte(sampleDoc), nil)
	require.NoError(t, err)
	r := ds.At(0)
	assert.Empty(t, r.NamePT)
	assert.Equal(t, "Asylum Demon", r.LocalizedName(bosses.PT))
}

func TestLoadRejectsDuplicatesAndBadJSON(t *testing.T) {
	_, err := bosses.Load([]byte(`[{"game":"g","bosses":[{"name":"A"},{"name":"a"}]}]`), nil)
	assert.Error(t, err)

	_, err = bosses.Load([]byte(`{`), nil)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	ds := loadSample(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"canonical", "Taurus Demon", "Taurus Demon"},
		{"case insensitive", "tAURUS demon", "Taurus Demon"},
		{"portuguese variant", "demônio do asilo", "Asylum Demon"},
		{"surrounding space", "  Dragonrider ", "Dragonrider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ds.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Name)
		})
	}

	_, err := ds.Resolve("Pinwheel")
	assert.ErrorIs(t, err, bosses.ErrUnknownBoss)
	_, err = ds.Resolve("")
	assert.ErrorIs(t, err, bosses.ErrUnknownBoss)
}

func TestResolvePrefersDatasetOrderOverNameKind(t *testing.T) {
	ds, err := bosses.Load([]byte(`[{"game": "Dark Souls", "bosses": [
    {"name": "Alpha", "namePT": "Beta", "image": "a.webp"},
    {"name": "Beta", "image": "b.webp"}
  ]}]`), nil)
	require.NoError(t, err)

	r, err := ds.Resolve("beta")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", r.Name, "first record matching any variant")
}

func TestSuggest(t *testing.T) {
	ds := loadSample(t)

	t.Run("empty query", func(t *testing.T) {
		assert.Empty(t, ds.Suggest("", nil, bosses.EN))
	})

	t.Run("substring on any variant", func(t *testing.T) {
		got := ds.Suggest("DEMÔNIO", nil, bosses.EN)
		require.Len(t, got, 2)
		assert.Equal(t, "Asylum Demon", got[0].DisplayName)
		assert.Equal(t, "Taurus Demon", got[1].DisplayName)
	})

	t.Run("portuguese display", func(t *testing.T) {
		got := ds.Suggest("taurus", nil, bosses.PT)
		require.Len(t, got, 1)
		assert.Equal(t, "Demônio Touro", got[0].DisplayName)
		assert.Equal(t, "Taurus Demon", got[0].Boss.Name)
	})

	t.Run("excludes guessed", func(t *testing.T) {
		got := ds.Suggest("demon", []string{"asylum demon"}, bosses.EN)
		require.Len(t, got, 1)
		assert.Equal(t, "Taurus Demon", got[0].Boss.Name)
	})
}

func TestSuggestCapsResults(t *testing.T) {
	raw, err := assets.DarkSouls()
	require.NoError(t, err)
	ds, err := bosses.Load(raw, nil)
	require.NoError(t, err)

	got := ds.Suggest("e", nil, bosses.EN)
	assert.Len(t, got, bosses.MaxSuggestions)
	assert.Equal(t, ds.At(0).Name, got[0].Boss.Name)
}

func TestBundledDatasetsLoad(t *testing.T) {
	trRaw, err := assets.Translations()
	require.NoError(t, err)
	tr, err := bosses.ParseTranslations(trRaw)
	require.NoError(t, err)

	ds, err := bosses.ReadSource("", assets.DarkSouls)
	require.NoError(t, err)
	dark, err := bosses.Load(ds, tr)
	require.NoError(t, err)
	assert.Greater(t, dark.Len(), 30)
	assert.Equal(t, "Demônio do Asilo", dark.At(0).NamePT)

	er, err := bosses.ReadSource("", assets.EldenRing)
	require.NoError(t, err)
	elden, err := bosses.Load(er, nil)
	require.NoError(t, err)
	assert.Positive(t, elden.Len())
	assert.NotEmpty(t, elden.At(0).NamePT)
}

func TestFallbackImage(t *testing.T) {
	assert.Equal(t, "/imgs/ds2.jpg", bosses.FallbackImage("Dark Souls II"))
	assert.Equal(t, "/imgs/default.png", bosses.FallbackImage("Bloodborne"))
}
