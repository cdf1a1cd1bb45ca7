package game

import (
	"math"

	"github.com/robalobadob/bossdle/internal/bosses"
	"github.com/robalobadob/bossdle/internal/daily"
)

// Zoom levels of the "guess the boss by image" mini-game.
const (
	InitialZoom = 8.0
	ZoomStep    = 0.8
	MinZoom     = 0.5
)

// ImageRound is one round of the image mini-game. Rounds pick a uniformly
// random boss, are never persisted and can be replayed at will.
type ImageRound struct {
	Boss    bosses.Record `json:"-"`
	Guesses []string      `json:"guesses"` // canonical names, in order
	Zoom    float64       `json:"zoom"`
	Over    bool          `json:"over"`
	Won     bool          `json:"won"`
}

// NewImageRound picks a random boss from ds, which must not be empty.
func NewImageRound(ds *bosses.Dataset) *ImageRound {
	return newImageRound(ds.At(daily.RandomIndex(ds.Len())))
}

func newImageRound(b bosses.Record) *ImageRound {
	return &ImageRound{Boss: b, Guesses: []string{}, Zoom: InitialZoom}
}

// Guess resolves name in ds and checks it against the round's boss. A wrong
// guess zooms out by ZoomStep, never below MinZoom.
func (r *ImageRound) Guess(ds *bosses.Dataset, name string) (correct bool, err error) {
	if r.Over {
		return false, ErrGameOver
	}
	rec, err := ds.Resolve(name)
	if err != nil {
		return false, err
	}
	for _, g := range r.Guesses {
		if g == rec.Name {
			return false, ErrAlreadyGuessed
		}
	}
	r.Guesses = append(r.Guesses, rec.Name)
	if rec.Name == r.Boss.Name {
		r.Over, r.Won = true, true
		return true, nil
	}
	r.Zoom = math.Max(r.Zoom-ZoomStep, MinZoom)
	return false, nil
}
