// internal/daily/daily.go
//
// Deterministic "boss of the day" selection.
//
// The game-day is the calendar date at a fixed UTC offset, rolling over at a
// fixed local hour rather than at midnight. The day string (YYYY-MM-DD) is
// hashed with a 31-multiplier rolling hash over its UTF-16 code units with
// signed 32-bit wraparound; the index is |hash| mod datasetLength.

package daily

import (
	"crypto/rand"
	"math/big"
	"time"
	"unicode/utf16"
)

const dayLayout = "2006-01-02"

// Clock describes when a game-day starts.
type Clock struct {
	Offset       time.Duration // reference zone offset from UTC
	RolloverHour int           // local hour at which a new game-day begins
}

// DefaultClock is Brasilia time (UTC-3) with a 06:00 rollover.
var DefaultClock = Clock{Offset: -3 * time.Hour, RolloverHour: 6}

// GameDay returns the YYYY-MM-DD game-day containing now.
func (c Clock) GameDay(now time.Time) string {
	local := now.UTC().Add(c.Offset)
	if local.Hour() < c.RolloverHour {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format(dayLayout)
}

// PreviousDay returns the game-day before day, or "" if day is malformed.
func PreviousDay(day string) string {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(dayLayout)
}

// Index returns the answer index for now in a dataset of n records.
func (c Clock) Index(now time.Time, n int) int {
	return DayIndex(c.GameDay(now), n)
}

// DayIndex maps a game-day string onto [0, n). It returns 0 when n <= 0.
func DayIndex(day string, n int) int {
	if n <= 0 {
		return 0
	}
	h := int64(Hash(day))
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}

// Hash is the 31-multiplier rolling hash over the UTF-16 code units of s,
// wrapped to a signed 32-bit value.
func Hash(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(u)
	}
	return h
}

// RandomIndex returns a uniformly random index in [0, n), or 0 when n <= 0.
// Used by the image mini-game, which is intentionally not date-seeded.
func RandomIndex(n int) int {
	if n <= 0 {
		return 0
	}
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}
