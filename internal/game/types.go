// internal/game/types.go
//
// Core type definitions for the Bossdle game engine.
// Defines:
//   - Mark: per-field result of a guess (exact/partial/none, plus empty for placeholders).
//   - Field: the compared attributes of a boss.
//   - Cell/Row: a rendered guess line of the comparison grid.

package game

import "errors"

// Mark represents the evaluation result for a single field of a guess.
type Mark string

const (
	MarkExact   Mark = "exact"
	MarkPartial Mark = "partial"
	MarkNone    Mark = "none"
	MarkEmpty   Mark = "empty" // placeholder row, no guess yet
)

// Field names a compared boss attribute, in grid column order.
type Field string

const (
	FieldName     Field = "name"
	FieldGame     Field = "game"
	FieldLocation Field = "location"
	FieldDLC      Field = "isDLC"
	FieldOptional Field = "isOptional"
	FieldReward   Field = "reward"
)

// Fields lists the grid columns in display order.
var Fields = []Field{FieldName, FieldGame, FieldLocation, FieldDLC, FieldOptional, FieldReward}

// Cell is one column of a grid row.
type Cell struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
	Mark  Mark   `json:"mark"`
}

// Row is one line of the comparison grid.
type Row struct {
	Boss          string `json:"boss,omitempty"`
	Image         string `json:"image,omitempty"`
	FallbackImage string `json:"fallbackImage,omitempty"`
	Cells         []Cell `json:"cells"`
}

var (
	ErrGameOver          = errors.New("game over")
	ErrAlreadyGuessed    = errors.New("boss already guessed")
	ErrInvalidTransition = errors.New("invalid view transition")
)
