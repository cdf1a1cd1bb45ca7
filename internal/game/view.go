// internal/game/view.go
//
// Explicit screen state machine. Each player has one Screen holding the
// active mode, the view state and the transient image mini-game round.
//
//	Idle          --Open-->        Playing | Won
//	Playing       --GuessWon-->    Won
//	Won           --ViewResult-->  ViewingResult
//	Won, ViewingResult, ImageMinigame --StartImage--> ImageMinigame
//	ViewingResult, ImageMinigame      --Back-->       Won
//	any           --SwitchMode-->  Idle

package game

import "fmt"

type ViewState string

const (
	ViewIdle          ViewState = "idle"
	ViewPlaying       ViewState = "playing"
	ViewWon           ViewState = "won"
	ViewViewingResult ViewState = "viewing_result"
	ViewImageMinigame ViewState = "image_minigame"
)

// Screen is the transient, never persisted UI state of one player.
type Screen struct {
	Mode  string
	State ViewState
	Image *ImageRound
}

func NewScreen(mode string) *Screen {
	return &Screen{Mode: mode, State: ViewIdle}
}

// SwitchMode clears all transient state when mode differs from the active
// one and reports whether it did. Stored sessions are untouched.
func (sc *Screen) SwitchMode(mode string) bool {
	if sc.Mode == mode {
		return false
	}
	sc.Mode, sc.State, sc.Image = mode, ViewIdle, nil
	return true
}

// Open syncs the view with a loaded session: from Idle it enters Playing or
// Won; a Playing view whose session is already won moves to Won.
func (sc *Screen) Open(s *Session) {
	switch {
	case sc.State == ViewIdle && s.Won:
		sc.State = ViewWon
	case sc.State == ViewIdle:
		sc.State = ViewPlaying
	case sc.State == ViewPlaying && s.Won:
		sc.State = ViewWon
	case sc.State != ViewPlaying && !s.Won:
		// the session was reset by a day rollover
		sc.State, sc.Image = ViewPlaying, nil
	}
}

func (sc *Screen) GuessWon() error {
	return sc.transition(ViewWon, ViewPlaying)
}

func (sc *Screen) ViewResult() error {
	return sc.transition(ViewViewingResult, ViewWon)
}

// StartImage begins a new mini-game round; allowed once the daily game is won.
func (sc *Screen) StartImage(round *ImageRound) error {
	if err := sc.transition(ViewImageMinigame, ViewWon, ViewViewingResult, ViewImageMinigame); err != nil {
		return err
	}
	sc.Image = round
	return nil
}

func (sc *Screen) Back() error {
	if err := sc.transition(ViewWon, ViewViewingResult, ViewImageMinigame); err != nil {
		return err
	}
	sc.Image = nil
	return nil
}

func (sc *Screen) transition(to ViewState, from ...ViewState) error {
	for _, f := range from {
		if sc.State == f {
			sc.State = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sc.State, to)
}
