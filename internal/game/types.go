// internal/game/types.go
//
// Core type definitions for the FindPair engine.
// Defines:
//   - Card:    one grid cell (symbol + revealed/matched flags).
//   - Board:   full engine state for one session (cards, selection, win flag).
//   - Outcome: what a single tap did to the board.
//   - Game:    a stored session wrapping a Board with identity and ownership.

package game

import (
	"errors"
	"time"
)

// ErrInvalidArgument is returned for a grid size outside [1, MaxGridSize], an empty
// alphabet or a tap index outside the board.
var ErrInvalidArgument = errors.New("invalid argument")

// Outcome reports the effect of a single tap.
// Possible values:
//   - "ignored":  nothing changed (matched card, or card already face up).
//   - "revealed": the card was turned face up and awaits a partner.
//   - "matched":  the card completed a pair.
//   - "mismatch": the card was turned face up but differs from its partner.
//   - "won":      the card completed the last pair.
type Outcome string

const (
	OutcomeIgnored  Outcome = "ignored"
	OutcomeRevealed Outcome = "revealed"
	OutcomeMatched  Outcome = "matched"
	OutcomeMismatch Outcome = "mismatch"
	OutcomeWon      Outcome = "won"
)

// Card is a single grid cell.
type Card struct {
	Index    int    `json:"index"`    // Row-major position on the board.
	Symbol   string `json:"symbol"`   // Face value; pairs share a symbol.
	Revealed bool   `json:"revealed"` // Face currently shown.
	Matched  bool   `json:"matched"`  // Permanently resolved.
}

// Board holds the state of a single pairs game.
//
// A board of odd n² has one spare card whose symbol appears once. It can
// never be matched, so such a board is never won.
type Board struct {
	GridSize  int    `json:"gridSize"`  // Side length n; the board has n*n cards.
	Cards     []Card `json:"cards"`     // Row-major card list.
	Selection []int  `json:"selection"` // Face-up, unresolved card indices (0..2).
	Won       bool   `json:"won"`       // True once every card is matched.
}

// Game is a stored session: a board plus who owns it.
type Game struct {
	ID        string    `json:"id"`              // UUID.
	Owner     string    `json:"owner"`           // User ID or anonymous cookie value.
	Daily     string    `json:"daily,omitempty"` // YYYY-MM-DD for daily boards.
	Board     *Board    `json:"board"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
